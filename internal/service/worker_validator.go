package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/communityservice/platform-backend/internal/models"
	"github.com/communityservice/platform-backend/internal/pkg/apperror"
	"github.com/communityservice/platform-backend/internal/repository"
	"github.com/communityservice/platform-backend/internal/validation"
)

// Сообщения проверок регистрации.
const (
	MsgMissingFields     = "Please provide all required fields: firstName, lastName, email, phoneNumber, category, and hourlyRate"
	MsgMissingAddress    = "Address with city and state is required"
	MsgInvalidCategoryID = "Invalid category ID format. Category must be a valid UUID"
	MsgInactiveCategory  = "The selected category is not active"
	MsgEmailTaken        = "Worker with this email already exists"
	MsgPhoneTaken        = "Worker with this phone number already exists"
	MsgUserTaken         = "Worker profile already exists for this user"
	MsgNegativeRate      = "Hourly rate cannot be negative"
	MsgInvalidAvail      = "Availability must be one of: full-time, part-time, on-demand"
	MsgNegativeExp       = "Experience cannot be negative"
)

// AddressInput: адрес в заявке. nil означает, что поле не передано.
type AddressInput struct {
	Street  *string
	City    *string
	State   *string
	ZipCode *string
	Country *string
}

// RegisterWorkerInput: заявка на регистрацию исполнителя.
type RegisterWorkerInput struct {
	FirstName    *string
	LastName     *string
	Email        *string
	PhoneNumber  *string
	Address      *AddressInput
	Category     *string
	Skills       []string
	Experience   *float64
	HourlyRate   *float64
	Availability *string
	ProfileImage *string
	UserID       *uuid.UUID
}

type CategoryLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
}

type WorkerLookup interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

// WorkerValidator проверяет заявку по порядку и останавливается на первой ошибке.
type WorkerValidator struct {
	categories CategoryLookup
	workers    WorkerLookup
}

func NewWorkerValidator(categories CategoryLookup, workers WorkerLookup) *WorkerValidator {
	return &WorkerValidator{categories: categories, workers: workers}
}

// ValidateRegistration возвращает готового к сохранению исполнителя
// с нормализованными полями и значениями по умолчанию.
func (v *WorkerValidator) ValidateRegistration(ctx context.Context, in RegisterWorkerInput) (*models.Worker, error) {
	firstName, lastName := blankToEmpty(in.FirstName), blankToEmpty(in.LastName)
	email, phone := blankToEmpty(in.Email), blankToEmpty(in.PhoneNumber)
	category := blankToEmpty(in.Category)

	if firstName == "" || lastName == "" || email == "" || phone == "" || category == "" || in.HourlyRate == nil {
		return nil, apperror.Validation(MsgMissingFields)
	}
	if in.Address == nil || blankToEmpty(in.Address.City) == "" || blankToEmpty(in.Address.State) == "" {
		return nil, apperror.Validation(MsgMissingAddress)
	}

	categoryID, err := uuid.Parse(category)
	if err != nil {
		return nil, apperror.Validation(MsgInvalidCategoryID)
	}

	cat, err := v.categories.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, apperror.NotFound(fmt.Sprintf("Category with ID %s does not exist", categoryID))
		}
		return nil, apperror.Internal(fmt.Errorf("lookup category: %w", err))
	}
	if !cat.IsActive {
		return nil, apperror.Conflict(MsgInactiveCategory)
	}

	email = strings.ToLower(email)
	taken, err := v.workers.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("check email: %w", err))
	}
	if taken {
		return nil, apperror.Conflict(MsgEmailTaken)
	}

	taken, err = v.workers.ExistsByPhone(ctx, phone)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("check phone: %w", err))
	}
	if taken {
		return nil, apperror.Conflict(MsgPhoneTaken)
	}

	if *in.HourlyRate < 0 {
		return nil, apperror.Validation(MsgNegativeRate)
	}

	availability := models.AvailabilityOnDemand
	if a := blankToEmpty(in.Availability); a != "" {
		if _, ok := models.ValidAvailabilities[a]; !ok {
			return nil, apperror.Validation(MsgInvalidAvail)
		}
		availability = a
	}

	var experience float64
	if in.Experience != nil {
		if *in.Experience < 0 {
			return nil, apperror.Validation(MsgNegativeExp)
		}
		experience = *in.Experience
	}

	fields := validation.WorkerFields{FirstName: &firstName, LastName: &lastName, Email: &email, PhoneNumber: &phone, Skills: in.Skills}
	if err := fields.Validate(); err != nil {
		return nil, apperror.Validation(err.Error())
	}

	country := models.DefaultCountry
	if c := blankToEmpty(in.Address.Country); c != "" {
		country = c
	}

	skills := pq.StringArray{}
	for _, s := range in.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}

	return &models.Worker{
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		PhoneNumber: phone,
		Address: models.Address{
			Street:  nonBlank(in.Address.Street),
			City:    blankToEmpty(in.Address.City),
			State:   blankToEmpty(in.Address.State),
			ZipCode: nonBlank(in.Address.ZipCode),
			Country: country,
		},
		CategoryID:   categoryID,
		Category:     cat.Summary(),
		Skills:       skills,
		Experience:   experience,
		HourlyRate:   *in.HourlyRate,
		Availability: availability,
		ProfileImage: nonBlank(in.ProfileImage),
		IsActive:     true,
		Status:       models.WorkerStatusPending,
		UserID:       in.UserID,
	}, nil
}

func blankToEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func nonBlank(s *string) *string {
	if v := blankToEmpty(s); v != "" {
		return &v
	}
	return nil
}
