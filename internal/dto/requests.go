package dto

import (
	"github.com/google/uuid"

	"github.com/communityservice/platform-backend/internal/service"
)

// AddressRequest: адрес исполнителя в теле запроса.
type AddressRequest struct {
	Street  *string `json:"street"`
	City    *string `json:"city"`
	State   *string `json:"state"`
	ZipCode *string `json:"zipCode"`
	Country *string `json:"country"`
}

func (a *AddressRequest) toInput() *service.AddressInput {
	if a == nil {
		return nil
	}
	return &service.AddressInput{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}

// RegisterWorkerRequest: тело POST /api/workers.
// Поля указатели, чтобы отличать отсутствующее значение от нулевого.
type RegisterWorkerRequest struct {
	FirstName    *string         `json:"firstName"`
	LastName     *string         `json:"lastName"`
	Email        *string         `json:"email"`
	PhoneNumber  *string         `json:"phoneNumber"`
	Address      *AddressRequest `json:"address"`
	Category     *string         `json:"category"`
	Skills       []string        `json:"skills"`
	Experience   *float64        `json:"experience"`
	HourlyRate   *float64        `json:"hourlyRate"`
	Availability *string         `json:"availability"`
	ProfileImage *string         `json:"profileImage"`
}

// ToInput переводит запрос во входные данные сервиса. userID берётся из токена, если он есть.
func (r RegisterWorkerRequest) ToInput(userID *uuid.UUID) service.RegisterWorkerInput {
	return service.RegisterWorkerInput{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		PhoneNumber:  r.PhoneNumber,
		Address:      r.Address.toInput(),
		Category:     r.Category,
		Skills:       r.Skills,
		Experience:   r.Experience,
		HourlyRate:   r.HourlyRate,
		Availability: r.Availability,
		ProfileImage: r.ProfileImage,
		UserID:       userID,
	}
}

// UpdateWorkerRequest: тело PUT /api/workers/:id. Передаются только изменяемые поля.
type UpdateWorkerRequest struct {
	FirstName    *string         `json:"firstName"`
	LastName     *string         `json:"lastName"`
	Email        *string         `json:"email"`
	PhoneNumber  *string         `json:"phoneNumber"`
	Address      *AddressRequest `json:"address"`
	Category     *string         `json:"category"`
	Skills       *[]string       `json:"skills"`
	Experience   *float64        `json:"experience"`
	HourlyRate   *float64        `json:"hourlyRate"`
	Availability *string         `json:"availability"`
	ProfileImage *string         `json:"profileImage"`
	IsActive     *bool           `json:"isActive"`
}

func (r UpdateWorkerRequest) ToInput(requester service.Requester) service.UpdateWorkerInput {
	return service.UpdateWorkerInput{
		Requester:    requester,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
		PhoneNumber:  r.PhoneNumber,
		Address:      r.Address.toInput(),
		Category:     r.Category,
		Skills:       r.Skills,
		Experience:   r.Experience,
		HourlyRate:   r.HourlyRate,
		Availability: r.Availability,
		ProfileImage: r.ProfileImage,
		IsActive:     r.IsActive,
	}
}

// UpdateStatusRequest: тело PATCH /api/workers/:id/status.
type UpdateStatusRequest struct {
	Status            string  `json:"status"`
	VerificationNotes *string `json:"verificationNotes"`
}

// CreateCategoryRequest: тело POST /api/categories.
type CreateCategoryRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	Icon           *string `json:"icon"`
	ParentCategory *string `json:"parentCategory"`
	SortOrder      *int    `json:"sortOrder"`
}

func (r CreateCategoryRequest) ToInput() service.CreateCategoryInput {
	return service.CreateCategoryInput{
		Name:           r.Name,
		Description:    r.Description,
		Icon:           r.Icon,
		ParentCategory: r.ParentCategory,
		SortOrder:      r.SortOrder,
	}
}
