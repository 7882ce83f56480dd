package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/communityservice/platform-backend/internal/models"
	"github.com/communityservice/platform-backend/internal/notification"
	"github.com/communityservice/platform-backend/internal/pkg/apperror"
	"github.com/communityservice/platform-backend/internal/query"
	"github.com/communityservice/platform-backend/internal/repository"
	"github.com/communityservice/platform-backend/internal/repository/common"
	"github.com/communityservice/platform-backend/internal/validation"
)

// OnboardingState: этап обработки заявки.
type OnboardingState string

const (
	StateValidating OnboardingState = "validating"
	StatePersisting OnboardingState = "persisting"
	StateNotifying  OnboardingState = "notifying"
	StateDone       OnboardingState = "done"
	StateRejected   OnboardingState = "rejected"
)

const registrationNotifyTask = "registration-notification"

type WorkerRepository interface {
	WorkerLookup
	Create(ctx context.Context, w *models.Worker) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Worker, error)
	List(ctx context.Context, c query.WorkerCriteria) ([]models.Worker, int, error)
	Update(ctx context.Context, id uuid.UUID, ch repository.WorkerChanges) (*models.Worker, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) (*models.Worker, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RegistrationNotifier отправляет подтверждение регистрации. Ошибок не возвращает.
type RegistrationNotifier interface {
	ConfirmRegistration(ctx context.Context, phone, name string) notification.Outcome
	MaxDuration() time.Duration
}

// TaskRunner запускает фоновую задачу.
type TaskRunner interface {
	Go(task string, fn func())
}

// Requester: автор запроса, взятый из access токена.
type Requester struct {
	UserID uuid.UUID
	Role   string
}

func (r Requester) IsAdmin() bool { return r.Role == models.RoleAdmin }

// UpdateWorkerInput: частичное обновление профиля. nil поля не изменяются.
type UpdateWorkerInput struct {
	Requester    Requester
	FirstName    *string
	LastName     *string
	Email        *string
	PhoneNumber  *string
	Address      *AddressInput
	Category     *string
	Skills       *[]string
	Experience   *float64
	HourlyRate   *float64
	Availability *string
	ProfileImage *string
	IsActive     *bool
}

// WorkerPage: страница результатов поиска.
type WorkerPage struct {
	Workers    []models.Worker  `json:"workers"`
	Pagination query.Pagination `json:"pagination"`
}

// OnboardingService принимает заявки исполнителей и управляет их профилями.
type OnboardingService struct {
	validator  *WorkerValidator
	workers    WorkerRepository
	categories CategoryLookup
	notifier   RegistrationNotifier
	runner     TaskRunner
	log        *logrus.Entry
}

func NewOnboardingService(workers WorkerRepository, categories CategoryLookup, notifier RegistrationNotifier, runner TaskRunner, log *logrus.Entry) *OnboardingService {
	return &OnboardingService{
		validator:  NewWorkerValidator(categories, workers),
		workers:    workers,
		categories: categories,
		notifier:   notifier,
		runner:     runner,
		log:        log,
	}
}

// Register проверяет заявку, сохраняет исполнителя и ставит в очередь подтверждение.
// Результат уведомления не влияет на ответ.
func (s *OnboardingService) Register(ctx context.Context, in RegisterWorkerInput) (*models.Worker, error) {
	s.state(StateValidating, nil)
	worker, err := s.validator.ValidateRegistration(ctx, in)
	if err != nil {
		s.state(StateRejected, logrus.Fields{"reason": err.Error()})
		return nil, err
	}

	s.state(StatePersisting, nil)
	if err := s.workers.Create(ctx, worker); err != nil {
		return nil, s.persistError(err)
	}

	fields := logrus.Fields{"worker_id": worker.ID}
	s.state(StateNotifying, fields)
	s.confirmInBackground(ctx, worker.ID, worker.PhoneNumber, worker.FirstName)

	s.state(StateDone, fields)
	return worker, nil
}

func (s *OnboardingService) confirmInBackground(ctx context.Context, workerID uuid.UUID, phone, name string) {
	detached := context.WithoutCancel(ctx)
	s.runner.Go(registrationNotifyTask, func() {
		nctx, cancel := context.WithTimeout(detached, s.notifier.MaxDuration())
		defer cancel()

		outcome := s.notifier.ConfirmRegistration(nctx, phone, name)
		s.log.WithFields(logrus.Fields{
			"worker_id": workerID,
			"delivered": outcome.Delivered,
			"channel":   outcome.Channel,
			"attempts":  len(outcome.Attempts),
		}).Info("registration notification finished")
	})
}

// List ищет исполнителей по фильтру и возвращает страницу с метаданными.
func (s *OnboardingService) List(ctx context.Context, f query.WorkerFilter) (*WorkerPage, error) {
	criteria, err := query.BuildWorkerCriteria(f)
	if err != nil {
		return nil, err
	}

	workers, total, err := s.workers.List(ctx, criteria)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &WorkerPage{
		Workers:    workers,
		Pagination: criteria.Window.Paginate(total),
	}, nil
}

// Get возвращает исполнителя по ID.
func (s *OnboardingService) Get(ctx context.Context, id uuid.UUID) (*models.Worker, error) {
	w, err := s.workers.GetByID(ctx, id)
	if err != nil {
		return nil, s.persistError(err)
	}
	return w, nil
}

// Update частично обновляет профиль. Обычный пользователь может менять только свой профиль.
func (s *OnboardingService) Update(ctx context.Context, id uuid.UUID, in UpdateWorkerInput) (*models.Worker, error) {
	if !in.Requester.IsAdmin() {
		current, err := s.workers.GetByID(ctx, id)
		if err != nil {
			return nil, s.persistError(err)
		}
		if current.UserID == nil || *current.UserID != in.Requester.UserID {
			return nil, apperror.ErrForbidden
		}
	}

	changes, err := s.buildChanges(ctx, in)
	if err != nil {
		return nil, err
	}

	w, err := s.workers.Update(ctx, id, changes)
	if err != nil {
		return nil, s.persistError(err)
	}
	s.log.WithField("worker_id", id).Info("worker updated")
	return w, nil
}

// UpdateStatus меняет статус проверки исполнителя.
func (s *OnboardingService) UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) (*models.Worker, error) {
	status = strings.TrimSpace(status)
	if _, ok := models.ValidWorkerStatuses[status]; !ok {
		return nil, apperror.Validation("Status must be one of: pending, approved, rejected, suspended")
	}

	w, err := s.workers.UpdateStatus(ctx, id, status, nonBlank(notes))
	if err != nil {
		return nil, s.persistError(err)
	}
	s.log.WithFields(logrus.Fields{"worker_id": id, "status": status}).Info("worker status changed")
	return w, nil
}

// Delete удаляет исполнителя.
func (s *OnboardingService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.workers.Delete(ctx, id); err != nil {
		return s.persistError(err)
	}
	s.log.WithField("worker_id", id).Info("worker deleted")
	return nil
}

func (s *OnboardingService) buildChanges(ctx context.Context, in UpdateWorkerInput) (repository.WorkerChanges, error) {
	var ch repository.WorkerChanges

	required := []struct {
		name  string
		value *string
		dst   **string
	}{
		{"firstName", in.FirstName, &ch.FirstName},
		{"lastName", in.LastName, &ch.LastName},
		{"email", in.Email, &ch.Email},
		{"phoneNumber", in.PhoneNumber, &ch.PhoneNumber},
	}
	for _, f := range required {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if v == "" {
			return ch, apperror.Validation(f.name + " cannot be empty")
		}
		*f.dst = &v
	}
	if ch.Email != nil {
		lower := strings.ToLower(*ch.Email)
		ch.Email = &lower
	}

	fields := validation.WorkerFields{FirstName: ch.FirstName, LastName: ch.LastName, Email: ch.Email, PhoneNumber: ch.PhoneNumber}
	if in.Skills != nil {
		fields.Skills = *in.Skills
	}
	if err := fields.Validate(); err != nil {
		return ch, apperror.Validation(err.Error())
	}

	if a := in.Address; a != nil {
		for _, f := range []struct {
			name  string
			value *string
			dst   **string
		}{
			{"address.city", a.City, &ch.City},
			{"address.state", a.State, &ch.State},
			{"address.country", a.Country, &ch.Country},
		} {
			if f.value == nil {
				continue
			}
			v := strings.TrimSpace(*f.value)
			if v == "" {
				return ch, apperror.Validation(f.name + " cannot be empty")
			}
			*f.dst = &v
		}
		ch.Street = trimmed(a.Street)
		ch.ZipCode = trimmed(a.ZipCode)
	}

	if in.Category != nil {
		id, err := uuid.Parse(strings.TrimSpace(*in.Category))
		if err != nil {
			return ch, apperror.Validation(MsgInvalidCategoryID)
		}
		if _, err := s.categories.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return ch, apperror.NotFound(fmt.Sprintf("Category with ID %s does not exist", id))
			}
			return ch, apperror.Internal(fmt.Errorf("lookup category: %w", err))
		}
		ch.CategoryID = &id
	}

	if in.HourlyRate != nil && *in.HourlyRate < 0 {
		return ch, apperror.Validation(MsgNegativeRate)
	}
	ch.HourlyRate = in.HourlyRate

	if in.Experience != nil && *in.Experience < 0 {
		return ch, apperror.Validation(MsgNegativeExp)
	}
	ch.Experience = in.Experience

	if in.Availability != nil {
		v := strings.TrimSpace(*in.Availability)
		if _, ok := models.ValidAvailabilities[v]; !ok {
			return ch, apperror.Validation(MsgInvalidAvail)
		}
		ch.Availability = &v
	}

	if in.Skills != nil {
		skills := make([]string, 0, len(*in.Skills))
		for _, sk := range *in.Skills {
			if sk = strings.TrimSpace(sk); sk != "" {
				skills = append(skills, sk)
			}
		}
		ch.Skills = &skills
	}

	ch.ProfileImage = trimmed(in.ProfileImage)
	ch.IsActive = in.IsActive
	return ch, nil
}

// persistError переводит ошибки хранилища в ошибки приложения.
// Нарушение уникальности получает то же сообщение, что и предварительная проверка.
func (s *OnboardingService) persistError(err error) error {
	var dup *common.DuplicateError
	switch {
	case errors.As(err, &dup):
		switch dup.Constraint {
		case repository.ConstraintWorkerEmail:
			return apperror.Conflict(MsgEmailTaken)
		case repository.ConstraintWorkerPhone:
			return apperror.Conflict(MsgPhoneTaken)
		case repository.ConstraintWorkerUser:
			return apperror.Conflict(MsgUserTaken)
		default:
			return apperror.Conflict("Worker already exists")
		}
	case errors.Is(err, repository.ErrWorkerNotFound):
		return apperror.ErrWorkerNotFound
	case errors.Is(err, common.ErrInvalidInput):
		return apperror.Validation("Invalid worker data")
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	s.log.WithError(err).Error("worker storage failure")
	return apperror.Internal(err)
}

func (s *OnboardingService) state(state OnboardingState, fields logrus.Fields) {
	entry := s.log.WithField("state", state)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.Debug("onboarding state")
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
