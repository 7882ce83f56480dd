package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"

	"github.com/communityservice/platform-backend/internal/models"
	"github.com/communityservice/platform-backend/internal/notification"
	"github.com/communityservice/platform-backend/internal/query"
	"github.com/communityservice/platform-backend/internal/repository"
)

type mockWorkerRepo struct {
	mock.Mock
}

func (m *mockWorkerRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockWorkerRepo) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func (m *mockWorkerRepo) Create(ctx context.Context, w *models.Worker) error {
	args := m.Called(ctx, w)
	if args.Error(0) == nil {
		w.ID = uuid.New()
		w.CreatedAt = time.Now()
		w.UpdatedAt = w.CreatedAt
	}
	return args.Error(0)
}

func (m *mockWorkerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Worker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Worker), args.Error(1)
}

func (m *mockWorkerRepo) List(ctx context.Context, c query.WorkerCriteria) ([]models.Worker, int, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Worker), args.Int(1), args.Error(2)
}

func (m *mockWorkerRepo) Update(ctx context.Context, id uuid.UUID, ch repository.WorkerChanges) (*models.Worker, error) {
	args := m.Called(ctx, id, ch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Worker), args.Error(1)
}

func (m *mockWorkerRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) (*models.Worker, error) {
	args := m.Called(ctx, id, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Worker), args.Error(1)
}

func (m *mockWorkerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *mockCategoryRepo) GetByName(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *mockCategoryRepo) Create(ctx context.Context, c *models.Category) error {
	args := m.Called(ctx, c)
	if args.Error(0) == nil {
		c.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockCategoryRepo) List(ctx context.Context, f repository.CategoryListFilter) ([]models.Category, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

// recordingNotifier запоминает вызовы подтверждения регистрации.
type recordingNotifier struct {
	mu      sync.Mutex
	calls   []string
	outcome notification.Outcome
	panics  bool
	ctxErr  error
}

func (n *recordingNotifier) ConfirmRegistration(ctx context.Context, phone, name string) notification.Outcome {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, phone+"|"+name)
	n.ctxErr = ctx.Err()
	if n.panics {
		panic("notifier exploded")
	}
	return n.outcome
}

func (n *recordingNotifier) MaxDuration() time.Duration { return time.Second }

func (n *recordingNotifier) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

// inlineRunner выполняет задачу сразу и глотает panic, как фоновый runner.
type inlineRunner struct {
	tasks []string
}

func (r *inlineRunner) Go(task string, fn func()) {
	r.tasks = append(r.tasks, task)
	defer func() { _ = recover() }()
	fn()
}

func nullLog() *logrus.Entry {
	log, _ := test.NewNullLogger()
	return logrus.NewEntry(log)
}

func ptr[T any](v T) *T { return &v }
