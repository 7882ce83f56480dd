package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/communityservice/platform-backend/internal/goroutine"
	"github.com/communityservice/platform-backend/internal/models"
	"github.com/communityservice/platform-backend/internal/pkg/apperror"
	"github.com/communityservice/platform-backend/internal/query"
	"github.com/communityservice/platform-backend/internal/repository"
	"github.com/communityservice/platform-backend/internal/repository/common"
)

// memWorkerRepo хранит исполнителей в памяти и проверяет уникальность
// email и телефона так же, как ограничения таблицы workers.
type memWorkerRepo struct {
	mu      sync.Mutex
	workers map[uuid.UUID]models.Worker
}

func newMemWorkerRepo() *memWorkerRepo {
	return &memWorkerRepo{workers: make(map[uuid.UUID]models.Worker)}
}

func (r *memWorkerRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.workers {
		if w.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memWorkerRepo) ExistsByPhone(_ context.Context, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.workers {
		if w.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *memWorkerRepo) Create(_ context.Context, w *models.Worker) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.workers {
		if existing.Email == w.Email {
			return common.TranslatePQ(&pq.Error{Code: "23505", Constraint: repository.ConstraintWorkerEmail})
		}
		if existing.PhoneNumber == w.PhoneNumber {
			return common.TranslatePQ(&pq.Error{Code: "23505", Constraint: repository.ConstraintWorkerPhone})
		}
	}
	w.ID = uuid.New()
	w.CreatedAt = time.Now()
	w.UpdatedAt = w.CreatedAt
	r.workers[w.ID] = *w
	return nil
}

func (r *memWorkerRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Worker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.workers[id]
	if !ok {
		return nil, repository.ErrWorkerNotFound
	}
	return &w, nil
}

func (r *memWorkerRepo) List(_ context.Context, _ query.WorkerCriteria) ([]models.Worker, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Worker, 0, len(r.workers))
	for _, w := range r.workers {
		out = append(out, w)
	}
	return out, len(out), nil
}

func (r *memWorkerRepo) Update(ctx context.Context, id uuid.UUID, _ repository.WorkerChanges) (*models.Worker, error) {
	return r.GetByID(ctx, id)
}

func (r *memWorkerRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, _ *string) (*models.Worker, error) {
	r.mu.Lock()
	w, ok := r.workers[id]
	if ok {
		w.Status = status
		r.workers[id] = w
	}
	r.mu.Unlock()
	if !ok {
		return nil, repository.ErrWorkerNotFound
	}
	return &w, nil
}

func (r *memWorkerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workers[id]; !ok {
		return repository.ErrWorkerNotFound
	}
	delete(r.workers, id)
	return nil
}

func (r *memWorkerRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workers)
}

func newMemOnboarding(t *testing.T) (*OnboardingService, *memWorkerRepo, uuid.UUID) {
	t.Helper()
	categoryID := uuid.New()
	categories := new(mockCategoryRepo)
	categories.On("GetByID", mock.Anything, categoryID).Return(activeCategory(categoryID), nil)

	repo := newMemWorkerRepo()
	svc := NewOnboardingService(repo, categories, &recordingNotifier{}, goroutine.NewRunner(nullLog()), nullLog())
	return svc, repo, categoryID
}

func TestRegister_SameEmailDifferentCase(t *testing.T) {
	svc, repo, categoryID := newMemOnboarding(t)
	ctx := context.Background()

	first := validInput(categoryID)
	first.Email = ptr("Anu@X.com")
	w, err := svc.Register(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "anu@x.com", w.Email)

	second := validInput(categoryID)
	second.Email = ptr("anu@x.com")
	second.PhoneNumber = ptr("+919800000000")
	_, err = svc.Register(ctx, second)

	require.True(t, apperror.IsConflict(err))
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, MsgEmailTaken, appErr.Message)
	assert.Equal(t, 1, repo.Len())
}

func TestRegister_ConcurrentSameEmailStoresOne(t *testing.T) {
	svc, repo, categoryID := newMemOnboarding(t)
	const attempts = 8

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := validInput(categoryID)
			in.Email = ptr([]string{"Anu@X.com", "anu@x.COM"}[i%2])
			_, err := svc.Register(context.Background(), in)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case apperror.IsConflict(err):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)
	assert.Equal(t, 1, repo.Len())
}
