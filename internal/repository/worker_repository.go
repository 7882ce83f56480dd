package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/communityservice/platform-backend/internal/models"
	"github.com/communityservice/platform-backend/internal/query"
	"github.com/communityservice/platform-backend/internal/repository/common"
)

var ErrWorkerNotFound = fmt.Errorf("worker: %w", common.ErrNotFound)

// Имена ограничений уникальности таблицы workers.
const (
	ConstraintWorkerEmail = "workers_email_key"
	ConstraintWorkerPhone = "workers_phone_number_key"
	ConstraintWorkerUser  = "workers_user_id_key"
)

const workerSelect = `
	SELECT
		w.id, w.first_name, w.last_name, w.email, w.phone_number,
		w.address_street AS "address.street",
		w.address_city AS "address.city",
		w.address_state AS "address.state",
		w.address_zip_code AS "address.zip_code",
		w.address_country AS "address.country",
		w.category_id, w.skills, w.experience, w.hourly_rate, w.availability,
		w.rating, w.total_jobs, w.completed_jobs, w.profile_image,
		w.is_verified, w.is_active, w.status, w.verification_notes, w.user_id,
		w.created_at, w.updated_at,
		c.name AS category_name, c.description AS category_description
	FROM workers w
	LEFT JOIN categories c ON c.id = w.category_id`

// workerRow: строка выборки вместе с краткой информацией о категории.
type workerRow struct {
	models.Worker
	CategoryName        *string `db:"category_name"`
	CategoryDescription *string `db:"category_description"`
}

func (r workerRow) worker() models.Worker {
	w := r.Worker
	if r.CategoryName != nil {
		w.Category = &models.CategorySummary{
			ID:          w.CategoryID,
			Name:        *r.CategoryName,
			Description: r.CategoryDescription,
		}
	}
	return w
}

// WorkerChanges: частичное обновление исполнителя. nil поля не изменяются.
type WorkerChanges struct {
	FirstName    *string
	LastName     *string
	Email        *string
	PhoneNumber  *string
	Street       *string
	City         *string
	State        *string
	ZipCode      *string
	Country      *string
	CategoryID   *uuid.UUID
	Skills       *[]string
	Experience   *float64
	HourlyRate   *float64
	Availability *string
	ProfileImage *string
	IsActive     *bool
}

type WorkerRepository struct {
	db *sqlx.DB
}

func NewWorkerRepository(db *sqlx.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

// Create сохраняет исполнителя и заполняет ID и временные метки.
func (r *WorkerRepository) Create(ctx context.Context, w *models.Worker) error {
	query := `
		INSERT INTO workers (
			first_name, last_name, email, phone_number,
			address_street, address_city, address_state, address_zip_code, address_country,
			category_id, skills, experience, hourly_rate, availability,
			rating, total_jobs, completed_jobs, profile_image,
			is_verified, is_active, status, verification_notes, user_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		w.FirstName, w.LastName, w.Email, w.PhoneNumber,
		w.Address.Street, w.Address.City, w.Address.State, w.Address.ZipCode, w.Address.Country,
		w.CategoryID, w.Skills, w.Experience, w.HourlyRate, w.Availability,
		w.Rating, w.TotalJobs, w.CompletedJobs, w.ProfileImage,
		w.IsVerified, w.IsActive, w.Status, w.VerificationNotes, w.UserID,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("worker repository: create: %w", common.TranslatePQ(err))
	}
	return nil
}

// GetByID возвращает исполнителя вместе с категорией.
func (r *WorkerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Worker, error) {
	row, err := common.GetByID[workerRow](ctx, r.db, workerSelect+` WHERE w.id = $1`, id, ErrWorkerNotFound)
	if err != nil {
		return nil, err
	}
	w := row.worker()
	return &w, nil
}

// ExistsByEmail проверяет, занят ли email.
func (r *WorkerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return common.Exists(ctx, r.db, `SELECT 1 FROM workers WHERE email = $1`, email)
}

// ExistsByPhone проверяет, занят ли номер телефона.
func (r *WorkerRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return common.Exists(ctx, r.db, `SELECT 1 FROM workers WHERE phone_number = $1`, phone)
}

// List возвращает страницу исполнителей и общее число совпадений.
// Выборка страницы и подсчёт выполняются параллельно.
func (r *WorkerRepository) List(ctx context.Context, c query.WorkerCriteria) ([]models.Worker, int, error) {
	where, args := workerWhere(c)

	var rows []workerRow
	var total int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		pageArgs := append(append([]interface{}{}, args...), c.Window.Limit, c.Window.Offset)
		q := fmt.Sprintf("%s%s ORDER BY w.created_at DESC LIMIT $%d OFFSET $%d",
			workerSelect, where, len(args)+1, len(args)+2)
		if err := r.db.SelectContext(gctx, &rows, q, pageArgs...); err != nil {
			return fmt.Errorf("worker repository: list: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := r.db.GetContext(gctx, &total, `SELECT COUNT(*) FROM workers w`+where, args...); err != nil {
			return fmt.Errorf("worker repository: count: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	workers := make([]models.Worker, 0, len(rows))
	for _, row := range rows {
		workers = append(workers, row.worker())
	}
	return workers, total, nil
}

// Update применяет частичные изменения и возвращает обновлённого исполнителя.
func (r *WorkerRepository) Update(ctx context.Context, id uuid.UUID, ch WorkerChanges) (*models.Worker, error) {
	set := workerSet(ch)
	if set.Empty() {
		return r.GetByID(ctx, id)
	}

	assignments, args := set.Build()
	q := fmt.Sprintf(`UPDATE workers SET %s, updated_at = NOW() WHERE id = $%d`, assignments, len(args)+1)
	res, err := r.db.ExecContext(ctx, q, append(args, id)...)
	if err != nil {
		return nil, fmt.Errorf("worker repository: update: %w", common.TranslatePQ(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrWorkerNotFound
	}
	return r.GetByID(ctx, id)
}

// UpdateStatus меняет статус проверки. Одобренный исполнитель помечается как проверенный.
func (r *WorkerRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, notes *string) (*models.Worker, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE workers
		SET status = $1,
		    verification_notes = COALESCE($2, verification_notes),
		    is_verified = ($1 = 'approved'),
		    updated_at = NOW()
		WHERE id = $3
	`, status, notes, id)
	if err != nil {
		return nil, fmt.Errorf("worker repository: update status: %w", common.TranslatePQ(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrWorkerNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete удаляет исполнителя.
func (r *WorkerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("worker repository: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrWorkerNotFound
	}
	return nil
}

// workerWhere переводит условия поиска в WHERE. Аргументы нумеруются с $1.
func workerWhere(c query.WorkerCriteria) (string, []interface{}) {
	var conds []string
	var args []interface{}
	arg := func(v interface{}) int {
		args = append(args, v)
		return len(args)
	}

	if c.Status != nil {
		conds = append(conds, fmt.Sprintf("w.status = $%d", arg(*c.Status)))
	}
	if c.CategoryID != nil {
		conds = append(conds, fmt.Sprintf("w.category_id = $%d", arg(*c.CategoryID)))
	}
	if c.City != nil {
		conds = append(conds, fmt.Sprintf("w.address_city ILIKE $%d", arg(common.LikePattern(*c.City))))
	}
	if c.State != nil {
		conds = append(conds, fmt.Sprintf("w.address_state ILIKE $%d", arg(common.LikePattern(*c.State))))
	}
	if c.Availability != nil {
		conds = append(conds, fmt.Sprintf("w.availability = $%d", arg(*c.Availability)))
	}
	if c.MinRating != nil {
		conds = append(conds, fmt.Sprintf("w.rating >= $%d", arg(*c.MinRating)))
	}
	if c.IsActive != nil {
		conds = append(conds, fmt.Sprintf("w.is_active = $%d", arg(*c.IsActive)))
	}
	if c.Search != nil {
		n := arg(common.LikePattern(*c.Search))
		conds = append(conds, fmt.Sprintf(
			"(w.first_name ILIKE $%[1]d OR w.last_name ILIKE $%[1]d OR w.email ILIKE $%[1]d OR w.phone_number ILIKE $%[1]d)", n))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func workerSet(ch WorkerChanges) *common.SetBuilder {
	set := &common.SetBuilder{}
	addString := func(col string, v *string) {
		if v != nil {
			set.Add(col, *v)
		}
	}

	addString("first_name", ch.FirstName)
	addString("last_name", ch.LastName)
	addString("email", ch.Email)
	addString("phone_number", ch.PhoneNumber)
	addString("address_street", ch.Street)
	addString("address_city", ch.City)
	addString("address_state", ch.State)
	addString("address_zip_code", ch.ZipCode)
	addString("address_country", ch.Country)
	if ch.CategoryID != nil {
		set.Add("category_id", *ch.CategoryID)
	}
	if ch.Skills != nil {
		set.Add("skills", pq.StringArray(*ch.Skills))
	}
	if ch.Experience != nil {
		set.Add("experience", *ch.Experience)
	}
	if ch.HourlyRate != nil {
		set.Add("hourly_rate", *ch.HourlyRate)
	}
	addString("availability", ch.Availability)
	addString("profile_image", ch.ProfileImage)
	if ch.IsActive != nil {
		set.Add("is_active", *ch.IsActive)
	}
	return set
}
