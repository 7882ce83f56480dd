// Package query превращает необязательные параметры поиска исполнителей
// в нормализованный набор условий и окно пагинации.
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/communityservice/platform-backend/internal/pkg/apperror"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// WorkerFilter: параметры поиска в том виде, в каком они пришли от клиента.
// nil означает, что параметр не передан.
type WorkerFilter struct {
	Page         *string
	Limit        *string
	Status       *string
	Category     *string
	City         *string
	State        *string
	Availability *string
	MinRating    *string
	IsActive     *string
	Search       *string
}

// FilterFromValues читает WorkerFilter из query параметров.
func FilterFromValues(values url.Values) WorkerFilter {
	return WorkerFilter{
		Page:         lookup(values, "page"),
		Limit:        lookup(values, "limit"),
		Status:       lookup(values, "status"),
		Category:     lookup(values, "category"),
		City:         lookup(values, "city"),
		State:        lookup(values, "state"),
		Availability: lookup(values, "availability"),
		MinRating:    lookup(values, "minRating"),
		IsActive:     lookup(values, "isActive"),
		Search:       lookup(values, "search"),
	}
}

func lookup(values url.Values, key string) *string {
	if _, ok := values[key]; !ok {
		return nil
	}
	v := values.Get(key)
	return &v
}

// WorkerCriteria: нормализованные условия поиска. nil поле не ограничивает выборку.
// City, State и Search сравниваются как подстроки без учёта регистра,
// Search совпадает, если подстрока есть хотя бы в одном из полей:
// имя, фамилия, email, телефон.
type WorkerCriteria struct {
	Status       *string
	CategoryID   *uuid.UUID
	City         *string
	State        *string
	Availability *string
	MinRating    *float64
	IsActive     *bool
	Search       *string
	Window       Window
}

// Window: страница выборки. Сортировка всегда по дате создания, новые первыми.
type Window struct {
	Page   int
	Limit  int
	Offset int
}

// Pagination: метаданные страницы для ответа. Limit содержит
// фактически применённый размер страницы.
type Pagination struct {
	CurrentPage  int  `json:"currentPage"`
	Limit        int  `json:"limit"`
	TotalPages   int  `json:"totalPages"`
	TotalWorkers int  `json:"totalWorkers"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

// Paginate считает метаданные по общему числу совпадений.
func (w Window) Paginate(total int) Pagination {
	totalPages := int(math.Ceil(float64(total) / float64(w.Limit)))
	return Pagination{
		CurrentPage:  w.Page,
		Limit:        w.Limit,
		TotalPages:   totalPages,
		TotalWorkers: total,
		HasNextPage:  w.Page < totalPages,
		HasPrevPage:  w.Page > 1,
	}
}

// BuildWorkerCriteria проверяет и нормализует фильтр. Ошибки формата
// возвращаются до обращения к хранилищу.
func BuildWorkerCriteria(f WorkerFilter) (WorkerCriteria, error) {
	var c WorkerCriteria

	c.Status = nonEmpty(f.Status)
	c.City = nonEmpty(f.City)
	c.State = nonEmpty(f.State)
	c.Availability = nonEmpty(f.Availability)
	c.Search = nonEmpty(f.Search)

	if raw := nonEmpty(f.Category); raw != nil {
		id, err := uuid.Parse(*raw)
		if err != nil {
			return WorkerCriteria{}, apperror.Format("Invalid category ID format")
		}
		c.CategoryID = &id
	}

	if raw := nonEmpty(f.MinRating); raw != nil {
		rating, err := strconv.ParseFloat(*raw, 64)
		if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
			return WorkerCriteria{}, apperror.Validation("minRating must be a number")
		}
		c.MinRating = &rating
	}

	if f.IsActive != nil {
		active := *f.IsActive == "true"
		c.IsActive = &active
	}

	c.Window = NewWindow(f.Page, f.Limit)
	return c, nil
}

// NewWindow строит окно пагинации. Некорректные значения заменяются значениями по умолчанию,
// limit ограничен MaxLimit, а page не больше MaxPage(limit), чтобы смещение помещалось в int.
func NewWindow(page, limit *string) Window {
	p := parsePositive(page, DefaultPage)
	l := parsePositive(limit, DefaultLimit)
	if l > MaxLimit {
		l = MaxLimit
	}
	if maxPage := MaxPage(l); p > maxPage {
		p = maxPage
	}
	return Window{Page: p, Limit: l, Offset: (p - 1) * l}
}

// MaxPage возвращает наибольший номер страницы, для которой page*limit не переполняет int.
func MaxPage(limit int) int {
	return math.MaxInt / limit
}

func parsePositive(raw *string, fallback int) int {
	if raw == nil {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(*raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func nonEmpty(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
