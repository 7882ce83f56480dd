package common

import (
	"errors"

	"github.com/lib/pq"
)

// Общие ошибки для всех репозиториев
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidInput  = errors.New("invalid input")
)

// Коды ошибок PostgreSQL, которые репозитории различают.
const (
	pgUniqueViolation     = "23505"
	pgInvalidTextRepr     = "22P02"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// DuplicateError: нарушение ограничения уникальности. Constraint содержит имя ограничения.
type DuplicateError struct {
	Constraint string
	Err        error
}

func (e *DuplicateError) Error() string {
	return "duplicate value violates " + e.Constraint
}

func (e *DuplicateError) Unwrap() error { return e.Err }

// Is позволяет проверять DuplicateError через errors.Is(err, ErrAlreadyExists).
func (e *DuplicateError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// TranslatePQ превращает известные ошибки драйвера в ошибки репозитория.
// Неизвестные ошибки возвращаются без изменений.
func TranslatePQ(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case pgUniqueViolation:
		return &DuplicateError{Constraint: pqErr.Constraint, Err: err}
	case pgInvalidTextRepr, pgForeignKeyViolation, pgCheckViolation:
		return errors.Join(ErrInvalidInput, err)
	default:
		return err
	}
}
