package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// GetByID - универсальная функция для получения сущности по ID
func GetByID[T any](ctx context.Context, db sqlx.QueryerContext, query string, id interface{}, notFoundErr error) (*T, error) {
	var entity T
	if err := sqlx.GetContext(ctx, db, &entity, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundErr
		}
		return nil, fmt.Errorf("get by id: %w", TranslatePQ(err))
	}

	return &entity, nil
}

// Exists выполняет SELECT EXISTS(...) и возвращает результат.
func Exists(ctx context.Context, db sqlx.QueryerContext, query string, args ...interface{}) (bool, error) {
	var exists bool
	if err := sqlx.GetContext(ctx, db, &exists, "SELECT EXISTS("+query+")", args...); err != nil {
		return false, fmt.Errorf("exists: %w", err)
	}
	return exists, nil
}

// LikePattern экранирует спецсимволы LIKE и оборачивает строку в %...%.
func LikePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// SetBuilder собирает список "col = $n" для частичного UPDATE.
type SetBuilder struct {
	sets []string
	args []interface{}
}

// Add добавляет присваивание колонке.
func (b *SetBuilder) Add(column string, value interface{}) {
	b.args = append(b.args, value)
	b.sets = append(b.sets, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

// Empty сообщает, что нечего обновлять.
func (b *SetBuilder) Empty() bool { return len(b.sets) == 0 }

// Build возвращает SET часть и аргументы. Следующий свободный номер аргумента равен len(args)+1.
func (b *SetBuilder) Build() (string, []interface{}) {
	return strings.Join(b.sets, ", "), b.args
}

// TxStarter открывает транзакцию. Его реализует *sqlx.DB.
type TxStarter interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// WithTransaction выполняет fn в транзакции. Ошибка или panic в fn откатывают её.
func WithTransaction(ctx context.Context, db TxStarter, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
