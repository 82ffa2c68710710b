package db

import (
	"context"

	"gorm.io/gorm"
)

// Repository is the row-level surface shared by the gorm-backed stores
type Repository[T any] interface {
	Create(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id any) (*T, error)
	FindOneWhere(ctx context.Context, condition string, args ...any) (*T, error)
	Exists(ctx context.Context, condition string, args ...any) (bool, error)
	DeleteWhere(ctx context.Context, condition string, args ...any) (int64, error)
	UpdateColumnsWhere(ctx context.Context, values map[string]any, condition string, args ...any) (int64, error)

	DB() *gorm.DB
}

// BaseRepository implements Repository for any gorm model
type BaseRepository[T any] struct {
	db *gorm.DB
}

// NewRepositoryWithDB binds a repository to conn
func NewRepositoryWithDB[T any](conn *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{db: conn}
}

func (r *BaseRepository[T]) DB() *gorm.DB { return r.db }

func (r *BaseRepository[T]) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Create inserts entity in its own transaction so a constraint violation rolls back cleanly
func (r *BaseRepository[T]) Create(ctx context.Context, entity *T) error {
	return withTransactionDB(r.db, ctx, func(tx *gorm.DB) error {
		return tx.Create(entity).Error
	})
}

func (r *BaseRepository[T]) FindByID(ctx context.Context, id any) (*T, error) {
	return r.FindOneWhere(ctx, "id = ?", id)
}

// FindOneWhere returns the first match or gorm.ErrRecordNotFound
func (r *BaseRepository[T]) FindOneWhere(ctx context.Context, condition string, args ...any) (*T, error) {
	entity := new(T)
	if err := r.scoped(ctx).Where(condition, args...).First(entity).Error; err != nil {
		return nil, err
	}
	return entity, nil
}

func (r *BaseRepository[T]) Exists(ctx context.Context, condition string, args ...any) (bool, error) {
	var n int64
	err := r.scoped(ctx).Model(new(T)).Where(condition, args...).Limit(1).Count(&n).Error
	return n > 0, err
}

// DeleteWhere returns the number of rows removed
func (r *BaseRepository[T]) DeleteWhere(ctx context.Context, condition string, args ...any) (int64, error) {
	res := r.scoped(ctx).Where(condition, args...).Delete(new(T))
	return res.RowsAffected, res.Error
}

// UpdateColumnsWhere writes values to every matching row, skipping hooks
func (r *BaseRepository[T]) UpdateColumnsWhere(ctx context.Context, values map[string]any, condition string, args ...any) (int64, error) {
	res := r.scoped(ctx).Model(new(T)).Where(condition, args...).UpdateColumns(values)
	return res.RowsAffected, res.Error
}
