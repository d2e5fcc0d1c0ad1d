package recipes

import (
	"context"

	"gorm.io/gorm"
)

// Service implements the cocktail, list and catalog operations on top of a
// gorm connection. A Service bound to a transaction is obtained through
// Transaction and shares that transaction for every call.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{db: db}
}

// DB exposes the underlying connection.
func (s *Service) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn with a Service bound to a single transaction. Calls made
// on a Service that is already transactional nest as savepoints.
func (s *Service) Transaction(ctx context.Context, fn func(tx *Service) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Service{db: tx})
	})
}

func (s *Service) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}
