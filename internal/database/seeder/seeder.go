package seeder

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"skill-hire/internal/database"
)

// Seeder writes one kind of reference or demo data. Run must be safe to
// repeat against an already seeded database.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Runner applies seeders in order and stops at the first failure.
type Runner struct {
	Seeders []Seeder
	Logger  logrus.FieldLogger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		if r.Logger != nil {
			r.Logger.WithField("seeder", s.Name()).Info("seeded")
		}
	}
	return nil
}
