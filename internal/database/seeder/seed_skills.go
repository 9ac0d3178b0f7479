package seeder

import (
	"context"

	"skill-hire/internal/database"
	"skill-hire/internal/domain/skill"
)

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := requireColumns(ctx, db, "skills", "name", "category", "created_at"); err != nil {
		return err
	}

	return database.InTx(ctx, db, func(tx database.Tx) error {
		for _, it := range skill.Defaults {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO skills (name, category) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
				it.Name,
				it.Category,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
