package seeder

import (
	"context"

	"skill-hire/internal/database"
	"skill-hire/internal/domain/worker"
)

// DemoWorkersSeeder adds a handful of workers so a fresh install has
// someone to notify. Rows are keyed by email and inserted once.
type DemoWorkersSeeder struct{}

func (DemoWorkersSeeder) Name() string { return "demo_workers" }

func (DemoWorkersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := requireColumns(ctx, db, "workers", "name", "email", "phone", "skill", "experience", "rating", "status"); err != nil {
		return err
	}

	items := []worker.Worker{
		{Name: "Ana Rivera", Email: "ana.rivera@example.com", Phone: "+15550100", Skill: "Carpenter", Experience: 6, Rating: 4.8, Status: worker.StatusAvailable},
		{Name: "Ben Okafor", Email: "ben.okafor@example.com", Phone: "+15550101", Skill: "Plumber", Experience: 4, Rating: 4.5, Status: worker.StatusAvailable},
		{Name: "Chen Li", Email: "chen.li@example.com", Phone: "+15550102", Skill: "Cook", Experience: 8, Rating: 4.9, Status: worker.StatusAvailable},
		{Name: "Dana Smith", Email: "dana.smith@example.com", Phone: "+15550103", Skill: "Electrician", Experience: 3, Rating: 4.2, Status: worker.StatusBusy},
		{Name: "Eli Novak", Email: "eli.novak@example.com", Phone: "+15550104", Skill: "Plumber", Experience: 10, Rating: 4.7, Status: worker.StatusAvailable},
	}

	return database.InTx(ctx, db, func(tx database.Tx) error {
		for _, it := range items {
			_, err := tx.Exec(
				ctx,
				`INSERT INTO workers (name, email, phone, skill, experience, rating, status)
				 SELECT $1, $2, $3, $4, $5, $6, $7
				 WHERE NOT EXISTS (SELECT 1 FROM workers WHERE lower(email) = lower($2))`,
				it.Name, it.Email, it.Phone, it.Skill, it.Experience, it.Rating, it.Status,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
