package repository

import (
	"context"

	"skill-hire/internal/database"
	"skill-hire/internal/domain/skill"
)

const tableSkills = "skills"

type SkillRepository interface {
	ListAll(ctx context.Context) ([]skill.Skill, error)
}

type PostgresSkillRepository struct {
	db database.Querier
}

func NewPostgresSkillRepository(db database.Querier) *PostgresSkillRepository {
	return &PostgresSkillRepository{db: db}
}

func (r *PostgresSkillRepository) ListAll(ctx context.Context) ([]skill.Skill, error) {
	rows, err := r.db.Query(ctx, `SELECT name, category FROM skills ORDER BY created_at ASC, name ASC`)
	if err != nil {
		return nil, wrap(tableSkills, "fetch", err)
	}
	defer rows.Close()

	out := make([]skill.Skill, 0)
	for rows.Next() {
		var s skill.Skill
		if err := rows.Scan(&s.Name, &s.Category); err != nil {
			return nil, wrap(tableSkills, "fetch", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(tableSkills, "fetch", err)
	}
	return out, nil
}
