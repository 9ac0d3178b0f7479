package request

import (
	"time"

	"github.com/google/uuid"
)

const StatusPending = "pending"

// WorkerRequest is a business asking the agency for a number of workers with
// a given skill, outside the job posting flow.
type WorkerRequest struct {
	ID            uuid.UUID `json:"id"`
	BusinessID    uuid.UUID `json:"business_id"`
	BusinessName  string    `json:"business_name"`
	WorkersNeeded int       `json:"workers_needed"`
	Skill         string    `json:"skill"`
	Priority      string    `json:"priority"`
	Duration      string    `json:"duration"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
