package application

import (
	"time"

	"github.com/google/uuid"
)

const StatusPending = "pending"

type Application struct {
	ID        uuid.UUID `json:"id"`
	JobID     uuid.UUID `json:"job_id"`
	WorkerID  uuid.UUID `json:"worker_id"`
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"applied_at"`
}
