package notification

import (
	"time"

	"github.com/google/uuid"

	"skill-hire/internal/domain/job"
)

type WorkerStatus string

const (
	WorkerStatusUnread   WorkerStatus = "unread"
	WorkerStatusAccepted WorkerStatus = "accepted"
	WorkerStatusDeclined WorkerStatus = "declined"
)

const (
	TypeJobAvailable    = "job_available"
	TypeNewJob          = "new_job"
	ActionAcceptDecline = "accept_decline"
)

type WorkerNotification struct {
	ID             uuid.UUID    `json:"id"`
	WorkerID       uuid.UUID    `json:"worker_id"`
	JobID          uuid.UUID    `json:"job_id"`
	Type           string       `json:"type"`
	Title          string       `json:"title"`
	Message        string       `json:"message"`
	CreatedAt      time.Time    `json:"created_at"`
	Status         WorkerStatus `json:"status"`
	ActionRequired bool         `json:"action_required"`
	ActionType     string       `json:"action_type"`
}

// WorkerFeedItem is a worker notification joined with its job. Job is nil
// when the job could not be loaded.
type WorkerFeedItem struct {
	WorkerNotification
	Job *job.Job `json:"job"`
}

type AdminStatus string

const (
	AdminStatusInfo     AdminStatus = "info"
	AdminStatusPending  AdminStatus = "pending"
	AdminStatusApproved AdminStatus = "approved"
	AdminStatusRejected AdminStatus = "rejected"
)

// AdminNotification is informational. Its status is bookkeeping for the
// admin only and does not affect the job it refers to.
type AdminNotification struct {
	ID            uuid.UUID   `json:"id"`
	Type          string      `json:"type"`
	JobID         uuid.UUID   `json:"job_id"`
	BusinessID    uuid.UUID   `json:"business_id"`
	BusinessName  string      `json:"business_name"`
	Skill         string      `json:"skill"`
	WorkersNeeded int         `json:"workers_needed"`
	Title         string      `json:"title"`
	Message       string      `json:"message"`
	CreatedAt     time.Time   `json:"created_at"`
	Status        AdminStatus `json:"status"`
}
