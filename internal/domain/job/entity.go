package job

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

const (
	TypeFullTime  = "full-time"
	TypePartTime  = "part-time"
	TypeContract  = "contract"
	TypeTemporary = "temporary"
	TypeSeasonal  = "seasonal"
)

// Job is created by a business and never modified afterwards. Title holds the
// required skill and is matched verbatim against worker skills.
type Job struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Company       string    `json:"company"`
	Location      string    `json:"location"`
	JobType       string    `json:"job_type"`
	Category      string    `json:"category"`
	Salary        string    `json:"salary"`
	Description   string    `json:"description"`
	Requirements  string    `json:"requirements"`
	ContactEmail  string    `json:"contact_email"`
	WorkersNeeded int       `json:"workers_needed"`
	PostedAt      time.Time `json:"posted_at"`
	Status        Status    `json:"status"`
	BusinessID    uuid.UUID `json:"business_id"`
}
