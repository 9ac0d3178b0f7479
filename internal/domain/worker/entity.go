package worker

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusAvailable = "Available"
	StatusBusy      = "Busy"
	StatusInactive  = "Inactive"
)

type Worker struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Skill      string    `json:"skill"`
	Experience int       `json:"experience"`
	Rating     float64   `json:"rating"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
