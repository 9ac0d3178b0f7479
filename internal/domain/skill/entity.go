package skill

import "github.com/google/uuid"

type Skill struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Defaults is the catalogue offered to businesses when posting a job. It is
// always available even when no worker currently lists the skill.
var Defaults = []Skill{
	{Name: "Carpenter", Category: "Construction"},
	{Name: "Plumber", Category: "Construction"},
	{Name: "Cook", Category: "Hospitality"},
	{Name: "Electrician", Category: "Construction"},
	{Name: "Cleaner", Category: "Facilities"},
	{Name: "Mason", Category: "Construction"},
	{Name: "Painter", Category: "Construction"},
	{Name: "Welder", Category: "Manufacturing"},
	{Name: "Driver", Category: "Logistics"},
	{Name: "Security Guard", Category: "Facilities"},
}

type AvailableWorker struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Experience int       `json:"experience"`
	Rating     float64   `json:"rating"`
}

// Availability counts the workers currently marked Available for a skill.
type Availability struct {
	Skill   string            `json:"skill"`
	Count   int               `json:"count"`
	Workers []AvailableWorker `json:"workers"`
}
