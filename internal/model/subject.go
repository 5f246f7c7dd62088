package model

import "github.com/google/uuid"

// Subject represents a curricular subject with its annual hours load.
type Subject struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	AnnualHours int       `json:"annual_hours"`
	Component   *string   `json:"component"`
}
