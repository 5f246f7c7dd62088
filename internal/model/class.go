package model

import "github.com/google/uuid"

// Class represents a section of a school year taught in one shift.
type Class struct {
	ID           uuid.UUID `json:"id"`
	SchoolYearID uuid.UUID `json:"school_year_id"`
	Section      string    `json:"section"`
	Shift        string    `json:"shift"`
}
