package model

import "github.com/google/uuid"

// SchoolYear is one (calendar year, stage) pair, e.g. 2024 / "9º ano".
type SchoolYear struct {
	ID    uuid.UUID `json:"id"`
	Year  int       `json:"year"`
	Stage string    `json:"stage"`
}
