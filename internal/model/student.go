package model

import (
	"time"

	"github.com/google/uuid"
)

// Student represents a student record.
type Student struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Document  *string    `json:"document"`
	BirthDate *time.Time `json:"birth_date"`
	CreatedAt time.Time  `json:"created_at"`
}
