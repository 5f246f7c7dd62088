package model

import (
	"time"

	"github.com/google/uuid"
)

// Grade holds the final figures of one subject within one enrollment.
type Grade struct {
	ID           uuid.UUID `json:"id"`
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	SubjectID    uuid.UUID `json:"subject_id"`
	FinalScore   *float64  `json:"final_score"`
	Absences     *int      `json:"absences"`
	Note         *string   `json:"note"`
	CreatedAt    time.Time `json:"created_at"`
}

// GradeWithSubject is a grade joined with its subject.
type GradeWithSubject struct {
	Grade
	Subject Subject `json:"subject"`
}

// SyncGradesRequest is the payload for reconciling an enrollment's subjects.
// An empty array is valid and removes every grade; a missing field is not.
type SyncGradesRequest struct {
	SubjectIDs []string `json:"subject_ids" binding:"required,dive,uuid"`
}

// GradeSyncResult reports the subjects added to and removed from an enrollment.
type GradeSyncResult struct {
	EnrollmentID uuid.UUID   `json:"enrollment_id"`
	Added        []uuid.UUID `json:"added"`
	Removed      []uuid.UUID `json:"removed"`
}

// Changed reports whether the synchronization wrote anything.
func (r GradeSyncResult) Changed() bool {
	return len(r.Added) > 0 || len(r.Removed) > 0
}
