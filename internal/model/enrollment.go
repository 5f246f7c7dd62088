package model

import (
	"time"

	"github.com/google/uuid"
)

// FinalResult is the outcome recorded for an enrollment at year end.
type FinalResult string

const (
	FinalResultApproved          FinalResult = "APPROVED"
	FinalResultFailed            FinalResult = "FAILED"
	FinalResultApprovedByCouncil FinalResult = "APPROVED_BY_COUNCIL"
	FinalResultTransferred       FinalResult = "TRANSFERRED"
)

// Label returns the pt-BR label printed on the transcript.
func (r FinalResult) Label() string {
	switch r {
	case FinalResultApproved:
		return "Aprovado"
	case FinalResultFailed:
		return "Reprovado"
	case FinalResultApprovedByCouncil:
		return "Aprovado pelo Conselho"
	case FinalResultTransferred:
		return "Transferido"
	default:
		return string(r)
	}
}

// Enrollment is a student's registration in one class.
type Enrollment struct {
	ID             uuid.UUID    `json:"id"`
	StudentID      uuid.UUID    `json:"student_id"`
	ClassID        uuid.UUID    `json:"class_id"`
	AttendanceRate *float64     `json:"attendance_rate"`
	FinalResult    *FinalResult `json:"final_result"`
	TotalHours     *int         `json:"total_hours"`
	CreatedAt      time.Time    `json:"created_at"`
}
