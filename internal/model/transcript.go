package model

import (
	"time"

	"github.com/google/uuid"
)

// ─── Store graph ────────────────────────────────────────────────────────────
// StudentGraph is the raw result of the single bulk read behind a transcript:
// the student plus every enrollment with its class, school year and grades.

// StudentGraph is a student with the full enrollment/grade graph loaded.
type StudentGraph struct {
	Student     Student
	Enrollments []EnrollmentRecord
}

// EnrollmentRecord is an enrollment joined with its class and school year.
type EnrollmentRecord struct {
	Enrollment Enrollment
	Class      Class
	SchoolYear SchoolYear
	Grades     []GradeRecord
}

// GradeRecord is a grade joined with its subject.
type GradeRecord struct {
	Grade   Grade
	Subject Subject
}

// ─── Derived document model ────────────────────────────────────────────────

// Transcript is the aggregated academic record of one student.
type Transcript struct {
	Student TranscriptStudent `json:"student"`
	Blocks  []TranscriptBlock `json:"blocks"`
	Alerts  []string          `json:"alerts"`
}

// TranscriptStudent holds the student's core attributes.
type TranscriptStudent struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Document  *string    `json:"document"`
	BirthDate *time.Time `json:"birth_date"`
}

// TranscriptBlock is one enrollment's worth of transcript data.
type TranscriptBlock struct {
	EnrollmentID   uuid.UUID           `json:"enrollment_id"`
	Year           int                 `json:"year"`
	Stage          string              `json:"stage"`
	Section        string              `json:"section"`
	Shift          string              `json:"shift"`
	AttendanceRate *float64            `json:"attendance_rate"`
	FinalResult    *FinalResult        `json:"final_result"`
	TotalHours     *int                `json:"total_hours"`
	Subjects       []TranscriptSubject `json:"subjects"`
}

// TranscriptSubject is one subject row of a block.
type TranscriptSubject struct {
	SubjectID   uuid.UUID `json:"subject_id"`
	Name        string    `json:"name"`
	AnnualHours *int      `json:"annual_hours"`
	FinalScore  *float64  `json:"final_score"`
	Absences    *int      `json:"absences"`
	Note        *string   `json:"note"`
}

// SubjectHoursSum adds up the annual hours of every row that has one.
func (b TranscriptBlock) SubjectHoursSum() int {
	sum := 0
	for _, s := range b.Subjects {
		if s.AnnualHours != nil {
			sum += *s.AnnualHours
		}
	}
	return sum
}

// ─── Rendering inputs ──────────────────────────────────────────────────────

// Institution is the issuing school's metadata printed on the transcript.
type Institution struct {
	City                  string    `yaml:"city"`
	IssuedAt              time.Time `yaml:"-"`
	DirectorName          string    `yaml:"director_name"`
	DirectorRegistration  string    `yaml:"director_registration"`
	SecretaryName         string    `yaml:"secretary_name"`
	SecretaryRegistration string    `yaml:"secretary_registration"`
	LetterheadPath        string    `yaml:"letterhead_path"`
	// LetterheadDataURL is the letterhead image already encoded as a data URL.
	LetterheadDataURL string `yaml:"-"`
}

// VerificationArtifact is the public verification link and its QR code.
// CodeDataURL is empty when the code could not be produced.
type VerificationArtifact struct {
	URL         string `json:"url"`
	CodeDataURL string `json:"code_data_url,omitempty"`
}

// HasCode reports whether a scannable code is available.
func (v VerificationArtifact) HasCode() bool {
	return v.CodeDataURL != ""
}

// TranscriptDocument bundles everything a renderer needs.
type TranscriptDocument struct {
	Transcript   *Transcript
	Institution  Institution
	Verification VerificationArtifact
	// Digest identifies the transcript content; see render.Digest.
	Digest  string
	BaseURL string
}
