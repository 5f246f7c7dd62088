package render

import (
	"time"

	"github.com/google/uuid"
	"github.com/stemsi/historico-backend/internal/model"
)

func ptr[T any](v T) *T { return &v }

var studentID = uuid.MustParse("6f1c3a52-8d0e-4c4b-9a57-0a1d2e3f4b5c")

func sampleDocument() model.TranscriptDocument {
	approved := model.FinalResultApproved
	birth := time.Date(2010, time.March, 7, 0, 0, 0, 0, time.UTC)

	return model.TranscriptDocument{
		Transcript: &model.Transcript{
			Student: model.TranscriptStudent{
				ID:        studentID,
				Name:      "Ana Souza",
				Document:  ptr("123.456.789-00"),
				BirthDate: &birth,
			},
			Blocks: []model.TranscriptBlock{
				{
					EnrollmentID:   uuid.New(),
					Year:           2024,
					Stage:          "9º ano",
					Section:        "A",
					Shift:          "Manhã",
					AttendanceRate: ptr(95.0),
					FinalResult:    &approved,
					TotalHours:     ptr(1200),
					Subjects: []model.TranscriptSubject{
						{SubjectID: uuid.New(), Name: "Matemática", AnnualHours: ptr(200), FinalScore: ptr(8.5), Absences: ptr(2)},
						{SubjectID: uuid.New(), Name: "Português", AnnualHours: ptr(200), FinalScore: nil, Absences: nil},
						{SubjectID: uuid.New(), Name: "Artes", AnnualHours: ptr(80), FinalScore: ptr(6.5), Absences: ptr(0)},
					},
				},
				{
					EnrollmentID: uuid.New(),
					Year:         2025,
					Stage:        "1ª série",
					Section:      "B",
					Shift:        "Tarde",
					Subjects:     []model.TranscriptSubject{},
				},
			},
			Alerts: []string{},
		},
		Institution: model.Institution{
			City:                  "Recife",
			IssuedAt:              time.Date(2025, time.December, 12, 10, 0, 0, 0, time.UTC),
			DirectorName:          "Carla Lima",
			DirectorRegistration:  "D-001",
			SecretaryName:         "João Alves",
			SecretaryRegistration: "S-002",
		},
		Verification: model.VerificationArtifact{
			URL:         "https://escola.example/verify/historico?student=" + studentID.String(),
			CodeDataURL: "data:image/png;base64,iVBORw0KGgo=",
		},
		Digest:  "0123456789abcdef0123456789abcdef",
		BaseURL: "https://escola.example",
	}
}

func emptyDocument() model.TranscriptDocument {
	doc := sampleDocument()
	doc.Transcript.Blocks = []model.TranscriptBlock{}
	return doc
}
