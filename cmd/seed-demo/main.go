package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stemsi/historico-backend/internal/config"
	"github.com/stemsi/historico-backend/internal/database"
	"github.com/stemsi/historico-backend/internal/logger"
	"github.com/stemsi/historico-backend/internal/model"
	"github.com/stemsi/historico-backend/internal/repository"
	"github.com/stemsi/historico-backend/internal/service"
)

type demoSubject struct {
	name  string
	hours int
	score float64
}

type demoYear struct {
	year       int
	stage      string
	section    string
	shift      string
	attendance float64
	result     model.FinalResult
	// totalHours is recorded as-is; 2024 deliberately disagrees with its subjects.
	totalHours int
	subjects   []demoSubject
}

var demoYears = []demoYear{
	{
		year: 2023, stage: "8º ano", section: "A", shift: "Manhã",
		attendance: 96, result: model.FinalResultApproved, totalHours: 400,
		subjects: []demoSubject{
			{"Língua Portuguesa", 160, 8.0},
			{"Matemática", 160, 7.5},
			{"Ciências", 80, 9.0},
		},
	},
	{
		year: 2024, stage: "9º ano", section: "B", shift: "Tarde",
		attendance: 92.5, result: model.FinalResultApproved, totalHours: 800,
		subjects: []demoSubject{
			{"Língua Portuguesa", 160, 7.0},
			{"Matemática", 160, 6.5},
			{"História", 80, 8.5},
		},
	},
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	gradeSync := service.NewGradeSyncService(repository.NewGradeRepository(pool), log)

	fmt.Println("=== Seeding demo transcript ===")

	birth := time.Date(2010, time.March, 7, 0, 0, 0, 0, time.UTC)
	var studentID uuid.UUID
	err = database.WithTransaction(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx,
			`INSERT INTO students (name, document, birth_date) VALUES ($1, $2, $3)
			 ON CONFLICT (document) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			"Ana Souza", "123.456.789-00", birth,
		).Scan(&studentID)
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create student")
	}

	for _, y := range demoYears {
		enrollmentID, subjectIDs, err := seedYear(ctx, pool, studentID, y)
		if err != nil {
			log.Fatal().Err(err).Int("year", y.year).Msg("Failed to seed school year")
		}

		// Grade rows are created through the same reconciliation the API uses.
		ids := make([]string, len(subjectIDs))
		for i, id := range subjectIDs {
			ids[i] = id.String()
		}
		result, err := gradeSync.SyncEnrollmentSubjects(ctx, enrollmentID, ids)
		if err != nil {
			log.Fatal().Err(err).Int("year", y.year).Msg("Failed to sync subjects")
		}

		for i, s := range y.subjects {
			if _, err := pool.Exec(ctx,
				`UPDATE grades SET final_score = $1, absences = $2
				 WHERE enrollment_id = $3 AND subject_id = $4`,
				s.score, i*2, enrollmentID, subjectIDs[i],
			); err != nil {
				log.Fatal().Err(err).Msg("Failed to record score")
			}
		}

		fmt.Printf("%d %s: enrollment %s (%d subjects added)\n", y.year, y.stage, enrollmentID, len(result.Added))
	}

	fmt.Printf("\nSeed completed! Student ID: %s\n", studentID)
	fmt.Printf("  GET /api/v1/admin/transcripts/%s\n", studentID)
	fmt.Printf("  GET /verify/historico?student=%s\n", studentID)
}

// seedYear upserts the school year, class, subjects and enrollment of one
// demo year and returns the enrollment id with its subject ids in order.
func seedYear(ctx context.Context, pool database.TxBeginner, studentID uuid.UUID, y demoYear) (uuid.UUID, []uuid.UUID, error) {
	var enrollmentID uuid.UUID
	subjectIDs := make([]uuid.UUID, 0, len(y.subjects))

	err := database.WithTransaction(ctx, pool, func(ctx context.Context, tx pgx.Tx) error {
		var yearID, classID uuid.UUID
		if err := tx.QueryRow(ctx,
			`INSERT INTO school_years (year, stage) VALUES ($1, $2)
			 ON CONFLICT (year, stage) DO UPDATE SET stage = EXCLUDED.stage
			 RETURNING id`, y.year, y.stage,
		).Scan(&yearID); err != nil {
			return fmt.Errorf("school year: %w", err)
		}

		if err := tx.QueryRow(ctx,
			`INSERT INTO classes (school_year_id, section, shift) VALUES ($1, $2, $3)
			 ON CONFLICT (school_year_id, section, shift) DO UPDATE SET shift = EXCLUDED.shift
			 RETURNING id`, yearID, y.section, y.shift,
		).Scan(&classID); err != nil {
			return fmt.Errorf("class: %w", err)
		}

		for _, s := range y.subjects {
			var id uuid.UUID
			if err := tx.QueryRow(ctx,
				`INSERT INTO subjects (name, annual_hours) VALUES ($1, $2)
				 ON CONFLICT (name, annual_hours) DO UPDATE SET name = EXCLUDED.name
				 RETURNING id`, s.name, s.hours,
			).Scan(&id); err != nil {
				return fmt.Errorf("subject %s: %w", s.name, err)
			}
			subjectIDs = append(subjectIDs, id)
		}

		if err := tx.QueryRow(ctx,
			`INSERT INTO enrollments (student_id, class_id, attendance_rate, final_result, total_hours)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (student_id, class_id) DO UPDATE
			   SET attendance_rate = EXCLUDED.attendance_rate,
			       final_result = EXCLUDED.final_result,
			       total_hours = EXCLUDED.total_hours
			 RETURNING id`,
			studentID, classID, y.attendance, string(y.result), y.totalHours,
		).Scan(&enrollmentID); err != nil {
			return fmt.Errorf("enrollment: %w", err)
		}
		return nil
	})
	return enrollmentID, subjectIDs, err
}
