package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/campus-gpa-api/internal/models"
	"github.com/noah-isme/campus-gpa-api/pkg/database"
	appErrors "github.com/noah-isme/campus-gpa-api/pkg/errors"
)

const semesterGPAColumns = `id, user_id, semester_id, semester_name, subjects, total_credits, gpa, created_at, updated_at, created_by, updated_by`

// SemesterGPARepository persists per-semester GPA records in student_semester_gpa.
type SemesterGPARepository struct {
	db *sqlx.DB
}

// NewSemesterGPARepository creates a new semester GPA repository.
func NewSemesterGPARepository(db *sqlx.DB) *SemesterGPARepository {
	return &SemesterGPARepository{db: db}
}

// FindByUserAndSemester returns the record for the (user, semester) pair.
func (r *SemesterGPARepository) FindByUserAndSemester(ctx context.Context, userID string, semesterID models.SemesterID) (*models.SemesterGPA, error) {
	query := `SELECT ` + semesterGPAColumns + ` FROM student_semester_gpa WHERE user_id = $1 AND semester_id = $2 LIMIT 1`
	var record models.SemesterGPA
	if err := r.db.GetContext(ctx, &record, query, userID, semesterID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find semester gpa: %w", err)
	}
	return &record, nil
}

// FindByID returns a record by its identifier.
func (r *SemesterGPARepository) FindByID(ctx context.Context, id string) (*models.SemesterGPA, error) {
	query := `SELECT ` + semesterGPAColumns + ` FROM student_semester_gpa WHERE id = $1 LIMIT 1`
	var record models.SemesterGPA
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find semester gpa by id: %w", err)
	}
	return &record, nil
}

// ListByUser returns every record of a user in programme order.
func (r *SemesterGPARepository) ListByUser(ctx context.Context, userID string) ([]models.SemesterGPA, error) {
	query := `SELECT ` + semesterGPAColumns + ` FROM student_semester_gpa WHERE user_id = $1`
	var records []models.SemesterGPA
	if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, fmt.Errorf("list semester gpa: %w", err)
	}
	sortBySemester(records)
	return records, nil
}

// ListByUsers loads the records of many users in one query. The ids travel as a single
// array parameter, so cohort size is not bounded by the protocol's placeholder limit.
func (r *SemesterGPARepository) ListByUsers(ctx context.Context, userIDs []string) ([]models.SemesterGPA, error) {
	if len(userIDs) == 0 {
		return []models.SemesterGPA{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM student_semester_gpa WHERE user_id = ANY($1)`, semesterGPAColumns)
	var records []models.SemesterGPA
	if err := r.db.SelectContext(ctx, &records, query, pq.Array(userIDs)); err != nil {
		return nil, fmt.Errorf("list semester gpa by users: %w", err)
	}
	return records, nil
}

// Upsert inserts the record or replaces the existing one for the same (user, semester).
// ID, CreatedAt, UpdatedAt and CreatedBy are refreshed from the stored row; CreatedAt equals
// UpdatedAt only for a fresh insert.
func (r *SemesterGPARepository) Upsert(ctx context.Context, record *models.SemesterGPA) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	record.CreatedAt = now
	record.UpdatedAt = now
	if record.CreatedBy == nil {
		record.CreatedBy = record.UpdatedBy
	}

	const query = `INSERT INTO student_semester_gpa (id, user_id, semester_id, semester_name, subjects, total_credits, gpa, created_at, updated_at, created_by, updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (user_id, semester_id)
        DO UPDATE SET semester_name = EXCLUDED.semester_name, subjects = EXCLUDED.subjects, total_credits = EXCLUDED.total_credits,
            gpa = EXCLUDED.gpa, updated_at = EXCLUDED.updated_at, updated_by = EXCLUDED.updated_by
        RETURNING id, created_at, updated_at, created_by`
	row := r.db.QueryRowxContext(ctx, query,
		record.ID, record.UserID, record.SemesterID, record.SemesterName, record.Subjects,
		record.TotalCredits, record.GPA, record.CreatedAt, record.UpdatedAt, record.CreatedBy, record.UpdatedBy,
	)
	if err := row.Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt, &record.CreatedBy); err != nil {
		return wrapWriteError(err, "upsert semester gpa")
	}
	return nil
}

// Update overwrites the mutable columns of an existing record.
func (r *SemesterGPARepository) Update(ctx context.Context, record *models.SemesterGPA) error {
	record.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	const query = `UPDATE student_semester_gpa SET semester_name = $2, subjects = $3, total_credits = $4, gpa = $5, updated_at = $6, updated_by = $7 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, record.ID, record.SemesterName, record.Subjects, record.TotalCredits, record.GPA, record.UpdatedAt, record.UpdatedBy)
	if err != nil {
		return wrapWriteError(err, "update semester gpa")
	}
	return requireAffected(res, "update semester gpa")
}

// Delete removes the record for the (user, semester) pair.
func (r *SemesterGPARepository) Delete(ctx context.Context, userID string, semesterID models.SemesterID) error {
	const query = `DELETE FROM student_semester_gpa WHERE user_id = $1 AND semester_id = $2`
	res, err := r.db.ExecContext(ctx, query, userID, semesterID)
	if err != nil {
		return fmt.Errorf("delete semester gpa: %w", err)
	}
	return requireAffected(res, "delete semester gpa")
}

// DeleteByID removes a record by its identifier.
func (r *SemesterGPARepository) DeleteByID(ctx context.Context, id string) error {
	const query = `DELETE FROM student_semester_gpa WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete semester gpa by id: %w", err)
	}
	return requireAffected(res, "delete semester gpa by id")
}

// BatchStatistics aggregates every semester record of a cohort in one statement:
// distinct students with records, sum(gpa*credits) and sum(credits).
func (r *SemesterGPARepository) BatchStatistics(ctx context.Context, uniYear models.UniYear) (*models.BatchStatistics, error) {
	const query = `SELECT COUNT(DISTINCT s.user_id) AS students_with_gpa,
        COALESCE(SUM(s.gpa * s.total_credits), 0) AS weighted_gpa_sum,
        COALESCE(SUM(s.total_credits), 0) AS total_credits_sum
        FROM student_semester_gpa s
        JOIN user_details ud ON ud.user_id = s.user_id
        WHERE ud.uni_year = $1`
	var stats models.BatchStatistics
	if err := r.db.GetContext(ctx, &stats, query, uniYear); err != nil {
		return nil, fmt.Errorf("batch statistics: %w", err)
	}
	return &stats, nil
}

func sortBySemester(records []models.SemesterGPA) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].SemesterID.Ordinal() < records[j].SemesterID.Ordinal()
	})
}

func wrapWriteError(err error, op string) error {
	if database.IsUniqueViolation(err) {
		return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "semester gpa was written concurrently, retry the request")
	}
	return fmt.Errorf("%s: %w", op, err)
}

func requireAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
