package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-gpa-api/internal/dto"
	"github.com/noah-isme/campus-gpa-api/internal/models"
	"github.com/noah-isme/campus-gpa-api/pkg/config"
	appErrors "github.com/noah-isme/campus-gpa-api/pkg/errors"
)

type memorySemesterRepo struct {
	records    map[string]*models.SemesterGPA
	listCalls  int
	statsCalls int
	scanCalls  int
	stats      *models.BatchStatistics
}

func newMemorySemesterRepo() *memorySemesterRepo {
	return &memorySemesterRepo{records: make(map[string]*models.SemesterGPA)}
}

func semesterKey(userID string, semesterID models.SemesterID) string {
	return userID + "/" + string(semesterID)
}

func (m *memorySemesterRepo) Upsert(_ context.Context, record *models.SemesterGPA) error {
	key := semesterKey(record.UserID, record.SemesterID)
	if existing, ok := m.records[key]; ok {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		record.CreatedBy = existing.CreatedBy
		record.UpdatedAt = existing.UpdatedAt.Add(time.Second)
	} else {
		now := time.Now().UTC()
		record.ID = uuid.NewString()
		record.CreatedAt = now
		record.UpdatedAt = now
		if record.CreatedBy == nil {
			record.CreatedBy = record.UpdatedBy
		}
	}
	stored := *record
	m.records[key] = &stored
	return nil
}

func (m *memorySemesterRepo) Update(_ context.Context, record *models.SemesterGPA) error {
	key := semesterKey(record.UserID, record.SemesterID)
	if _, ok := m.records[key]; !ok {
		return sql.ErrNoRows
	}
	record.UpdatedAt = time.Now().UTC().Add(time.Second)
	stored := *record
	m.records[key] = &stored
	return nil
}

func (m *memorySemesterRepo) FindByUserAndSemester(_ context.Context, userID string, semesterID models.SemesterID) (*models.SemesterGPA, error) {
	record, ok := m.records[semesterKey(userID, semesterID)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *record
	return &copied, nil
}

func (m *memorySemesterRepo) FindByID(_ context.Context, id string) (*models.SemesterGPA, error) {
	for _, record := range m.records {
		if record.ID == id {
			copied := *record
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memorySemesterRepo) ListByUser(_ context.Context, userID string) ([]models.SemesterGPA, error) {
	m.listCalls++
	var out []models.SemesterGPA
	for _, id := range models.Semesters() {
		if record, ok := m.records[semesterKey(userID, id)]; ok {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (m *memorySemesterRepo) ListByUsers(ctx context.Context, userIDs []string) ([]models.SemesterGPA, error) {
	m.scanCalls++
	var out []models.SemesterGPA
	for _, userID := range userIDs {
		records, _ := m.ListByUser(ctx, userID)
		out = append(out, records...)
	}
	return out, nil
}

func (m *memorySemesterRepo) Delete(_ context.Context, userID string, semesterID models.SemesterID) error {
	key := semesterKey(userID, semesterID)
	if _, ok := m.records[key]; !ok {
		return sql.ErrNoRows
	}
	delete(m.records, key)
	return nil
}

func (m *memorySemesterRepo) DeleteByID(_ context.Context, id string) error {
	for key, record := range m.records {
		if record.ID == id {
			delete(m.records, key)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *memorySemesterRepo) BatchStatistics(_ context.Context, _ models.UniYear) (*models.BatchStatistics, error) {
	m.statsCalls++
	if m.stats != nil {
		return m.stats, nil
	}
	return &models.BatchStatistics{}, nil
}

type fakeCohortDirectory struct {
	users   map[string]*models.User
	details map[string]*models.UserDetails
}

func newFakeCohortDirectory(userIDs ...string) *fakeCohortDirectory {
	dir := &fakeCohortDirectory{users: map[string]*models.User{}, details: map[string]*models.UserDetails{}}
	for _, id := range userIDs {
		dir.users[id] = &models.User{ID: id, Role: models.RoleStudent, Active: true}
	}
	return dir
}

func (f *fakeCohortDirectory) withYear(userID string, year models.UniYear) *fakeCohortDirectory {
	y := year
	f.details[userID] = &models.UserDetails{UserID: userID, UniYear: &y}
	return f
}

func (f *fakeCohortDirectory) FindByID(_ context.Context, id string) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCohortDirectory) FindDetailsByUserID(_ context.Context, userID string) (*models.UserDetails, error) {
	if details, ok := f.details[userID]; ok {
		return details, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCohortDirectory) CountByUniYear(ctx context.Context, year models.UniYear) (int, error) {
	ids, _ := f.ListIDsByUniYear(ctx, year)
	return len(ids), nil
}

func (f *fakeCohortDirectory) ListIDsByUniYear(_ context.Context, year models.UniYear) ([]string, error) {
	var ids []string
	for userID, details := range f.details {
		if details.UniYear != nil && *details.UniYear == year {
			ids = append(ids, userID)
		}
	}
	return ids, nil
}

func newTestSemesterService(repo *memorySemesterRepo, dir *fakeCohortDirectory, cache *CacheService, strategy string) *SemesterGPAService {
	return NewSemesterGPAService(repo, dir, cache, nil, nil, zap.NewNop(), SemesterGPAOptions{BatchStrategy: strategy, CacheTTL: time.Minute})
}

func semesterRequest(semester string, subjects ...dto.SubjectRequest) dto.UpsertSemesterGPARequest {
	return dto.UpsertSemesterGPARequest{SemesterID: models.SemesterID(semester), SemesterName: "Semester " + semester, Subjects: subjects}
}

func TestSemesterGPAUpsertComputesTotals(t *testing.T) {
	repo := newMemorySemesterRepo()
	svc := newTestSemesterService(repo, newFakeCohortDirectory("u1"), nil, "")

	record, err := svc.Upsert(context.Background(), "u1", "admin@campus.test", semesterRequest("first",
		dto.SubjectRequest{SubjectName: "Math", Credits: 4, Grade: "A"},
		dto.SubjectRequest{SubjectName: "Physics", Credits: 3, Grade: "b+"},
	))
	require.NoError(t, err)
	assert.True(t, record.IsNew())
	assert.Equal(t, models.SemesterFirst, record.SemesterID)
	assert.Equal(t, 7.0, record.TotalCredits)
	assert.InDelta(t, 3.7, record.GPA, 1e-9)
	require.Len(t, record.Subjects, 2)
	assert.Equal(t, 3.3, record.Subjects[1].GradePoints)
	require.NotNil(t, record.CreatedBy)
	assert.Equal(t, "admin@campus.test", *record.CreatedBy)
}

func TestSemesterGPAUpsertTwiceKeepsSingleRecord(t *testing.T) {
	repo := newMemorySemesterRepo()
	svc := newTestSemesterService(repo, newFakeCohortDirectory("u1"), nil, "")
	ctx := context.Background()

	first, err := svc.Upsert(ctx, "u1", "", semesterRequest("SECOND", dto.SubjectRequest{SubjectName: "Math", Credits: 3, Grade: "C"}))
	require.NoError(t, err)
	second, err := svc.Upsert(ctx, "u1", "", semesterRequest("SECOND", dto.SubjectRequest{SubjectName: "Art", Credits: 2, Grade: "A"}))
	require.NoError(t, err)

	assert.Len(t, repo.records, 1)
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.IsNew())

	stored, err := svc.Get(ctx, "u1", "second")
	require.NoError(t, err)
	require.Len(t, stored.Subjects, 1)
	assert.Equal(t, "Art", stored.Subjects[0].SubjectName)
	assert.Equal(t, 2.0, stored.TotalCredits)
	assert.Equal(t, 4.0, stored.GPA)
}

func TestSemesterGPAUpsertRejectsInvalidInput(t *testing.T) {
	repo := newMemorySemesterRepo()
	svc := newTestSemesterService(repo, newFakeCohortDirectory("u1"), nil, "")
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "u1", "", semesterRequest("FIRST", dto.SubjectRequest{SubjectName: "Math", Credits: 3, Grade: "Z"}))
	assert.True(t, errors.Is(err, appErrors.ErrInvalidGrade))

	_, err = svc.Upsert(ctx, "u1", "", semesterRequest("FIRST", dto.SubjectRequest{SubjectName: "Math", Credits: -1, Grade: "A"}))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Upsert(ctx, "u1", "", semesterRequest("FIRST"))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Upsert(ctx, "u1", "", semesterRequest("NINTH", dto.SubjectRequest{SubjectName: "Math", Credits: 3, Grade: "A"}))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Upsert(ctx, "ghost", "", semesterRequest("FIRST", dto.SubjectRequest{SubjectName: "Math", Credits: 3, Grade: "A"}))
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	assert.Empty(t, repo.records)
}

func TestSemesterGPARejectsBlankNames(t *testing.T) {
	repo := newMemorySemesterRepo()
	svc := NewSemesterGPAService(repo, newFakeCohortDirectory("u1"), nil, nil, validator.New(), zap.NewNop(), SemesterGPAOptions{})
	ctx := context.Background()
	math := dto.SubjectRequest{SubjectName: "Math", Credits: 3, Grade: "A"}

	_, err := svc.Upsert(ctx, "u1", "", dto.UpsertSemesterGPARequest{SemesterID: models.SemesterFirst, SemesterName: "   ", Subjects: []dto.SubjectRequest{math}})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Upsert(ctx, "u1", "", semesterRequest("FIRST", dto.SubjectRequest{SubjectName: "  ", Credits: 3, Grade: "A"}))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, repo.records)

	_, err = svc.Upsert(ctx, "u1", "", semesterRequest("FIRST", math))
	require.NoError(t, err)

	blank := " \t "
	_, err = svc.Update(ctx, "u1", "FIRST", "", dto.UpdateSemesterGPARequest{SemesterName: &blank})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	stored, err := svc.Get(ctx, "u1", "FIRST")
	require.NoError(t, err)
	assert.Equal(t, "Semester FIRST", stored.SemesterName)
}

func TestSemesterGPARejectsOversizedCredits(t *testing.T) {
	repo := newMemorySemesterRepo()
	svc := newTestSemesterService(repo, newFakeCohortDirectory("u1"), nil, "")

	_, err := svc.Upsert(context.Background(), "u1", "", semesterRequest("FIRST", dto.SubjectRequest{SubjectName: "Thesis", Credits: 1_000_000, Grade: "A"}))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, repo.records)

	record, err := svc.Upsert(context.Background(), "u1", "", semesterRequest("FIRST", dto.SubjectRequest{SubjectName: "Seminar", Credits: 0.004, Grade: "B"}))
	require.NoError(t, err)
	assert.Equal(t, 0.004, record.TotalCredits)
	assert.InDelta(t, 3.0, record.GPA, 1e-9)
}

func TestSemesterGPAUpdateNameOnlyKeepsTotals(t *testing.T) {
	repo := newMemorySemesterRepo()
	svc := newTestSemesterService(repo, newFakeCohortDirectory("u1"), nil, "")
	ctx := context.Background()

	original, err := svc.Upsert(ctx, "u1", "", semesterRequest("THIRD",
		dto.SubjectRequest{SubjectName: "Math", Credits: 4, Grade: "B"},
		dto.SubjectRequest{SubjectName: "Art", Credits: 2, Grade: "A"},
	))
	require.NoError(t, err)

	name := "Renamed term"
	updated, err := svc.Update(ctx, "u1", "THIRD", "", dto.UpdateSemesterGPARequest{SemesterName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.SemesterName)
	assert.Equal(t, original.Subjects, updated.Subjects)
	assert.Equal(t, original.TotalCredits, updated.TotalCredits)
	assert.Equal(t, original.GPA, updated.GPA)
}

func TestSemesterGPAUpdateSubjectsRecomputes(t *testing.T) {
	repo := newMemorySemesterRepo()
	svc := newTestSemesterService(repo, newFakeCohortDirectory("u1"), nil, "")
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "u1", "", semesterRequest("FOURTH", dto.SubjectRequest{SubjectName: "Math", Credits: 4, Grade: "B"}))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "u1", "fourth", "lecturer@campus.test", dto.UpdateSemesterGPARequest{
		Subjects: []dto.SubjectRequest{{SubjectName: "Math", Credits: 4, Grade: "A"}, {SubjectName: "Lab", Credits: 1, Grade: "E"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Semester FOURTH", updated.SemesterName)
	assert.Equal(t, 5.0, updated.TotalCredits)
	assert.InDelta(t, 16.0/5.0, updated.GPA, 1e-9)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, "lecturer@campus.test", *updated.UpdatedBy)
}

func TestSemesterGPAUpdateErrors(t *testing.T) {
	repo := newMemorySemesterRepo()
	svc := newTestSemesterService(repo, newFakeCohortDirectory("u1"), nil, "")
	ctx := context.Background()

	name := "x"
	_, err := svc.Update(ctx, "u1", "FIFTH", "", dto.UpdateSemesterGPARequest{SemesterName: &name})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Update(ctx, "u1", "FIFTH", "", dto.UpdateSemesterGPARequest{})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, err = svc.Update(ctx, "u1", "FIFTH", "", dto.UpdateSemesterGPARequest{Subjects: []dto.SubjectRequest{}})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestSemesterGPADeleteMissingIsNotFound(t *testing.T) {
	repo := newMemorySemesterRepo()
	svc := newTestSemesterService(repo, newFakeCohortDirectory("u1"), nil, "")
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "u1", "", semesterRequest("FIRST", dto.SubjectRequest{SubjectName: "Math", Credits: 3, Grade: "A"}))
	require.NoError(t, err)

	err = svc.Delete(ctx, "u1", "SIXTH")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Len(t, repo.records, 1)

	err = svc.DeleteByID(ctx, "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
	assert.Len(t, repo.records, 1)

	require.NoError(t, svc.Delete(ctx, "u1", "first"))
	assert.Empty(t, repo.records)
}

func TestSemesterGPAGetByIDAndDeleteByID(t *testing.T) {
	repo := newMemorySemesterRepo()
	svc := newTestSemesterService(repo, newFakeCohortDirectory("u1"), nil, "")
	ctx := context.Background()

	record, err := svc.Upsert(ctx, "u1", "", semesterRequest("SEVENTH", dto.SubjectRequest{SubjectName: "Math", Credits: 3, Grade: "A"}))
	require.NoError(t, err)

	found, err := svc.GetByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SemesterSeventh, found.SemesterID)

	require.NoError(t, svc.DeleteByID(ctx, record.ID))
	_, err = svc.GetByID(ctx, record.ID)
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestAggregateCGPA(t *testing.T) {
	summary := AggregateCGPA("u1", []models.SemesterGPA{
		{GPA: 4.0, TotalCredits: 10},
		{GPA: 2.0, TotalCredits: 10},
	})
	assert.Equal(t, 3.0, summary.CGPA)
	assert.Equal(t, 20.0, summary.TotalCredits)
	assert.Equal(t, 2, summary.SemesterCount)

	empty := AggregateCGPA("u1", nil)
	assert.Zero(t, empty.CGPA)
	assert.Zero(t, empty.TotalCredits)

	zeroCredits := AggregateCGPA("u1", []models.SemesterGPA{{GPA: 0, TotalCredits: 0}})
	assert.Zero(t, zeroCredits.CGPA)
}

func TestSemesterGPACGPAUsesCache(t *testing.T) {
	repo := newMemorySemesterRepo()
	cache := NewCacheService(&stubCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := newTestSemesterService(repo, newFakeCohortDirectory("u1"), cache, "")
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "u1", "", semesterRequest("FIRST", dto.SubjectRequest{SubjectName: "Math", Credits: 10, Grade: "A"}))
	require.NoError(t, err)

	summary, hit, err := svc.CGPA(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 4.0, summary.CGPA)

	_, hit, err = svc.CGPA(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, repo.listCalls)

	_, err = svc.Upsert(ctx, "u1", "", semesterRequest("SECOND", dto.SubjectRequest{SubjectName: "Art", Credits: 10, Grade: "C"}))
	require.NoError(t, err)

	summary, hit, err = svc.CGPA(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3.0, summary.CGPA)
	assert.Equal(t, 20.0, summary.TotalCredits)
}

func TestSemesterGPACGPAUnknownUser(t *testing.T) {
	svc := newTestSemesterService(newMemorySemesterRepo(), newFakeCohortDirectory(), nil, "")
	_, _, err := svc.CGPA(context.Background(), "ghost")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestSemesterGPABatchAverageAggregate(t *testing.T) {
	repo := newMemorySemesterRepo()
	repo.stats = &models.BatchStatistics{StudentsWithGPA: 2, WeightedGPASum: 54, TotalCreditsSum: 18}
	dir := newFakeCohortDirectory("u1", "u2", "u3").
		withYear("u1", models.UniYearSecond).
		withYear("u2", models.UniYearSecond).
		withYear("u3", models.UniYearSecond)
	svc := newTestSemesterService(repo, dir, nil, config.BatchStrategyAggregate)

	avg, hit, err := svc.BatchAverage(context.Background(), models.UniYearSecond)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3.0, avg.AverageGPA)
	assert.Equal(t, 3, avg.TotalStudents)
	assert.Equal(t, 2, avg.StudentsWithGPA)
	assert.Equal(t, 1, avg.StudentsWithoutGPA)
	assert.Equal(t, 1, repo.statsCalls)
	assert.Zero(t, repo.scanCalls)
}

func TestSemesterGPABatchAverageEmptyCohort(t *testing.T) {
	repo := newMemorySemesterRepo()
	svc := newTestSemesterService(repo, newFakeCohortDirectory(), nil, "")

	avg, _, err := svc.BatchAverage(context.Background(), models.UniYearFourth)
	require.NoError(t, err)
	assert.Equal(t, models.BatchAverage{UniYear: models.UniYearFourth}, *avg)
	assert.Zero(t, repo.statsCalls)

	_, _, err = svc.BatchAverage(context.Background(), models.UniYear("FIFTH_YEAR"))
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestSemesterGPABatchAverageClampsStudentsWithout(t *testing.T) {
	repo := newMemorySemesterRepo()
	repo.stats = &models.BatchStatistics{StudentsWithGPA: 3, WeightedGPASum: 30, TotalCreditsSum: 10}
	dir := newFakeCohortDirectory("u1").withYear("u1", models.UniYearFirst)
	svc := newTestSemesterService(repo, dir, nil, "")

	avg, _, err := svc.BatchAverage(context.Background(), models.UniYearFirst)
	require.NoError(t, err)
	assert.Zero(t, avg.StudentsWithoutGPA)
	assert.Equal(t, 3.0, avg.AverageGPA)
}

func TestSemesterGPABatchAverageScanMatchesAggregate(t *testing.T) {
	repo := newMemorySemesterRepo()
	dir := newFakeCohortDirectory("u1", "u2", "u3", "u4").
		withYear("u1", models.UniYearThird).
		withYear("u2", models.UniYearThird).
		withYear("u3", models.UniYearThird).
		withYear("u4", models.UniYearFirst)
	svc := newTestSemesterService(repo, dir, nil, config.BatchStrategyScan)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "u1", "", semesterRequest("FIRST", dto.SubjectRequest{SubjectName: "Math", Credits: 6, Grade: "A"}))
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, "u1", "", semesterRequest("SECOND", dto.SubjectRequest{SubjectName: "Math", Credits: 6, Grade: "C"}))
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, "u2", "", semesterRequest("FIRST", dto.SubjectRequest{SubjectName: "Math", Credits: 6, Grade: "B"}))
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, "u4", "", semesterRequest("FIRST", dto.SubjectRequest{SubjectName: "Math", Credits: 6, Grade: "E"}))
	require.NoError(t, err)

	avg, _, err := svc.BatchAverage(ctx, models.UniYearThird)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.scanCalls)
	assert.Zero(t, repo.statsCalls)
	assert.Equal(t, 3, avg.TotalStudents)
	assert.Equal(t, 2, avg.StudentsWithGPA)
	assert.Equal(t, 1, avg.StudentsWithoutGPA)
	assert.InDelta(t, 3.0, avg.AverageGPA, 1e-9)
}

func TestSemesterGPABatchAverageForUser(t *testing.T) {
	repo := newMemorySemesterRepo()
	repo.stats = &models.BatchStatistics{StudentsWithGPA: 1, WeightedGPASum: 12, TotalCreditsSum: 4}
	dir := newFakeCohortDirectory("u1", "u2").withYear("u1", models.UniYearSecond)
	dir.details["u2"] = &models.UserDetails{UserID: "u2"}
	cache := NewCacheService(&stubCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	svc := newTestSemesterService(repo, dir, cache, "")
	ctx := context.Background()

	avg, hit, err := svc.BatchAverageForUser(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, models.UniYearSecond, avg.UniYear)
	assert.Equal(t, 3.0, avg.AverageGPA)

	_, hit, err = svc.BatchAverageForUser(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, repo.statsCalls)

	_, _, err = svc.BatchAverageForUser(ctx, "u2")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	_, _, err = svc.BatchAverageForUser(ctx, "ghost")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestAggregateBatch(t *testing.T) {
	stats := AggregateBatch([]models.SemesterGPA{
		{UserID: "u1", GPA: 4, TotalCredits: 6},
		{UserID: "u1", GPA: 2, TotalCredits: 6},
		{UserID: "u2", GPA: 3, TotalCredits: 6},
	})
	assert.Equal(t, 2, stats.StudentsWithGPA)
	assert.Equal(t, 54.0, stats.WeightedGPASum)
	assert.Equal(t, 18.0, stats.TotalCreditsSum)
}
