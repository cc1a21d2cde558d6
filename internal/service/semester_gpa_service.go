package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-gpa-api/internal/dto"
	"github.com/noah-isme/campus-gpa-api/internal/models"
	"github.com/noah-isme/campus-gpa-api/pkg/config"
	"github.com/noah-isme/campus-gpa-api/pkg/database"
	appErrors "github.com/noah-isme/campus-gpa-api/pkg/errors"
)

const (
	cgpaCacheKeyPrefix  = "gpa:cgpa:"
	batchCacheKeyPrefix = "gpa:batch:"
	batchCachePattern   = batchCacheKeyPrefix + "*"

	semesterWriteCreated = "created"
	semesterWriteUpdated = "updated"
	semesterWriteDeleted = "deleted"
)

type semesterGPARepo interface {
	Upsert(ctx context.Context, record *models.SemesterGPA) error
	Update(ctx context.Context, record *models.SemesterGPA) error
	FindByUserAndSemester(ctx context.Context, userID string, semesterID models.SemesterID) (*models.SemesterGPA, error)
	FindByID(ctx context.Context, id string) (*models.SemesterGPA, error)
	ListByUser(ctx context.Context, userID string) ([]models.SemesterGPA, error)
	ListByUsers(ctx context.Context, userIDs []string) ([]models.SemesterGPA, error)
	Delete(ctx context.Context, userID string, semesterID models.SemesterID) error
	DeleteByID(ctx context.Context, id string) error
	BatchStatistics(ctx context.Context, uniYear models.UniYear) (*models.BatchStatistics, error)
}

type cohortWarmer interface {
	Warm(uniYear models.UniYear)
}

type cohortDirectory interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindDetailsByUserID(ctx context.Context, userID string) (*models.UserDetails, error)
	CountByUniYear(ctx context.Context, uniYear models.UniYear) (int, error)
	ListIDsByUniYear(ctx context.Context, uniYear models.UniYear) ([]string, error)
}

// SemesterGPAOptions tunes caching and the batch aggregation strategy.
type SemesterGPAOptions struct {
	BatchStrategy string
	CacheTTL      time.Duration
}

// SemesterGPAService stores semester results and rolls them up into CGPA and cohort averages.
type SemesterGPAService struct {
	records   semesterGPARepo
	users     cohortDirectory
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	strategy  string
	cacheTTL  time.Duration
	warmer    cohortWarmer
}

// NewSemesterGPAService constructs SemesterGPAService.
func NewSemesterGPAService(records semesterGPARepo, users cohortDirectory, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, opts SemesterGPAOptions) *SemesterGPAService {
	if validate == nil {
		validate = validator.New()
	}
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
	if logger == nil {
		logger = zap.NewNop()
	}
	strategy := opts.BatchStrategy
	if strategy != config.BatchStrategyScan {
		strategy = config.BatchStrategyAggregate
	}
	return &SemesterGPAService{
		records:   records,
		users:     users,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		strategy:  strategy,
		cacheTTL:  opts.CacheTTL,
	}
}

// Upsert creates or replaces the user's record for the semester. The returned record reports IsNew for inserts.
func (s *SemesterGPAService) Upsert(ctx context.Context, userID, actor string, req dto.UpsertSemesterGPARequest) (*models.SemesterGPA, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester gpa payload")
	}
	semesterID, err := parseSemester(string(req.SemesterID))
	if err != nil {
		return nil, err
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	subjects, err := BuildSubjects(req.Subjects)
	if err != nil {
		return nil, err
	}
	totalCredits, gpa := totalsFor(subjects)

	record := &models.SemesterGPA{
		UserID:       userID,
		SemesterID:   semesterID,
		SemesterName: strings.TrimSpace(req.SemesterName),
		Subjects:     subjects,
		TotalCredits: totalCredits,
		GPA:          gpa,
		UpdatedBy:    actorRef(actor),
	}
	if err := s.records.Upsert(ctx, record); err != nil {
		return nil, storeError(err, "user not found", "failed to save semester gpa")
	}

	action := semesterWriteUpdated
	if record.IsNew() {
		action = semesterWriteCreated
	}
	s.metrics.RecordSemesterWrite(action)
	s.invalidate(ctx, userID)
	s.logger.Info("semester gpa saved",
		zap.String("user_id", userID),
		zap.String("semester_id", string(semesterID)),
		zap.String("action", action),
		zap.Float64("gpa", gpa),
	)
	return record, nil
}

// Update changes the label and/or the subjects of an existing record. Totals are recomputed only when subjects change.
func (s *SemesterGPAService) Update(ctx context.Context, userID, rawSemesterID, actor string, req dto.UpdateSemesterGPARequest) (*models.SemesterGPA, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semester gpa payload")
	}
	if req.SemesterName == nil && req.Subjects == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semesterName or subjects required")
	}
	semesterID, err := parseSemester(rawSemesterID)
	if err != nil {
		return nil, err
	}

	record, err := s.records.FindByUserAndSemester(ctx, userID, semesterID)
	if err != nil {
		return nil, storeError(err, "semester gpa not found", "failed to load semester gpa")
	}

	if req.Subjects != nil {
		subjects, err := BuildSubjects(req.Subjects)
		if err != nil {
			return nil, err
		}
		record.Subjects = subjects
		record.TotalCredits, record.GPA = totalsFor(subjects)
	}
	if req.SemesterName != nil {
		record.SemesterName = strings.TrimSpace(*req.SemesterName)
	}
	record.UpdatedBy = actorRef(actor)

	if err := s.records.Update(ctx, record); err != nil {
		return nil, storeError(err, "semester gpa not found", "failed to update semester gpa")
	}
	s.metrics.RecordSemesterWrite(semesterWriteUpdated)
	s.invalidate(ctx, userID)
	return record, nil
}

// ListForUser returns all records of the user in semester order.
func (s *SemesterGPAService) ListForUser(ctx context.Context, userID string) ([]models.SemesterGPA, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	records, err := s.records.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semester gpa")
	}
	return records, nil
}

// Get returns a single semester record of the user.
func (s *SemesterGPAService) Get(ctx context.Context, userID, rawSemesterID string) (*models.SemesterGPA, error) {
	semesterID, err := parseSemester(rawSemesterID)
	if err != nil {
		return nil, err
	}
	record, err := s.records.FindByUserAndSemester(ctx, userID, semesterID)
	if err != nil {
		return nil, storeError(err, "semester gpa not found", "failed to load semester gpa")
	}
	return record, nil
}

// GetByID returns a record by its identifier.
func (s *SemesterGPAService) GetByID(ctx context.Context, id string) (*models.SemesterGPA, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "semester gpa not found", "failed to load semester gpa")
	}
	return record, nil
}

// Delete removes the user's record for the semester.
func (s *SemesterGPAService) Delete(ctx context.Context, userID, rawSemesterID string) error {
	semesterID, err := parseSemester(rawSemesterID)
	if err != nil {
		return err
	}
	if err := s.records.Delete(ctx, userID, semesterID); err != nil {
		return storeError(err, "semester gpa not found", "failed to delete semester gpa")
	}
	s.metrics.RecordSemesterWrite(semesterWriteDeleted)
	s.invalidate(ctx, userID)
	return nil
}

// DeleteByID removes a record by its identifier.
func (s *SemesterGPAService) DeleteByID(ctx context.Context, id string) error {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		return storeError(err, "semester gpa not found", "failed to load semester gpa")
	}
	if err := s.records.DeleteByID(ctx, id); err != nil {
		return storeError(err, "semester gpa not found", "failed to delete semester gpa")
	}
	s.metrics.RecordSemesterWrite(semesterWriteDeleted)
	s.invalidate(ctx, record.UserID)
	return nil
}

// CGPA returns the cumulative GPA of the user. The boolean reports whether it came from cache.
func (s *SemesterGPAService) CGPA(ctx context.Context, userID string) (*models.CGPASummary, bool, error) {
	key := cgpaCacheKeyPrefix + userID
	var cached models.CGPASummary
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		s.metrics.RecordAggregation("cgpa", "cache")
		return &cached, true, nil
	}

	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, false, err
	}
	start := time.Now()
	records, err := s.records.ListByUser(ctx, userID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester gpa")
	}
	s.metrics.ObserveDBQuery("semester_gpa_by_user", time.Since(start))
	s.metrics.RecordAggregation("cgpa", "database")

	summary := AggregateCGPA(userID, records)
	_ = s.cache.Set(ctx, key, summary, s.cacheTTL)
	return &summary, false, nil
}

// AggregateCGPA rolls semester records up into a credit-weighted cumulative GPA.
func AggregateCGPA(userID string, records []models.SemesterGPA) models.CGPASummary {
	summary := models.CGPASummary{UserID: userID, SemesterCount: len(records)}
	var weighted float64
	for _, record := range records {
		summary.TotalCredits += record.TotalCredits
		weighted += record.GPA * record.TotalCredits
	}
	if summary.TotalCredits > 0 {
		summary.CGPA = weighted / summary.TotalCredits
	}
	return summary
}

// BatchAverage returns the credit-weighted average GPA across every semester record of a cohort.
// The boolean reports whether it came from cache.
func (s *SemesterGPAService) BatchAverage(ctx context.Context, uniYear models.UniYear) (*models.BatchAverage, bool, error) {
	if !uniYear.Valid() {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown uni year %q", uniYear))
	}
	key := batchCacheKeyPrefix + string(uniYear)
	var cached models.BatchAverage
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		s.metrics.RecordAggregation("batch", "cache")
		return &cached, true, nil
	}

	start := time.Now()
	var (
		result *models.BatchAverage
		err    error
	)
	if s.strategy == config.BatchStrategyScan {
		result, err = s.batchByScan(ctx, uniYear)
	} else {
		result, err = s.batchByAggregate(ctx, uniYear)
	}
	if err != nil {
		return nil, false, err
	}
	s.metrics.ObserveDBQuery("semester_gpa_batch_"+s.strategy, time.Since(start))
	s.metrics.RecordAggregation("batch", "database")

	_ = s.cache.Set(ctx, key, result, s.cacheTTL)
	return result, false, nil
}

// BatchAverageForUser resolves the user's cohort from their details and returns its batch average.
func (s *SemesterGPAService) BatchAverageForUser(ctx context.Context, userID string) (*models.BatchAverage, bool, error) {
	details, err := s.users.FindDetailsByUserID(ctx, userID)
	if err != nil {
		return nil, false, storeError(err, "user details not found", "failed to load user details")
	}
	if details.UniYear == nil {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "uni year is not set on the user profile")
	}
	return s.BatchAverage(ctx, *details.UniYear)
}

// AggregateBatch reduces semester records to cohort sums in memory.
func AggregateBatch(records []models.SemesterGPA) models.BatchStatistics {
	users := make(map[string]struct{})
	var stats models.BatchStatistics
	for _, record := range records {
		users[record.UserID] = struct{}{}
		stats.WeightedGPASum += record.GPA * record.TotalCredits
		stats.TotalCreditsSum += record.TotalCredits
	}
	stats.StudentsWithGPA = len(users)
	return stats
}

func (s *SemesterGPAService) batchByAggregate(ctx context.Context, uniYear models.UniYear) (*models.BatchAverage, error) {
	cohortSize, err := s.users.CountByUniYear(ctx, uniYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count cohort")
	}
	if cohortSize == 0 {
		return &models.BatchAverage{UniYear: uniYear}, nil
	}
	stats, err := s.records.BatchStatistics(ctx, uniYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate batch statistics")
	}
	return s.batchAverageFrom(uniYear, cohortSize, *stats), nil
}

// batchByScan loads every record of the cohort and aggregates in memory. O(records); not the default.
func (s *SemesterGPAService) batchByScan(ctx context.Context, uniYear models.UniYear) (*models.BatchAverage, error) {
	userIDs, err := s.users.ListIDsByUniYear(ctx, uniYear)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve cohort")
	}
	if len(userIDs) == 0 {
		return &models.BatchAverage{UniYear: uniYear}, nil
	}
	records, err := s.records.ListByUsers(ctx, userIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load cohort records")
	}
	return s.batchAverageFrom(uniYear, len(userIDs), AggregateBatch(records)), nil
}

func (s *SemesterGPAService) batchAverageFrom(uniYear models.UniYear, cohortSize int, stats models.BatchStatistics) *models.BatchAverage {
	result := &models.BatchAverage{
		UniYear:         uniYear,
		TotalStudents:   cohortSize,
		StudentsWithGPA: stats.StudentsWithGPA,
	}
	result.StudentsWithoutGPA = cohortSize - stats.StudentsWithGPA
	if result.StudentsWithoutGPA < 0 {
		s.logger.Warn("cohort size below students with gpa",
			zap.String("uni_year", string(uniYear)),
			zap.Int("cohort_size", cohortSize),
			zap.Int("students_with_gpa", stats.StudentsWithGPA),
		)
		result.StudentsWithoutGPA = 0
	}
	if stats.TotalCreditsSum > 0 {
		result.AverageGPA = stats.WeightedGPASum / stats.TotalCreditsSum
	}
	return result
}

// SetBatchWarmer enables background recomputation of the writer's cohort after each write.
func (s *SemesterGPAService) SetBatchWarmer(w cohortWarmer) {
	s.warmer = w
}

func (s *SemesterGPAService) ensureUser(ctx context.Context, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return appErrors.Clone(appErrors.ErrValidation, "user id required")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return storeError(err, "user not found", "failed to load user")
	}
	return nil
}

// invalidate drops the user's CGPA and every cohort average; the user's cohort may have changed since caching.
func (s *SemesterGPAService) invalidate(ctx context.Context, userID string) {
	_ = s.cache.Delete(ctx, cgpaCacheKeyPrefix+userID)
	_ = s.cache.Invalidate(ctx, batchCachePattern)
	if s.warmer == nil || !s.cache.Enabled() {
		return
	}
	details, err := s.users.FindDetailsByUserID(ctx, userID)
	if err != nil || details.UniYear == nil {
		return
	}
	s.warmer.Warm(*details.UniYear)
}

func parseSemester(raw string) (models.SemesterID, error) {
	id, ok := models.ParseSemesterID(raw)
	if !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown semester %q", raw))
	}
	return id, nil
}

func actorRef(actor string) *string {
	if actor == "" {
		return nil
	}
	return &actor
}

// storeError maps repository errors: missing rows and malformed ids become NotFound, typed errors pass through, the rest are internal.
func storeError(err error, notFoundMsg, internalMsg string) error {
	if errors.Is(err, sql.ErrNoRows) || database.IsInvalidText(err) {
		return appErrors.Clone(appErrors.ErrNotFound, notFoundMsg)
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internalMsg)
}
