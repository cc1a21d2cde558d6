package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-gpa-api/internal/dto"
	"github.com/noah-isme/campus-gpa-api/internal/models"
	appErrors "github.com/noah-isme/campus-gpa-api/pkg/errors"
)

type userRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindDetailsByUserID(ctx context.Context, userID string) (*models.UserDetails, error)
	UpsertDetails(ctx context.Context, details *models.UserDetails) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// UserService handles user lookup and profile maintenance.
type UserService struct {
	repo      userRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService creates an instance of UserService.
func NewUserService(repo userRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns paginated users and pagination metadata.
func (s *UserService) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	pagination := &models.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}

	return users, pagination, nil
}

// Get returns a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "user not found", "failed to load user")
	}
	return user, nil
}

// Profile returns the user with its details row, when one exists.
func (s *UserService) Profile(ctx context.Context, id string) (*models.UserProfile, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := &models.UserProfile{User: *user}
	details, err := s.repo.FindDetailsByUserID(ctx, id)
	switch {
	case err == nil:
		profile.Details = details
	case errors.Is(err, sql.ErrNoRows):
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user details")
	}
	return profile, nil
}

// UpdateDetails edits the caller's profile. A cohort change drops every cached batch average.
func (s *UserService) UpdateDetails(ctx context.Context, userID string, req dto.UpdateDetailsRequest, meta models.LoginRequest) (*models.UserDetails, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	details, err := s.repo.FindDetailsByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user details")
		}
		if req.FullName == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "fullName required when creating profile details")
		}
		details = &models.UserDetails{UserID: userID}
	}

	oldPayload, _ := json.Marshal(details)
	var previousYear models.UniYear
	if details.UniYear != nil {
		previousYear = *details.UniYear
	}

	if req.FullName != nil {
		details.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.PhoneNumber != nil {
		details.PhoneNumber = req.PhoneNumber
	}
	if req.RegNumber != nil {
		details.RegNumber = req.RegNumber
	}
	if req.Department != nil {
		details.Department = req.Department
	}
	if req.UniYear != nil {
		details.UniYear = req.UniYear
	}

	if err := s.repo.UpsertDetails(ctx, details); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user details")
	}

	if req.UniYear != nil && *req.UniYear != previousYear {
		_ = s.cache.Invalidate(ctx, batchCachePattern)
		s.logger.Info("user cohort changed",
			zap.String("user_id", userID),
			zap.String("from", string(previousYear)),
			zap.String("to", string(*req.UniYear)),
		)
	}

	newPayload, _ := json.Marshal(details)
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionProfileUpdate,
		Resource:   models.AuditResourceUsers,
		ResourceID: &userID,
		OldValues:  oldPayload,
		NewValues:  newPayload,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record profile update audit log", zap.Error(err))
	}

	return details, nil
}
