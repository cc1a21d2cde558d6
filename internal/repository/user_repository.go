package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-gpa-api/internal/models"
)

const (
	userColumns        = `u.id, u.email, u.username, u.password_hash, u.role, u.active, u.created_at, u.updated_at`
	userDetailsColumns = `id, user_id, full_name, phone_number, reg_number, department, uni_year, created_at, updated_at`
)

// UserRepository provides database access for users, their details and sessions.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE LOWER(u.email) = LOWER($1) LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByUsername returns a user by username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.username = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE u.id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// List returns users based on filters with total count.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	baseQuery := `FROM users u LEFT JOIN user_details ud ON ud.user_id = u.id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("u.role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.UniYear != nil {
		conditions = append(conditions, fmt.Sprintf("ud.uni_year = $%d", len(args)+1))
		args = append(args, *filter.UniYear)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(u.email) LIKE $%d OR LOWER(u.username) LIKE $%d OR LOWER(ud.full_name) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	allowedSorts := map[string]bool{
		"email":      true,
		"username":   true,
		"created_at": true,
		"updated_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}

	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY u.%s %s LIMIT %d OFFSET %d", userColumns, baseQuery, sortBy, sortOrder, pageSize, offset)

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, total, nil
}

// Create inserts a user together with its details row in one transaction.
func (r *UserRepository) Create(ctx context.Context, user *models.User, details *models.UserDetails) (err error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create user: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const userQuery = `INSERT INTO users (id, email, username, password_hash, role, active, created_at, updated_at) VALUES (:id, :email, :username, :password_hash, :role, :active, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, userQuery, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	if details != nil {
		if details.ID == "" {
			details.ID = uuid.NewString()
		}
		details.UserID = user.ID
		details.CreatedAt = now
		details.UpdatedAt = now
		const detailsQuery = `INSERT INTO user_details (id, user_id, full_name, phone_number, reg_number, department, uni_year, created_at, updated_at) VALUES (:id, :user_id, :full_name, :phone_number, :reg_number, :department, :uni_year, :created_at, :updated_at)`
		if _, err = tx.NamedExecContext(ctx, detailsQuery, details); err != nil {
			return fmt.Errorf("create user details: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create user: %w", err)
	}
	return nil
}

// FindDetailsByUserID returns the details row of a user.
func (r *UserRepository) FindDetailsByUserID(ctx context.Context, userID string) (*models.UserDetails, error) {
	query := `SELECT ` + userDetailsColumns + ` FROM user_details WHERE user_id = $1 LIMIT 1`
	var details models.UserDetails
	if err := r.db.GetContext(ctx, &details, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user details: %w", err)
	}
	return &details, nil
}

// UpsertDetails creates or replaces the details row of a user.
func (r *UserRepository) UpsertDetails(ctx context.Context, details *models.UserDetails) error {
	if details.ID == "" {
		details.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if details.CreatedAt.IsZero() {
		details.CreatedAt = now
	}
	details.UpdatedAt = now

	const query = `INSERT INTO user_details (id, user_id, full_name, phone_number, reg_number, department, uni_year, created_at, updated_at)
        VALUES (:id, :user_id, :full_name, :phone_number, :reg_number, :department, :uni_year, :created_at, :updated_at)
        ON CONFLICT (user_id) DO UPDATE SET full_name = EXCLUDED.full_name, phone_number = EXCLUDED.phone_number,
            reg_number = EXCLUDED.reg_number, department = EXCLUDED.department, uni_year = EXCLUDED.uni_year, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, details); err != nil {
		return fmt.Errorf("upsert user details: %w", err)
	}
	return nil
}

// CountByUniYear counts the users whose details place them in the cohort.
func (r *UserRepository) CountByUniYear(ctx context.Context, uniYear models.UniYear) (int, error) {
	const query = `SELECT COUNT(*) FROM user_details WHERE uni_year = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, query, uniYear); err != nil {
		return 0, fmt.Errorf("count users by uni year: %w", err)
	}
	return total, nil
}

// ListIDsByUniYear returns the identifiers of the users in a cohort.
func (r *UserRepository) ListIDsByUniYear(ctx context.Context, uniYear models.UniYear) ([]string, error) {
	const query = `SELECT user_id FROM user_details WHERE uni_year = $1 ORDER BY user_id`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, uniYear); err != nil {
		return nil, fmt.Errorf("list users by uni year: %w", err)
	}
	return ids, nil
}

// CreateRefreshToken persists a refresh token entry.
func (r *UserRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	const query = `INSERT INTO refresh_tokens (id, user_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent) VALUES (:id, :user_id, :token, :expires_at, :created_at, :revoked, :revoked_at, :ip_address, :user_agent)`
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken returns a refresh token by token string.
func (r *UserRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `SELECT id, user_id, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent FROM refresh_tokens WHERE token = $1 LIMIT 1`
	var rt models.RefreshToken
	if err := r.db.GetContext(ctx, &rt, query, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &rt, nil
}

// RevokeRefreshToken marks a token as revoked.
func (r *UserRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, revokedAt); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeUserRefreshTokens revokes all refresh tokens for a user.
func (r *UserRepository) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE user_id = $1 AND revoked = FALSE`
	if _, err := r.db.ExecContext(ctx, query, userID, time.Now().UTC()); err != nil {
		return fmt.Errorf("revoke user refresh tokens: %w", err)
	}
	return nil
}

// CreateAuditLog stores an audit log entry.
func (r *UserRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, user_id, action, resource, resource_id, old_values, new_values, ip_address, user_agent, created_at) VALUES (:id, :user_id, :action, :resource, :resource_id, :old_values, :new_values, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
