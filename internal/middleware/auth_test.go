package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-gpa-api/internal/models"
	appErrors "github.com/noah-isme/campus-gpa-api/pkg/errors"
)

type stubValidator struct {
	claims *models.JWTClaims
}

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return s.claims, nil
}

type recordingAuditWriter struct {
	logs []*models.AuditLog
}

func (r *recordingAuditWriter) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	r.logs = append(r.logs, log)
	return nil
}

func newProtectedRouter(claims *models.JWTClaims, allowed ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/admin/semester-gpa/user/:userId", JWT(stubValidator{claims: claims}), RBAC(allowed...))
	group.GET("", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func serve(router *gin.Engine, path, token string) int {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(recorder, req)
	return recorder.Code
}

func TestJWTRejectsMissingOrInvalidToken(t *testing.T) {
	router := newProtectedRouter(&models.JWTClaims{UserID: "u1", Role: models.RoleAdmin}, string(models.RoleAdmin))

	if code := serve(router, "/admin/semester-gpa/user/u2", ""); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}
	if code := serve(router, "/admin/semester-gpa/user/u2", "bad"); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", code)
	}
	if code := serve(router, "/admin/semester-gpa/user/u2", "good"); code != http.StatusNoContent {
		t.Fatalf("expected admin to pass, got %d", code)
	}
}

func TestRBACStudentDeniedUnlessSelf(t *testing.T) {
	router := newProtectedRouter(&models.JWTClaims{UserID: "u1", Role: models.RoleStudent}, string(models.RoleAdmin), "SELF")

	if code := serve(router, "/admin/semester-gpa/user/u2", "good"); code != http.StatusForbidden {
		t.Fatalf("expected 403 for other user, got %d", code)
	}
	if code := serve(router, "/admin/semester-gpa/user/u1", "good"); code != http.StatusNoContent {
		t.Fatalf("expected self access, got %d", code)
	}
}

func TestAuditRecordsSuccessfulMutations(t *testing.T) {
	gin.SetMode(gin.TestMode)
	writer := &recordingAuditWriter{}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
		c.Next()
	})
	router.DELETE("/semester/:semesterId", Audit(writer, nil, models.AuditActionSemesterDelete, models.AuditResourceSemesterGPA, "id", "semesterId"), func(c *gin.Context) {
		if c.Param("semesterId") == "NINTH" {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusNoContent)
	})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/semester/FIRST", nil))
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodDelete, "/semester/NINTH", nil))

	if len(writer.logs) != 1 {
		t.Fatalf("expected exactly one audit entry, got %d", len(writer.logs))
	}
	entry := writer.logs[0]
	if entry.ResourceID == nil || *entry.ResourceID != "FIRST" {
		t.Fatalf("unexpected resource id: %v", entry.ResourceID)
	}
	if entry.UserID == nil || *entry.UserID != "admin-1" {
		t.Fatalf("unexpected actor: %v", entry.UserID)
	}
}

func TestResponseMetaCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	SetCacheHit(c, true)
	meta := ExtractMeta(c)
	if hit, ok := meta["cache_hit"].(bool); !ok || !hit {
		t.Fatalf("expected cache_hit in meta, got %v", meta)
	}
}

func TestResponseMetaCohort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)

	SetCohort(c, "")
	if _, ok := ExtractMeta(c)["uni_year"]; ok {
		t.Fatalf("empty cohort should not be recorded")
	}
	SetCohort(c, "THIRD_YEAR")
	SetCacheHit(c, false)
	meta := ExtractMeta(c)
	if meta["uni_year"] != "THIRD_YEAR" {
		t.Fatalf("expected uni_year in meta, got %v", meta)
	}
	if got := recorder.Header().Get(CacheHeader); got != "MISS" {
		t.Fatalf("expected MISS header, got %q", got)
	}
}

func TestAuditJoinsNestedResourceParams(t *testing.T) {
	gin.SetMode(gin.TestMode)
	writer := &recordingAuditWriter{}
	router := gin.New()
	router.PUT("/user/:userId/semester/:semesterId", Audit(writer, nil, models.AuditActionSemesterUpdate, models.AuditResourceSemesterGPA, "userId", "semesterId"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPut, "/user/u2/semester/THIRD", nil))

	if len(writer.logs) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(writer.logs))
	}
	if id := writer.logs[0].ResourceID; id == nil || *id != "u2/THIRD" {
		t.Fatalf("unexpected resource id: %v", id)
	}
}
