package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-gpa-api/internal/middleware"
	"github.com/noah-isme/campus-gpa-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		return nil
	}
	return claims
}

// targetUserID resolves the user a request acts on: the :userId route parameter on admin
// routes, otherwise the caller.
func targetUserID(c *gin.Context) (string, bool) {
	if id := c.Param(middleware.SelfParam); id != "" {
		return id, true
	}
	claims := claimsFromContext(c)
	if claims == nil || claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}

func actorFromContext(c *gin.Context) string {
	claims := claimsFromContext(c)
	if claims == nil {
		return ""
	}
	if claims.Email != "" {
		return claims.Email
	}
	return claims.UserID
}

func requestMeta(c *gin.Context) models.LoginRequest {
	return models.LoginRequest{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}

func metaWithCache(c *gin.Context, hit bool) map[string]interface{} {
	middleware.SetCacheHit(c, hit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	return meta
}
