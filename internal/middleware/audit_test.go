package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentorhub/mentorhub-api/internal/models"
)

type auditRecorderStub struct {
	logs []*models.AuditLog
}

func (s *auditRecorderStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	s.logs = append(s.logs, log)
	return nil
}

func auditTestRouter(recorder *auditRecorderStub, claims *models.JWTClaims, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/stats", func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
	}, Audit(recorder, models.AuditActionStatsView, "system"), func(c *gin.Context) {
		c.JSON(status, gin.H{})
	})
	return r
}

func TestAuditRecordsSuccessfulRequest(t *testing.T) {
	recorder := &auditRecorderStub{}
	claims := &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}
	r := auditTestRouter(recorder, claims, http.StatusOK)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.Header.Set("User-Agent", "audit-test")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, recorder.logs, 1)
	entry := recorder.logs[0]
	assert.Equal(t, models.AuditActionStatsView, entry.Action)
	assert.Equal(t, "system", entry.Resource)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "admin-1", *entry.UserID)
	assert.Equal(t, "audit-test", entry.UserAgent)
	assert.Contains(t, string(entry.NewValues), "/admin/stats")
}

func TestAuditSkipsFailedRequest(t *testing.T) {
	recorder := &auditRecorderStub{}
	r := auditTestRouter(recorder, nil, http.StatusForbidden)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, recorder.logs)
}
