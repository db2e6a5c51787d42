package auditlog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-clubhouse/internal/auditlog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueryRepo struct {
	auditlog.Repository

	recentFn  func(ctx context.Context, limit int, personID string) ([]auditlog.ActivityEvent, error)
	summaryFn func(ctx context.Context, windowDays int) ([]auditlog.DaySummary, error)
}

func (f *fakeQueryRepo) Recent(ctx context.Context, limit int, personID string) ([]auditlog.ActivityEvent, error) {
	return f.recentFn(ctx, limit, personID)
}

func (f *fakeQueryRepo) SummaryByDay(ctx context.Context, windowDays int) ([]auditlog.DaySummary, error) {
	return f.summaryFn(ctx, windowDays)
}

func TestHandler_Recent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	personID := uuid.New()
	repo := &fakeQueryRepo{
		recentFn: func(ctx context.Context, limit int, pid string) ([]auditlog.ActivityEvent, error) {
			assert.Equal(t, 10, limit)
			assert.Equal(t, personID.String(), pid)
			return []auditlog.ActivityEvent{{
				ID:             uuid.New(),
				UserID:         &personID,
				Action:         auditlog.ActionSignIn,
				Status:         auditlog.StatusSuccess,
				IPAddress:      "10.0.0.4",
				Timestamp:      time.Now().UTC(),
				AdditionalData: []byte(`{"method":"web"}`),
			}}, nil
		},
	}
	h := auditlog.NewHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/audit/events?limit=10&person_id="+personID.String(), nil)
	h.Recent(c)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Ok   bool                     `json:"ok"`
		Data []auditlog.EventResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.True(t, envelope.Ok)
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, auditlog.ActionSignIn, envelope.Data[0].Action)
	assert.Equal(t, "web", envelope.Data[0].AdditionalData["method"])
}

func TestHandler_Summary(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &fakeQueryRepo{
		summaryFn: func(ctx context.Context, windowDays int) ([]auditlog.DaySummary, error) {
			assert.Equal(t, 14, windowDays)
			return []auditlog.DaySummary{{
				Date:          time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
				SignIns:       12,
				SignOuts:      11,
				Failures:      2,
				UniquePersons: 9,
			}}, nil
		},
	}
	h := auditlog.NewHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/audit/summary?days=14", nil)
	h.Summary(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2025-03-10")
	assert.Contains(t, w.Body.String(), `"signins":12`)
}
