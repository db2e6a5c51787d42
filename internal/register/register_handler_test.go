package register_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-clubhouse/internal/register"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	byDateFn      func(ctx context.Context, date string) ([]register.EntryResponse, error)
	countsFn      func(ctx context.Context, date string) (register.CountsResponse, error)
	activeDatesFn func(ctx context.Context, limit int) (register.ActiveDatesResponse, error)
}

func (f *fakeService) ByDate(ctx context.Context, date string) ([]register.EntryResponse, error) {
	return f.byDateFn(ctx, date)
}
func (f *fakeService) CountsByCategory(ctx context.Context, date string) (register.CountsResponse, error) {
	return f.countsFn(ctx, date)
}
func (f *fakeService) ActiveDates(ctx context.Context, limit int) (register.ActiveDatesResponse, error) {
	return f.activeDatesFn(ctx, limit)
}

func TestHandler_ByDateAndCounts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		byDateFn: func(ctx context.Context, date string) ([]register.EntryResponse, error) {
			assert.Equal(t, "2025-03-10", date)
			return []register.EntryResponse{{PersonName: "Sipho Nkosi", Category: "MEMBER"}}, nil
		},
		countsFn: func(ctx context.Context, date string) (register.CountsResponse, error) {
			return register.CountsResponse{
				Date:   date,
				Counts: map[string]int64{"MEMBER": 1, register.TotalKey: 1},
			}, nil
		},
	}
	h := register.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "date", Value: "2025-03-10"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/register/2025-03-10", nil)
	h.ByDate(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sipho Nkosi")

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Params = gin.Params{{Key: "date", Value: "2025-03-10"}}
	c2.Request = httptest.NewRequest(http.MethodGet, "/register/2025-03-10/counts", nil)
	h.Counts(c2)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), `"total":1`)
}

func TestHandler_ActiveDates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		activeDatesFn: func(ctx context.Context, limit int) (register.ActiveDatesResponse, error) {
			assert.Equal(t, 5, limit)
			return register.ActiveDatesResponse{Dates: []string{"2025-03-10"}}, nil
		},
	}
	h := register.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/register/dates?limit=5", nil)
	h.ActiveDates(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2025-03-10")
}
