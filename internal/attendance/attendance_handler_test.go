package attendance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-clubhouse/internal/attendance"
	attendanceerrors "go-clubhouse/internal/attendance/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	signInFn    func(ctx context.Context, personID string, reqCtx attendance.RequestContext) (attendance.SignInResult, error)
	signOutFn   func(ctx context.Context, personID string, reqCtx attendance.RequestContext) (attendance.SignOutResult, error)
	occupancyFn func(ctx context.Context) ([]attendance.PersonSummary, error)
	historyFn   func(ctx context.Context, personID string, limit int) ([]attendance.SessionResponse, error)
	statsFn     func(ctx context.Context, date string) (attendance.StatsResponse, error)
	searchFn    func(ctx context.Context, query string, limit int, from, to string) ([]attendance.SessionResponse, error)
}

func (f *fakeService) SignIn(ctx context.Context, personID string, reqCtx attendance.RequestContext) (attendance.SignInResult, error) {
	return f.signInFn(ctx, personID, reqCtx)
}
func (f *fakeService) SignOut(ctx context.Context, personID string, reqCtx attendance.RequestContext) (attendance.SignOutResult, error) {
	return f.signOutFn(ctx, personID, reqCtx)
}
func (f *fakeService) CurrentOccupancy(ctx context.Context) ([]attendance.PersonSummary, error) {
	return f.occupancyFn(ctx)
}
func (f *fakeService) History(ctx context.Context, personID string, limit int) ([]attendance.SessionResponse, error) {
	return f.historyFn(ctx, personID, limit)
}
func (f *fakeService) Stats(ctx context.Context, date string) (attendance.StatsResponse, error) {
	return f.statsFn(ctx, date)
}
func (f *fakeService) Search(ctx context.Context, query string, limit int, from, to string) ([]attendance.SessionResponse, error) {
	return f.searchFn(ctx, query, limit, from, to)
}

func newTestContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestHandler_SignIn_Self(t *testing.T) {
	gin.SetMode(gin.TestMode)
	personID := uuid.New().String()

	svc := &fakeService{
		signInFn: func(ctx context.Context, pid string, reqCtx attendance.RequestContext) (attendance.SignInResult, error) {
			assert.Equal(t, personID, pid)
			assert.Equal(t, "web", reqCtx.Method)
			assert.NotEmpty(t, reqCtx.SourceAddress)
			return attendance.SignInResult{SessionID: uuid.New().String(), PersonID: pid}, nil
		},
	}

	h := attendance.NewHandler(svc)

	c, w := newTestContext(t, http.MethodPost, "/attendance/sign-in", `{}`)
	c.Set("person_id", personID)
	c.Set("role", "MEMBER")
	h.SignIn(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}

func TestHandler_SignIn_OtherPersonRequiresPrivilege(t *testing.T) {
	gin.SetMode(gin.TestMode)
	selfID := uuid.New().String()
	otherID := uuid.New().String()

	called := false
	svc := &fakeService{
		signInFn: func(ctx context.Context, pid string, reqCtx attendance.RequestContext) (attendance.SignInResult, error) {
			called = true
			return attendance.SignInResult{SessionID: uuid.New().String(), PersonID: pid}, nil
		},
	}
	h := attendance.NewHandler(svc)

	// A member cannot act on someone else.
	c, w := newTestContext(t, http.MethodPost, "/attendance/sign-in", `{"person_id":"`+otherID+`"}`)
	c.Set("person_id", selfID)
	c.Set("role", "MEMBER")
	h.SignIn(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, called)

	// Staff at the front desk can.
	c2, w2 := newTestContext(t, http.MethodPost, "/attendance/sign-in", `{"person_id":"`+otherID+`","method":"kiosk"}`)
	c2.Set("person_id", selfID)
	c2.Set("role", "STAFF")
	h.SignIn(c2)
	assert.Equal(t, http.StatusCreated, w2.Code)
	assert.True(t, called)
}

func TestHandler_SignIn_Conflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	personID := uuid.New().String()

	svc := &fakeService{
		signInFn: func(ctx context.Context, pid string, reqCtx attendance.RequestContext) (attendance.SignInResult, error) {
			return attendance.SignInResult{}, attendanceerrors.ErrAlreadySignedIn
		},
	}
	h := attendance.NewHandler(svc)

	c, w := newTestContext(t, http.MethodPost, "/attendance/sign-in", `{}`)
	c.Set("person_id", personID)
	c.Set("role", "MEMBER")
	h.SignIn(c)

	// Domain outcome, not a server fault: the caller gets a 409 with a
	// usable message.
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CONFLICT")
	assert.Contains(t, w.Body.String(), "already signed in")
}

func TestHandler_SignOut_NotSignedIn(t *testing.T) {
	gin.SetMode(gin.TestMode)
	personID := uuid.New().String()

	svc := &fakeService{
		signOutFn: func(ctx context.Context, pid string, reqCtx attendance.RequestContext) (attendance.SignOutResult, error) {
			return attendance.SignOutResult{}, attendanceerrors.ErrNotSignedIn
		},
	}
	h := attendance.NewHandler(svc)

	c, w := newTestContext(t, http.MethodPost, "/attendance/sign-out", `{}`)
	c.Set("person_id", personID)
	c.Set("role", "MEMBER")
	h.SignOut(c)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "not signed in")
}

func TestHandler_SearchPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		searchFn: func(ctx context.Context, query string, limit int, from, to string) ([]attendance.SessionResponse, error) {
			assert.Equal(t, "thabo", query)
			return []attendance.SessionResponse{
				{ID: uuid.New().String()},
				{ID: uuid.New().String()},
				{ID: uuid.New().String()},
			}, nil
		},
	}
	h := attendance.NewHandler(svc)

	c, w := newTestContext(t, http.MethodGet, "/attendance/search?q=thabo&page=1&page_size=2", "")
	h.Search(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"meta"`)
	assert.Contains(t, w.Body.String(), `"total":3`)
}

func TestHandler_Occupancy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		occupancyFn: func(ctx context.Context) ([]attendance.PersonSummary, error) {
			return []attendance.PersonSummary{
				{PersonID: uuid.New().String(), FullName: "Lerato Dlamini", Category: "MEMBER"},
			}, nil
		},
	}
	h := attendance.NewHandler(svc)

	c, w := newTestContext(t, http.MethodGet, "/attendance/occupancy", "")
	h.Occupancy(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lerato Dlamini")
}
