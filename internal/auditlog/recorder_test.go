package auditlog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeAppendRepo struct {
	Repository
	appendErr error
	appended  []*ActivityEvent
}

func (f *fakeAppendRepo) Append(ctx context.Context, e *ActivityEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, e)
	return nil
}

func TestRecorder_RecordSuccess(t *testing.T) {
	repo := &fakeAppendRepo{}
	rec := NewRecorder(repo, zap.NewNop())

	personID := uuid.New()
	ok := rec.Record(context.Background(), Entry{
		PersonID:      personID.String(),
		Action:        ActionSignIn,
		Status:        StatusSuccess,
		SourceAddress: "192.168.1.20",
		UserAgent:     "kiosk/1.0",
		Detail:        SignInDetail{SessionID: "abc", Method: "kiosk"},
	})

	assert.True(t, ok)
	assert.Len(t, repo.appended, 1)

	e := repo.appended[0]
	assert.NotNil(t, e.UserID)
	assert.Equal(t, personID, *e.UserID)
	assert.Equal(t, ActionSignIn, e.Action)
	assert.Equal(t, "192.168.1.20", e.IPAddress)
	assert.False(t, e.Timestamp.IsZero())

	var detail map[string]any
	assert.NoError(t, json.Unmarshal(e.AdditionalData, &detail))
	assert.Equal(t, "abc", detail["session_id"])
	assert.Equal(t, "kiosk", detail["method"])
}

func TestRecorder_UnresolvedPersonLeavesUserIDNull(t *testing.T) {
	repo := &fakeAppendRepo{}
	rec := NewRecorder(repo, zap.NewNop())

	ok := rec.Record(context.Background(), Entry{
		Action: ActionSignInFailed,
		Status: StatusFailed,
		Detail: FailureDetail{Reason: ReasonPersonNotFound},
	})

	assert.True(t, ok)
	assert.Len(t, repo.appended, 1)
	assert.Nil(t, repo.appended[0].UserID)
}

func TestRecorder_AppendFailureIsSwallowed(t *testing.T) {
	repo := &fakeAppendRepo{appendErr: errors.New("connection reset")}
	rec := NewRecorder(repo, zap.NewNop())

	// Best-effort: the failure is reported as false, never as an error
	// the primary operation would have to handle.
	ok := rec.Record(context.Background(), Entry{
		PersonID: uuid.New().String(),
		Action:   ActionSignOut,
		Status:   StatusSuccess,
	})

	assert.False(t, ok)
	assert.Empty(t, repo.appended)
}
