package attendance

import (
	"errors"
	"strings"

	attendanceerrors "go-clubhouse/internal/attendance/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// mapRepositoryError translates persistence failures into domain
// outcomes. The 23505 on uq_attendance_active is the authoritative
// duplicate-sign-in signal: when two concurrent sign-ins race past the
// pre-check, the losing insert lands here.
func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return attendanceerrors.ErrNotSignedIn
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_attendance_active" {
			return attendanceerrors.ErrAlreadySignedIn
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_attendance_active") {
		return attendanceerrors.ErrAlreadySignedIn
	}

	return err
}
