package attendanceerrors

import (
	"net/http"

	"go-clubhouse/internal/shared/apperror"
)

var (
	ErrAlreadySignedIn = apperror.New(
		apperror.CodeConflict,
		"person is already signed in",
		http.StatusConflict,
	)
	ErrNotSignedIn = apperror.New(
		apperror.CodeConflict,
		"person is not signed in",
		http.StatusConflict,
	)
	ErrPersonNotFound = apperror.New(
		apperror.CodeNotFound,
		"person not found",
		http.StatusNotFound,
	)
	ErrInvalidPersonID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid person id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"from date must be before or equal to the to date",
		http.StatusBadRequest,
	)
	ErrEmptyQuery = apperror.New(
		apperror.CodeInvalidInput,
		"search query must not be empty",
		http.StatusBadRequest,
	)
)
