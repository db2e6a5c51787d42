package attendance

import (
	"net/http"
	"strconv"
	"strings"

	"go-clubhouse/internal/shared/apperror"
	"go-clubhouse/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// subjectPersonID resolves whose attendance is being changed: the
// caller's own identity, or an explicit person_id when a privileged
// role signs someone else in at the front desk.
func subjectPersonID(c *gin.Context, requested string) string {
	if requested == "" {
		return c.GetString("person_id")
	}

	role := strings.ToUpper(strings.TrimSpace(c.GetString("role")))
	if requested != c.GetString("person_id") && !isPrivilegedRole(role) {
		return ""
	}
	return requested
}

func requestContext(c *gin.Context, method string) RequestContext {
	if method == "" {
		method = "web"
	}
	return RequestContext{
		SourceAddress: c.ClientIP(),
		UserAgent:     c.Request.UserAgent(),
		Method:        method,
	}
}

func (h *Handler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	personID := subjectPersonID(c, req.PersonID)
	if personID == "" {
		response.Error(c, http.StatusForbidden, apperror.CodeForbidden, "Cannot sign in another person", nil)
		return
	}

	resp, err := h.service.SignIn(c.Request.Context(), personID, requestContext(c, req.Method))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) SignOut(c *gin.Context) {
	var req SignOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	personID := subjectPersonID(c, req.PersonID)
	if personID == "" {
		response.Error(c, http.StatusForbidden, apperror.CodeForbidden, "Cannot sign out another person", nil)
		return
	}

	resp, err := h.service.SignOut(c.Request.Context(), personID, requestContext(c, req.Method))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Occupancy(c *gin.Context) {
	resp, err := h.service.CurrentOccupancy(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) History(c *gin.Context) {
	personID := c.Param("person_id")

	role := strings.ToUpper(strings.TrimSpace(c.GetString("role")))
	if personID != c.GetString("person_id") && !isPrivilegedRole(role) {
		response.Error(c, http.StatusForbidden, apperror.CodeForbidden, "Cannot view another person's history", nil)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := h.service.History(c.Request.Context(), personID, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Stats(c *gin.Context) {
	resp, err := h.service.Stats(c.Request.Context(), c.Query("date"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Search(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))

	resp, err := h.service.Search(c.Request.Context(), query, limit, c.Query("from"), c.Query("to"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func isPrivilegedRole(role string) bool {
	switch role {
	case "ADMIN", "STAFF":
		return true
	default:
		return false
	}
}
