package auditlog

import (
	"net/http"
	"strconv"

	"go-clubhouse/internal/shared/apperror"
	"go-clubhouse/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandler(repo Repository, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auditlog.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auditlog.handler")
	}
	return &Handler{repo: repo, logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	h.logger.Error("audit query failed", zap.Error(err))
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Recent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	rows, err := h.repo.Recent(c.Request.Context(), limit, c.Query("person_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	res := make([]EventResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToEventResponse(r)
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Summary(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	rows, err := h.repo.SummaryByDay(c.Request.Context(), days)
	if err != nil {
		h.writeError(c, err)
		return
	}

	res := make([]DaySummaryResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToDaySummaryResponse(r)
	}
	response.Success(c, http.StatusOK, res, nil)
}
