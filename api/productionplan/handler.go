// Package productionplan exposes the plan computation over HTTP.
package productionplan

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/kilianp07/powerplan/core/dispatch"
	"github.com/kilianp07/powerplan/core/logger"
	"github.com/kilianp07/powerplan/core/model"
)

// Route is the path of the plan endpoint.
const Route = "/productionplan"

// Error codes returned in the response body.
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInvalidUnit          = "INVALID_UNIT"
	CodeInvalidLoad          = "INVALID_LOAD"
	CodeLoadExceedsCapacity  = "LOAD_EXCEEDS_CAPACITY"
	CodeOverProduction       = "OVER_PRODUCTION"
	CodeSearchBudgetExceeded = "SEARCH_BUDGET_EXCEEDED"
	CodeComputeTimeout       = "COMPUTE_TIMEOUT"
	CodeInternal             = "INTERNAL"
)

// Planner computes production plans. *dispatch.PlanManager satisfies it.
type Planner interface {
	Plan(ctx context.Context, req model.Payload) (dispatch.Outcome, error)
}

// ErrorBody is the payload of every non-2xx response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable code and a human readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Handler serves POST /productionplan.
type Handler struct {
	planner Planner
	log     logger.Logger
}

// NewHandler creates a handler backed by planner.
func NewHandler(planner Planner, log logger.Logger) *Handler {
	return &Handler{planner: planner, log: log}
}

// Register mounts the handler on r.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST(Route, h.post)
}

func (h *Handler) post(c *gin.Context) {
	var req model.Payload
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debugf("rejected production plan request: %v", err)
		abort(c, http.StatusBadRequest, CodeInvalidRequest, bindingMessage(err))
		return
	}
	for _, p := range req.PowerPlants {
		if err := p.Validate(); err != nil {
			abort(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
			return
		}
	}

	out, err := h.planner.Plan(c.Request.Context(), req)
	if err != nil {
		status, code := classify(err)
		abort(c, status, code, err.Error())
		return
	}
	c.Header("X-Plan-ID", out.ID)
	c.JSON(http.StatusOK, out.Plan)
}

func abort(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: ErrorDetail{Code: code, Message: msg}})
}

// classify maps a planner error to the HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, dispatch.ErrInvalidUnit):
		return http.StatusBadRequest, CodeInvalidUnit
	case errors.Is(err, dispatch.ErrInvalidLoad):
		return http.StatusBadRequest, CodeInvalidLoad
	case errors.Is(err, dispatch.ErrLoadExceedsCapacity):
		return http.StatusBadRequest, CodeLoadExceedsCapacity
	case errors.Is(err, dispatch.ErrOverProduction):
		return http.StatusBadRequest, CodeOverProduction
	case errors.Is(err, dispatch.ErrSearchBudgetExceeded):
		return http.StatusBadRequest, CodeSearchBudgetExceeded
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, CodeComputeTimeout
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// bindingMessage turns validator errors into readable sentences. Decoding
// errors are returned as is.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Load":
		return "the load must be greater than 0"
	case "PowerPlants":
		return "powerplants list cannot be null or empty"
	case "Efficiency":
		return fmt.Sprintf("%s: efficiency must be greater than 0", fe.Namespace())
	case "PMax":
		if fe.Tag() == "gtefield" {
			return fmt.Sprintf("%s: pmax must be greater than or equal to pmin", fe.Namespace())
		}
	case "Wind":
		return "wind(%) must be between 0 and 100"
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed on %s=%s", fe.Namespace(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag())
}
