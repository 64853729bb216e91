package productionplan

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kilianp07/powerplan/core/history"
)

// HistoryRoute lists and fetches computed plans.
const HistoryRoute = "/productionplans"

// CodeNotFound is returned for an unknown plan ID.
const CodeNotFound = "NOT_FOUND"

const maxHistoryLimit = 500

// HistoryHandler serves the computed plans kept in a history store.
type HistoryHandler struct {
	store history.Store
}

// NewHistoryHandler creates a handler reading from store.
func NewHistoryHandler(store history.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

// Register mounts GET /productionplans and GET /productionplans/:id on r.
func (h *HistoryHandler) Register(r gin.IRoutes) {
	r.GET(HistoryRoute, h.list)
	r.GET(HistoryRoute+"/:id", h.get)
}

func (h *HistoryHandler) list(c *gin.Context) {
	q, err := parseQuery(c)
	if err != nil {
		abort(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}
	recs, err := h.store.Query(c.Request.Context(), q)
	if err != nil {
		abort(c, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}
	if recs == nil {
		recs = []history.Record{}
	}
	c.JSON(http.StatusOK, recs)
}

func (h *HistoryHandler) get(c *gin.Context) {
	rec, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, history.ErrNotFound) {
		abort(c, http.StatusNotFound, CodeNotFound, fmt.Sprintf("plan %s not found", c.Param("id")))
		return
	}
	if err != nil {
		abort(c, http.StatusInternalServerError, CodeInternal, err.Error())
		return
	}
	c.JSON(http.StatusOK, rec)
}

func parseQuery(c *gin.Context) (history.Query, error) {
	q := history.Query{Limit: 50}
	if s := c.Query("start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, fmt.Errorf("start: %w", err)
		}
		q.Start = t
	}
	if s := c.Query("end"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, fmt.Errorf("end: %w", err)
		}
		q.End = t
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return q, fmt.Errorf("limit must be a positive integer")
		}
		q.Limit = min(n, maxHistoryLimit)
	}
	return q, nil
}
