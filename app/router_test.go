package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/powerplan/api/productionplan"
	"github.com/kilianp07/powerplan/core/dispatch"
	"github.com/kilianp07/powerplan/core/model"
	"github.com/kilianp07/powerplan/infra/logger"
)

type panicPlanner struct{}

func (panicPlanner) Plan(context.Context, model.Payload) (dispatch.Outcome, error) {
	panic("boom")
}

func init() { gin.SetMode(gin.TestMode) }

func TestRouterHealth(t *testing.T) {
	r := NewRouter(panicPlanner{}, nil, nil, logger.NopLogger{})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRouterRecoversPanics(t *testing.T) {
	r := NewRouter(panicPlanner{}, nil, nil, logger.NopLogger{})
	body := `{"load": 10, "fuels": {}, "powerplants": [{"name": "a", "type": "gasfired", "efficiency": 0.5, "pmin": 0, "pmax": 20}]}`
	req := httptest.NewRequest(http.MethodPost, productionplan.Route, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	var out productionplan.ErrorBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	assert.Equal(t, productionplan.CodeInternal, out.Error.Code)
}

func TestCORSPreflight(t *testing.T) {
	h := withCORS(NewRouter(panicPlanner{}, nil, nil, logger.NopLogger{}), []string{"http://example.test"})

	req := httptest.NewRequest(http.MethodOptions, productionplan.Route, nil)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "http://example.test", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://other.test")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
