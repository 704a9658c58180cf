package proxy

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"servicehub_backend/internal/common"
	"servicehub_backend/internal/middleware"
	"servicehub_backend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupProxyRouter(store *fakeStore, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Stand-in for the auth middleware: place a resolved session in context.
	sessionMW := func(c *gin.Context) {
		sess := session.ResolvedSession{Role: role, IsAuthenticated: true}
		c.Set(middleware.SessionKey, &sess)
		c.Next()
	}

	handler := NewHandler(testDispatcher(store), store, zap.NewNop())
	handler.RegisterRoutes(router.Group("/api"), sessionMW)
	return router
}

func postProxy(t *testing.T, router *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/mongodb", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestProxyEndpoint_UnsupportedOperationBody(t *testing.T) {
	store := &fakeStore{}
	router := setupProxyRouter(store, common.RoleAdmin)

	w := postProxy(t, router, Request{
		Operation: "dropDatabase",
		Args:      []interface{}{"appdb", "services"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Unsupported operation: dropDatabase", body["error"])
	_, hasDetails := body["details"]
	assert.False(t, hasDetails)
	assert.Empty(t, store.calls)
}

func TestProxyEndpoint_SuccessWrapsResult(t *testing.T) {
	store := &fakeStore{countResult: 42}
	router := setupProxyRouter(store, common.RoleCustomer)

	w := postProxy(t, router, Request{
		Operation: OpCount,
		Args:      []interface{}{"appdb", "services"},
	})

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(42), body["result"])
}

func TestProxyEndpoint_StoreFailureBody(t *testing.T) {
	store := &fakeStore{err: assert.AnError}
	router := setupProxyRouter(store, common.RoleCustomer)

	w := postProxy(t, router, Request{
		Operation: OpFind,
		Args:      []interface{}{"appdb", "services"},
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Database operation failed", body["error"])
	assert.NotEmpty(t, body["details"])
}

func TestProxyEndpoint_MalformedBody(t *testing.T) {
	store := &fakeStore{}
	router := setupProxyRouter(store, common.RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/api/mongodb", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.calls)
}

func TestProxyHealth(t *testing.T) {
	t.Run("connected", func(t *testing.T) {
		router := setupProxyRouter(&fakeStore{}, common.RoleCustomer)

		req := httptest.NewRequest(http.MethodGet, "/api/mongodb", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "connected", body["status"])
		assert.NotEmpty(t, body["timestamp"])
	})

	t.Run("store down", func(t *testing.T) {
		router := setupProxyRouter(&fakeStore{err: assert.AnError}, common.RoleCustomer)

		req := httptest.NewRequest(http.MethodGet, "/api/mongodb", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "error", body["status"])
	})
}
