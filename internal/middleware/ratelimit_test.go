package middleware

import (
  "net/http"
  "net/http/httptest"
  "testing"
  "time"

  "github.com/gin-gonic/gin"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/uofg-market/marketplace-backend/internal/logger"
)

func newRateLimitedRouter(t *testing.T) *gin.Engine {
  t.Helper()
  gin.SetMode(gin.TestMode)
  rl, err := NewRateLimitMiddleware(logger.NewNop(), nil)
  require.NoError(t, err)

  ok := func(c *gin.Context) { c.Status(http.StatusOK) }
  router := gin.New()
  router.POST("/register", rl.Limit(5, time.Minute), ok)
  router.POST("/verify-otp", rl.Limit(10, time.Minute), ok)
  return router
}

func post(router *gin.Engine, path string) *httptest.ResponseRecorder {
  req := httptest.NewRequest(http.MethodPost, path, nil)
  rec := httptest.NewRecorder()
  router.ServeHTTP(rec, req)
  return rec
}

func TestLimitCapsRequestsPerIP(t *testing.T) {
  router := newRateLimitedRouter(t)

  for i := 0; i < 5; i++ {
    rec := post(router, "/register")
    require.Equal(t, http.StatusOK, rec.Code, "request %d should be inside the budget", i+1)
  }
  rec := post(router, "/register")
  assert.Equal(t, http.StatusTooManyRequests, rec.Code)
  assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestLimitBudgetsAreIndependentPerRoute(t *testing.T) {
  router := newRateLimitedRouter(t)

  // Burn more verify-otp requests than the register budget allows.
  for i := 0; i < 6; i++ {
    rec := post(router, "/verify-otp")
    require.Equal(t, http.StatusOK, rec.Code)
  }

  // The register budget must be untouched by verify-otp traffic.
  rec := post(router, "/register")
  assert.Equal(t, http.StatusOK, rec.Code)
  assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
}
