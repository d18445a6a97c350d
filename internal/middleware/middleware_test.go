package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ventesca/internal/apierror"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret_32_chars_minimum!"

func init() { gin.SetMode(gin.TestMode) }

func signToken(t *testing.T, negocioID, rol, tipo string, dur time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": uuid.NewString(), "negocio_id": negocioID, "username": "testuser",
		"rol": rol, "tipo": tipo,
		"exp": time.Now().Add(dur).Unix(), "iat": time.Now().Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

// ── JWT ──────────────────────────────────────────────────────────────────────

func jwtRouter() *gin.Engine {
	r := gin.New()
	r.Use(JWTAuth(testSecret))
	r.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"negocio_id": NegocioID(c).String()})
	})
	r.GET("/admin", RequireRole("administrador"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	r := jwtRouter()
	negocio := uuid.NewString()

	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", "").Code)

	w := get(r, "/protected", signToken(t, negocio, "vendedor", "access", time.Hour))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), negocio)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", signToken(t, negocio, "vendedor", "access", -time.Second)).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", signToken(t, negocio, "vendedor", "refresh", time.Hour)).Code,
		"refresh tokens cannot call the API")
	assert.Equal(t, http.StatusUnauthorized, get(r, "/protected", signToken(t, "", "vendedor", "access", time.Hour)).Code)
}

func TestRequireRole(t *testing.T) {
	r := jwtRouter()
	negocio := uuid.NewString()

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", signToken(t, negocio, "vendedor", "access", time.Hour)).Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", signToken(t, negocio, "administrador", "access", time.Hour)).Code)
}

// ── Request id ───────────────────────────────────────────────────────────────

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(RequestIDKey)) })

	w := get(r, "/", "")
	generado := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generado)
	assert.NoError(t, err)
	assert.Equal(t, generado, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

// ── Rate limiter ─────────────────────────────────────────────────────────────

func TestRateLimiter_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	r := gin.New()
	r.Use(RateLimiter(rdb, "test", 2, time.Hour))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, get(r, "/", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/", "").Code)
	w := get(r, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, mr.TTL(keys[0]) > 0)
}

func TestRateLimiter_SinRedisDejaPasar(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	r := gin.New()
	r.Use(RateLimiter(rdb, "test", 1, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(r, "/", "").Code)
	}

	r = gin.New()
	r.Use(RateLimiter(nil, "test", 1, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, get(r, "/", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/", "").Code)
}

// ── CORS ─────────────────────────────────────────────────────────────────────

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.example"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://app.example")
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://otro.example")
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

// ── Errores ──────────────────────────────────────────────────────────────────

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/conflicto", func(c *gin.Context) {
		_ = c.Error(apierror.Wrap(apierror.ErrConflict, "código ya registrado"))
	})
	r.GET("/interno", func(c *gin.Context) {
		_ = c.Error(errors.New("pq: connection refused"))
	})

	w := get(r, "/conflicto", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "código ya registrado")

	w = get(r, "/interno", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/", func(c *gin.Context) { panic("boom") })

	w := get(r, "/", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}
