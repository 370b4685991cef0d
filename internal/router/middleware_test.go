package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tidecart/internal/config"
	"github.com/tidecart/internal/constants"
	"github.com/tidecart/internal/repository"
	"github.com/tidecart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func decodeStatusCode(t *testing.T, w *httptest.ResponseRecorder) int {
	t.Helper()
	var resp struct {
		StatusCode int `json:"status_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode
}

func TestResolveStorefrontOrigin(t *testing.T) {
	shop := []string{"https://shop.tidecart.in", "https://m.tidecart.in"}
	if got := resolveAllowedOrigin("https://m.tidecart.in", shop, true); got != "https://m.tidecart.in" {
		t.Fatalf("listed origin want https://m.tidecart.in got %s", got)
	}
	if got := resolveAllowedOrigin("https://fishmarket.example", shop, true); got != "" {
		t.Fatalf("unlisted origin should be rejected, got %s", got)
	}
	if got := resolveAllowedOrigin("https://shop.tidecart.in", []string{"*"}, false); got != "*" {
		t.Fatalf("wildcard without credentials want * got %s", got)
	}
	if got := resolveAllowedOrigin("https://shop.tidecart.in", []string{"*"}, true); got != "https://shop.tidecart.in" {
		t.Fatalf("wildcard with credentials should echo origin, got %s", got)
	}
}

func TestCORSPreflightAllowsIdempotencyKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(CORSMiddleware(config.CORSConfig{AllowedOrigins: []string{"https://shop.tidecart.in"}, AllowCredentials: true, MaxAge: 600}))
	r.POST("/api/v1/checkout/payment", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/checkout/payment", nil)
	req.Header.Set("Origin", "https://shop.tidecart.in")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status want 204 got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.tidecart.in" {
		t.Fatalf("allow origin want https://shop.tidecart.in got %s", got)
	}
	if !strings.Contains(w.Header().Get("Access-Control-Allow-Headers"), constants.HeaderIdempotencyKey) {
		t.Fatalf("allow headers should list %s, got %s", constants.HeaderIdempotencyKey, w.Header().Get("Access-Control-Allow-Headers"))
	}
	if got := w.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Fatalf("max age want 600 got %s", got)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/api/v1/checkout", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"request_id": getRequestID(c)})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil)
	req.Header.Set(requestIDHeader, "chk-7f3a")
	r.ServeHTTP(w, req)

	if got := w.Header().Get(requestIDHeader); got != "chk-7f3a" {
		t.Fatalf("response request id want chk-7f3a got %s", got)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	if resp["request_id"] != "chk-7f3a" {
		t.Fatalf("context request id want chk-7f3a got %s", resp["request_id"])
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil))
	if strings.TrimSpace(w2.Header().Get(requestIDHeader)) == "" {
		t.Fatalf("generated request id should not be blank")
	}
}

func TestIdempotencyKeyMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/orders", IdempotencyKeyMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})

	cases := []struct {
		name string
		key  string
		want int
	}{
		{name: "absent", key: "", want: 0},
		{name: "uuid", key: "0b6c2f7e-5d1a-4c1e-9a57-3f0e2d9c1b44", want: 0},
		{name: "inner space", key: "order key", want: 400},
		{name: "non ascii", key: "मछली-1", want: 400},
		{name: "too long", key: strings.Repeat("k", maxIdempotencyKeyLen+1), want: 400},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`))
			if tc.key != "" {
				req.Header.Set(constants.HeaderIdempotencyKey, tc.key)
			}
			r.ServeHTTP(w, req)
			if got := decodeStatusCode(t, w); got != tc.want {
				t.Fatalf("status_code want %d got %d", tc.want, got)
			}
		})
	}
}

func TestUserJWTAuthMiddlewareRejectsBadTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	const secret = "tidecart-user-secret"
	r := gin.New()
	r.Use(UserJWTAuthMiddleware(secret, repository.NewUserRepository(nil)))
	r.GET("/api/v1/cart", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})

	sign := func(key string, userID uint) string {
		claims := service.UserJWTClaims{
			UserID: userID,
			Email:  "meera@tidecart.in",
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		if err != nil {
			t.Fatalf("sign token failed: %v", err)
		}
		return token
	}

	cases := []struct {
		name   string
		header string
	}{
		{name: "missing", header: ""},
		{name: "not bearer", header: "Token " + sign(secret, 7)},
		{name: "wrong secret", header: "Bearer " + sign("other-secret", 7)},
		{name: "no user", header: "Bearer " + sign(secret, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("http status want 200 got %d", w.Code)
			}
			if got := decodeStatusCode(t, w); got != 401 {
				t.Fatalf("status_code want 401 got %d", got)
			}
		})
	}
}

func TestAdminJWTAuthMiddlewareMissingSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware("", nil))
	r.GET("/api/v1/admin/slots", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 0})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/slots", nil))
	if got := decodeStatusCode(t, w); got != 401 {
		t.Fatalf("status_code want 401 got %d", got)
	}
}
