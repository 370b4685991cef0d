package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newLoginRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "49.36.12.7:40112"
	return req
}

func TestLoginKeyUsesShopperEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = newLoginRequest(`{"email":" Meera@TideCart.in ","password":"pomfret-fry"}`)

	key := KeyByIPAndJSONField("email")(c)
	if key != "meera@tidecart.in|49.36.12.7" {
		t.Fatalf("key want meera@tidecart.in|49.36.12.7 got %s", key)
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		t.Fatalf("read body after key extraction failed: %v", err)
	}
	if !strings.Contains(string(body), "pomfret-fry") {
		t.Fatalf("login body should be restored for the handler, got %s", body)
	}

	c.Request = newLoginRequest(`{"password":"pomfret-fry"}`)
	if key := KeyByIPAndJSONField("email")(c); key != "49.36.12.7" {
		t.Fatalf("missing email should fall back to ip, got %s", key)
	}
}

func loginRouter(client *redis.Client, rule RateLimitRule) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/auth/login", RateLimitMiddleware(client, rule, KeyByIPAndJSONField("email")), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"logged_in": true})
	})
	return r
}

func TestLoginRateLimitWithoutRedisPasses(t *testing.T) {
	r := loginRouter(nil, RateLimitRule{Prefix: "rl:login", WindowSeconds: 300, MaxRequests: 1, BlockSeconds: 900})
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, newLoginRequest(`{"email":"meera@tidecart.in"}`))
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"logged_in":true`) {
			t.Fatalf("attempt %d should reach login handler, got %d %s", i, w.Code, w.Body.String())
		}
	}
}

func TestLoginRateLimitFailsOpenWhenRedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	r := loginRouter(client, RateLimitRule{Prefix: "rl:login", WindowSeconds: 300, MaxRequests: 1, BlockSeconds: 900})
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, newLoginRequest(`{"email":"meera@tidecart.in"}`))
		if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"logged_in":true`) {
			t.Fatalf("attempt %d should pass while redis is down, got %d %s", i, w.Code, w.Body.String())
		}
	}
}

func TestRateLimitRuleBlockWindow(t *testing.T) {
	rule := RateLimitRule{WindowSeconds: 300, MaxRequests: 5, BlockSeconds: 900}
	args := rule.scriptArgs()
	if len(args) != 3 || args[0] != 300 || args[1] != 5 || args[2] != 900 {
		t.Fatalf("script args want [300 5 900] got %v", args)
	}
	if got := (RateLimitRule{WindowSeconds: 60, MaxRequests: 3, BlockSeconds: -10}).scriptArgs(); got[2] != 0 {
		t.Fatalf("negative block window want 0 got %v", got[2])
	}

	if got := rule.waitSeconds(870); got != 870 {
		t.Fatalf("wait inside block window want 870 got %d", got)
	}
	if got := rule.waitSeconds(-1); got != 300 {
		t.Fatalf("missing ttl want window 300 got %d", got)
	}
	if got := (RateLimitRule{}).waitSeconds(0); got != 1 {
		t.Fatalf("wait floor want 1 got %d", got)
	}
}

func TestToInt64(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
		ok    bool
	}{
		{name: "redis integer", input: int64(6), want: 6, ok: true},
		{name: "ttl seconds", input: int(899), want: 899, ok: true},
		{name: "float", input: float64(12.7), want: 12, ok: true},
		{name: "string", input: "6", want: 0, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := toInt64(tc.input)
			if ok != tc.ok {
				t.Fatalf("ok want %v got %v", tc.ok, ok)
			}
			if got != tc.want {
				t.Fatalf("value want %d got %d", tc.want, got)
			}
		})
	}
}
