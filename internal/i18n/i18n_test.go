package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		url    string
		header string
		want   string
	}{
		{name: "default", url: "/", want: LocaleEN},
		{name: "query wins", url: "/?lang=zh", header: "en-US", want: LocaleZH},
		{name: "accept language", url: "/", header: "fr;q=0.9, zh-CN;q=0.8", want: LocaleZH},
		{name: "unknown", url: "/", header: "fr", want: LocaleEN},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", tc.url, nil)
			if tc.header != "" {
				c.Request.Header.Set("Accept-Language", tc.header)
			}
			if got := ResolveLocale(c); got != tc.want {
				t.Fatalf("locale want %s got %s", tc.want, got)
			}
		})
	}
}

func TestTFallsBack(t *testing.T) {
	if got := T("fr-FR", "error.cart_empty"); got != "your cart is empty" {
		t.Fatalf("unexpected fallback: %s", got)
	}
	if got := T(LocaleZH, "error.missing_key"); got != "error.missing_key" {
		t.Fatalf("missing key should echo key, got %s", got)
	}
	if got := Sprintf(LocaleEN, "error.cart_quantity_exceeded", 10); got != "quantity exceeds the per-item limit of 10" {
		t.Fatalf("unexpected sprintf: %s", got)
	}
}
