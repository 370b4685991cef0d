package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tidecart/internal/apiclient"
	"github.com/tidecart/internal/apiclient/fallback"
	"github.com/tidecart/internal/config"

	"github.com/charmbracelet/lipgloss"
)

func newTestCLI(t *testing.T, baseURL string, clientCfg config.ClientConfig) *shopperCLI {
	t.Helper()
	fixtures, err := fallback.Default()
	if err != nil {
		t.Fatalf("load fixtures failed: %v", err)
	}
	clientCfg.BaseURL = baseURL
	noSleep := apiclient.WithSleep(func(ctx context.Context, d time.Duration) error { return ctx.Err() })
	return &shopperCLI{
		cfg:      &config.Config{Client: clientCfg},
		client:   apiclient.New(clientCfg, noSleep, apiclient.WithTokenSource(apiclient.StaticToken("tok"))),
		fixtures: fixtures,
	}
}

func writeEnvelope(w http.ResponseWriter, code int, msg string, data interface{}) {
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"status_code": code, "msg": msg, "data": data})
}

func TestFetchCatalogFallsBackWhenUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/categories" {
			writeEnvelope(w, 0, "success", []map[string]interface{}{{"id": 9, "slug": "live", "name": "Live"}})
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cli := newTestCLI(t, srv.URL, config.ClientConfig{MaxAttempts: 2, FallbackOnErr: true})
	snapshot, err := cli.fetchCatalog(context.Background(), "")
	if err != nil {
		t.Fatalf("fetch catalog failed: %v", err)
	}
	if len(snapshot.Categories) != 1 || snapshot.Categories[0].Name != "Live" {
		t.Fatalf("categories should come from the API, got %+v", snapshot.Categories)
	}
	if len(snapshot.Products) == 0 || len(snapshot.Slots) == 0 {
		t.Fatalf("products and slots should come from fixtures")
	}
	want := "products trusted-badges delivery-slots"
	if got := strings.Join(snapshot.Fallbacks, " "); got != want {
		t.Fatalf("fallbacks want %s got %s", want, got)
	}
}

func TestFetchCatalogWithoutFallbackFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cli := newTestCLI(t, srv.URL, config.ClientConfig{MaxAttempts: 1, FallbackOnErr: false})
	if _, err := cli.fetchCatalog(context.Background(), ""); err == nil {
		t.Fatalf("want error when fallback disabled")
	}
}

func TestFetchCatalogAlwaysMockSkipsNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	cli := newTestCLI(t, srv.URL, config.ClientConfig{AlwaysMock: true})
	snapshot, err := cli.fetchCatalog(context.Background(), "")
	if err != nil {
		t.Fatalf("fetch catalog failed: %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("always mock should not call the API, calls=%d", calls)
	}
	if len(snapshot.Fallbacks) != 4 {
		t.Fatalf("every section should be fixture data, got %v", snapshot.Fallbacks)
	}

	var out bytes.Buffer
	printCatalog(&out, snapshot)
	if !strings.Contains(out.String(), "Silver Pomfret") {
		t.Fatalf("printed catalog missing fixture product: %s", out.String())
	}
}

func checkoutServer(t *testing.T, paymentFails bool, seenKey *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(checkoutHandler(paymentFails, seenKey))
}

func checkoutHandler(paymentFails bool, seenKey *string) http.HandlerFunc {
	view := func(step int, lastError, orderNo string) map[string]interface{} {
		return map[string]interface{}{
			"state":          map[string]interface{}{"step": step, "last_error": lastError, "order_no": orderNo},
			"delivery_slots": []map[string]interface{}{{"id": 3, "display": "Full", "available": false}, {"id": 4, "display": "Open", "available": true}},
			"cart":           map[string]interface{}{"items": []interface{}{}, "summary": map[string]string{"total": "589"}, "currency": "INR"},
		}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/checkout/reset":
			writeEnvelope(w, 0, "success", view(1, "", ""))
		case "/checkout/address":
			writeEnvelope(w, 0, "success", view(2, "", ""))
		case "/checkout/slot":
			var body map[string]uint
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["slot_id"] != 4 {
				writeEnvelope(w, 409, "slot unavailable", map[string]interface{}{"checkout": view(2, "", "")})
				return
			}
			writeEnvelope(w, 0, "success", view(2, "", ""))
		case "/checkout/continue":
			writeEnvelope(w, 0, "success", view(3, "", ""))
		case "/checkout/payment":
			*seenKey = r.Header.Get("Idempotency-Key")
			if paymentFails {
				writeEnvelope(w, 500, "checkout failed", map[string]interface{}{"checkout": view(3, "payment gateway timeout", "")})
				return
			}
			writeEnvelope(w, 0, "success", view(4, "", "TC202610190001"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

func TestRunCheckoutPicksAvailableSlot(t *testing.T) {
	var key string
	srv := checkoutServer(t, false, &key)
	defer srv.Close()

	cli := newTestCLI(t, srv.URL, config.ClientConfig{MaxAttempts: 1})
	var out bytes.Buffer
	form := addressForm{Name: "Anil", Phone: "98", Address: "4 Harbour Rd", City: "Mangaluru", State: "KA", Pincode: "575001"}
	if err := cli.runCheckout(context.Background(), &out, form, 0, "upi", "cli-key-1", false); err != nil {
		t.Fatalf("checkout failed: %v\n%s", err, out.String())
	}
	if key != "cli-key-1" {
		t.Fatalf("idempotency key want cli-key-1 got %q", key)
	}
	if !strings.Contains(out.String(), "delivery slot 4 selected") || !strings.Contains(out.String(), "order TC202610190001 confirmed") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRunCheckoutReportsPaymentFailure(t *testing.T) {
	var key string
	srv := checkoutServer(t, true, &key)
	defer srv.Close()

	cli := newTestCLI(t, srv.URL, config.ClientConfig{MaxAttempts: 1})
	var out bytes.Buffer
	err := cli.runCheckout(context.Background(), &out, addressForm{Pincode: "575001"}, 4, "UPI", "cli-key-2", false)
	if err == nil || !strings.Contains(err.Error(), "payment gateway timeout") {
		t.Fatalf("want last_error in failure, got %v", err)
	}
	if !strings.Contains(out.String(), "retry with --key cli-key-2") {
		t.Fatalf("failure output should print retry key:\n%s", out.String())
	}
}

func TestRunCheckoutRetryReplaysPlacedOrder(t *testing.T) {
	var restarted int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/checkout/payment":
			if r.Header.Get("Idempotency-Key") != "cli-key-3" {
				writeEnvelope(w, 400, "bad request", nil)
				return
			}
			writeEnvelope(w, 0, "success", map[string]interface{}{
				"state":  map[string]interface{}{"step": 4, "order_no": "TC202610190007"},
				"result": map[string]interface{}{"success": true, "order_no": "TC202610190007", "replayed": true},
			})
		default:
			atomic.AddInt32(&restarted, 1)
			writeEnvelope(w, 400, "cart is empty", nil)
		}
	}))
	defer srv.Close()

	cli := newTestCLI(t, srv.URL, config.ClientConfig{MaxAttempts: 1})
	var out bytes.Buffer
	if err := cli.runCheckout(context.Background(), &out, addressForm{Pincode: "575001"}, 4, "UPI", "cli-key-3", true); err != nil {
		t.Fatalf("retry should report the placed order, got %v\n%s", err, out.String())
	}
	if n := atomic.LoadInt32(&restarted); n != 0 {
		t.Fatalf("retry must not restart the wizard, other calls=%d", n)
	}
	if !strings.Contains(out.String(), "order TC202610190007 was already placed with --key cli-key-3") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRunCheckoutRetryStartsOverWhenNotOnPayment(t *testing.T) {
	var key string
	var payments int32
	wizard := checkoutHandler(false, &key)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/checkout/payment" && atomic.AddInt32(&payments, 1) == 1 {
			writeEnvelope(w, 409, "action not allowed at current checkout step", map[string]interface{}{
				"checkout": map[string]interface{}{"state": map[string]interface{}{"step": 1}},
			})
			return
		}
		wizard(w, r)
	}))
	defer srv.Close()

	cli := newTestCLI(t, srv.URL, config.ClientConfig{MaxAttempts: 1})
	var out bytes.Buffer
	form := addressForm{Name: "Anil", Phone: "98", Address: "4 Harbour Rd", City: "Mangaluru", State: "KA", Pincode: "575001"}
	if err := cli.runCheckout(context.Background(), &out, form, 0, "upi", "cli-key-4", true); err != nil {
		t.Fatalf("checkout failed: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "starting over") || !strings.Contains(out.String(), "order TC202610190001 confirmed") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if key != "cli-key-4" {
		t.Fatalf("full run should reuse the retry key, got %q", key)
	}
}

func TestPrintCartRendersAlignedTable(t *testing.T) {
	var out bytes.Buffer
	printCart(&out, cartView{
		Items: []cartLine{
			{ProductID: 3, Name: "Tiger Prawns", UnitPrice: "620.00", Quantity: 2},
			{ProductID: 12, Name: "Seer Fish Steaks", UnitPrice: "899.00", Quantity: 1},
		},
		Summary:  cartSummary{Subtotal: "2139.00", DeliveryFee: "0.00", Discount: "0.00", Total: "2139.00"},
		Currency: "INR",
	})
	text := out.String()
	for _, want := range []string{"QTY", "Tiger Prawns", "Seer Fish Steaks", "total 2139.00 INR"} {
		if !strings.Contains(text, want) {
			t.Fatalf("cart output missing %q:\n%s", want, text)
		}
	}
	table := strings.Split(strings.TrimSpace(strings.SplitN(text, "\n\n", 2)[0]), "\n")
	width := lipgloss.Width(table[0])
	for _, line := range table {
		if lipgloss.Width(line) != width {
			t.Fatalf("table rows should share one width, want %d got %d in %q", width, lipgloss.Width(line), line)
		}
	}
}

func TestExplainUnauthorized(t *testing.T) {
	err := explain(&apiclient.APIError{Status: 200, Code: 401, Message: "unauthorized"})
	if err == nil || !strings.Contains(err.Error(), "shopper login") {
		t.Fatalf("401 should suggest login, got %v", err)
	}
}
