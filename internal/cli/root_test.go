package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	write := func(w http.ResponseWriter, statusCode int, data interface{}) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"status_code": statusCode, "msg": "", "data": data})
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/public/products/5", func(w http.ResponseWriter, r *http.Request) {
		write(w, 0, map[string]interface{}{"id": 5, "name": "Колодки тормозные", "part_number": "BP-100", "price_rub": "2500.00", "stock": 10})
	})
	mux.HandleFunc("/api/v1/me/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tkn" {
			t.Errorf("missing bearer token")
		}
		var draft map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&draft)
		if draft["delivery_mode"] != "pickup" || draft["phone"] != "79991234567" {
			t.Errorf("unexpected draft %v", draft)
		}
		write(w, 0, map[string]interface{}{"order_no": "R1", "status": "pending_payment", "items_amount": "5000.00", "delivery_cost": "0.00", "total_amount": "5000.00"})
	})
	mux.HandleFunc("/api/v1/me/orders/R1/pay", func(w http.ResponseWriter, r *http.Request) {
		write(w, 503, nil)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	if cmd.Use != "ramusctl" {
		t.Fatalf("unexpected use %q", cmd.Use)
	}
	for _, name := range []string{"login", "categories", "products", "cart", "garage", "favorites", "cities", "tariffs", "checkout"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub == nil || sub.Name() != name {
			t.Fatalf("command %s missing: %v", name, err)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()
	verbose := cmd.PersistentFlags().Lookup("verbose")
	if verbose == nil || verbose.Shorthand != "v" || verbose.DefValue != "false" {
		t.Fatalf("unexpected verbose flag %+v", verbose)
	}
	format := cmd.PersistentFlags().Lookup("format")
	if format == nil || format.DefValue != "text" {
		t.Fatalf("unexpected format flag %+v", format)
	}
	if server := cmd.PersistentFlags().Lookup("server"); server == nil || server.DefValue != defaultServer {
		t.Fatalf("unexpected server flag %+v", server)
	}
}

func TestInvalidFormatRejected(t *testing.T) {
	if _, err := runCLI(t, "--format", "yaml", "cart"); err == nil || !strings.Contains(err.Error(), "invalid format") {
		t.Fatalf("expected invalid format error, got %v", err)
	}
}

func TestParseProductID(t *testing.T) {
	if id, err := parseProductID(" 42 "); err != nil || id != 42 {
		t.Fatalf("unexpected id=%d err=%v", id, err)
	}
	for _, raw := range []string{"", "0", "-1", "abc"} {
		if _, err := parseProductID(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

type cartOutput struct {
	Status string `json:"status"`
	Data   struct {
		Items []struct {
			ID       uint `json:"id"`
			Quantity int  `json:"quantity"`
		} `json:"items"`
		TotalItems int    `json:"total_items"`
		TotalPrice string `json:"total_price"`
	} `json:"data"`
}

func TestCartPersistsBetweenRuns(t *testing.T) {
	srv := fakeAPI(t)
	stateDB := filepath.Join(t.TempDir(), "state.db")
	base := []string{"--server", srv.URL + "/api/v1", "--state-db", stateDB, "--format", "json"}

	if _, err := runCLI(t, append(base, "cart", "add", "5", "--qty", "3")...); err != nil {
		t.Fatalf("cart add failed: %v", err)
	}
	out, err := runCLI(t, append(base, "cart")...)
	if err != nil {
		t.Fatalf("cart list failed: %v", err)
	}
	var parsed cartOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if parsed.Status != "ok" || len(parsed.Data.Items) != 1 || parsed.Data.Items[0].Quantity != 3 {
		t.Fatalf("unexpected cart %+v", parsed)
	}
	if parsed.Data.TotalPrice != "7500.00" {
		t.Fatalf("unexpected total %s", parsed.Data.TotalPrice)
	}

	if _, err := runCLI(t, append(base, "cart", "set", "5", "0")...); err != nil {
		t.Fatalf("cart set failed: %v", err)
	}
	out, _ = runCLI(t, append(base, "cart")...)
	parsed = cartOutput{}
	_ = json.Unmarshal([]byte(out), &parsed)
	if len(parsed.Data.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", parsed)
	}
}

func TestGarageSetAndClear(t *testing.T) {
	stateDB := filepath.Join(t.TempDir(), "state.db")
	base := []string{"--state-db", stateDB}

	if _, err := runCLI(t, append(base, "garage", "set", "--make", "Lada", "--model", "Vesta", "--year", "2020", "--engine", "1.6")...); err != nil {
		t.Fatalf("garage set failed: %v", err)
	}
	out, err := runCLI(t, append(base, "garage")...)
	if err != nil || !strings.Contains(out, "Lada Vesta 2020 1.6") {
		t.Fatalf("unexpected garage output %q err=%v", out, err)
	}
	if _, err := runCLI(t, append(base, "garage", "clear")...); err != nil {
		t.Fatalf("garage clear failed: %v", err)
	}
	out, _ = runCLI(t, append(base, "garage")...)
	if !strings.Contains(out, "garage is empty") {
		t.Fatalf("expected empty garage, got %q", out)
	}
}

func TestCheckoutPickupDegradesWhenPaymentFails(t *testing.T) {
	srv := fakeAPI(t)
	stateDB := filepath.Join(t.TempDir(), "state.db")
	base := []string{"--server", srv.URL + "/api/v1", "--state-db", stateDB, "--token", "tkn"}

	if _, err := runCLI(t, append(base, "cart", "add", "5", "--qty", "2")...); err != nil {
		t.Fatalf("cart add failed: %v", err)
	}
	out, err := runCLI(t, append(base, "checkout", "--mode", "pickup", "--name", "Иван", "--phone", "8 (999) 123-45-67")...)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if !strings.Contains(out, "R1") || !strings.Contains(out, "менеджер свяжется") {
		t.Fatalf("unexpected checkout output %q", out)
	}
	out, _ = runCLI(t, append(base, "--format", "json", "cart")...)
	var parsed cartOutput
	_ = json.Unmarshal([]byte(out), &parsed)
	if parsed.Data.TotalItems != 0 {
		t.Fatalf("cart should be cleared after order, got %+v", parsed)
	}
}

func TestCheckoutRequiresCityForCourier(t *testing.T) {
	if _, err := runCLI(t, "--state-db", filepath.Join(t.TempDir(), "s.db"), "checkout", "--mode", "courier", "--phone", "+79991234567"); err == nil {
		t.Fatalf("expected city required error")
	}
}
