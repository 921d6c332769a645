package currency

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kittipat-l/couture-backend/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func geoServer(countryName, countryCode string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"country_name": countryName,
			"country_code": countryCode,
			"city":         "Test City",
			"region":       "Test Region",
		})
	}))
}

func ratesServer(rates map[string]float64) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"rates": rates})
	}))
}

func downServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
}

func TestResolve_NoConsentStaysDefault(t *testing.T) {
	r := NewResolver("AED", 6*time.Hour, "http://unused", "http://unused", "http://unused", storage.NewMemoryStore(), testLogger())

	st := r.Resolve(context.Background())
	if st.Code != "AED" || st.Rate != 1 || st.Source != SourceDefault {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestResolve_BothRateSourcesDown(t *testing.T) {
	geo := geoServer("France", "FR")
	defer geo.Close()
	down1 := downServer()
	defer down1.Close()
	down2 := downServer()
	defer down2.Close()

	r := NewResolver("AED", 6*time.Hour, geo.URL, down1.URL, down2.URL, storage.NewMemoryStore(), testLogger())
	st := r.SetConsent(context.Background(), true)

	if st.Code != "AED" || st.Rate != 1 || st.Source != SourceFallback {
		t.Fatalf("expected base-currency fallback, got %+v", st)
	}
	if formatted := r.Format(5000); !strings.Contains(formatted, "AED") {
		t.Errorf("expected base currency in %q", formatted)
	}
}

func TestResolve_GeoCurrency(t *testing.T) {
	geo := geoServer("United States", "US")
	defer geo.Close()
	rates := ratesServer(map[string]float64{"USD": 0.2723})
	defer rates.Close()

	r := NewResolver("AED", 6*time.Hour, geo.URL, rates.URL, rates.URL, storage.NewMemoryStore(), testLogger())
	st := r.SetConsent(context.Background(), true)

	if st.Code != "USD" {
		t.Errorf("expected USD, got %q", st.Code)
	}
	if st.Rate != 0.2723 {
		t.Errorf("expected rate 0.2723, got %v", st.Rate)
	}
	if st.Source != SourceGeo {
		t.Errorf("expected geo source, got %q", st.Source)
	}
}

func TestResolve_ManualSelection(t *testing.T) {
	rates := ratesServer(map[string]float64{"GBP": 0.215})
	defer rates.Close()

	r := NewResolver("AED", 6*time.Hour, "http://unused", rates.URL, rates.URL, storage.NewMemoryStore(), testLogger())
	st := r.SetLocation(context.Background(), Location{Country: "United Kingdom"})

	if st.Code != "GBP" || st.Source != SourceManual {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestRateCache_ReusedWithinTTL(t *testing.T) {
	geo := geoServer("United States", "US")
	defer geo.Close()

	var hits int64
	rates := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&hits, 1)
		json.NewEncoder(w).Encode(map[string]interface{}{"rates": map[string]float64{"USD": 0.27}})
	}))
	defer rates.Close()

	r := NewResolver("AED", 6*time.Hour, geo.URL, rates.URL, rates.URL, storage.NewMemoryStore(), testLogger())
	r.SetConsent(context.Background(), true)
	r.Resolve(context.Background())
	r.Resolve(context.Background())

	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Errorf("expected a single upstream fetch, got %d", got)
	}
}

func TestRateCache_StaleServedWhileRevalidating(t *testing.T) {
	geo := geoServer("United States", "US")
	defer geo.Close()
	rates := ratesServer(map[string]float64{"USD": 0.30})
	defer rates.Close()

	store := storage.NewMemoryStore()
	stale, _ := json.Marshal(rateRecord{Code: "USD", Rate: 0.25, UpdatedAt: time.Now().Add(-7 * time.Hour)})
	store.Set(context.Background(), rateCacheKey("USD"), stale)

	r := NewResolver("AED", 6*time.Hour, geo.URL, rates.URL, rates.URL, store, testLogger())
	st := r.SetConsent(context.Background(), true)

	if st.Rate != 0.25 {
		t.Fatalf("expected the stale rate to be served immediately, got %v", st.Rate)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if rec, ok := r.readCache(context.Background(), "USD"); ok && rec.Rate == 0.30 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("background refresh never updated the cache")
}

func TestFormat_UnknownCodeFallsBack(t *testing.T) {
	r := NewResolver("AED", 6*time.Hour, "", "", "", storage.NewMemoryStore(), testLogger())
	r.setState(State{Code: "ZZZ", Rate: 2, Source: SourceManual}, Resolved)

	if got := r.Format(5000); got != "ZZZ 100.00" {
		t.Errorf("expected plain fallback rendering, got %q", got)
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	r := NewResolver("AED", 6*time.Hour, "", "", "", storage.NewMemoryStore(), testLogger())

	for _, rate := range []float64{0.2723, 3.6725, 1, 0.00037} {
		r.setState(State{Code: "USD", Rate: rate, Source: SourceManual}, Resolved)
		const amount = 5000
		back := r.Convert(amount) / rate * 100
		if math.Abs(back-amount) > 0.5 {
			t.Errorf("rate %v: round trip drifted to %v", rate, back)
		}
	}
}

func TestCurrencyForCountry_FallbackChain(t *testing.T) {
	cases := []struct {
		country, code, want string
	}{
		{"", "SA", "SAR"},
		{"Saudi Arabia", "", "SAR"},
		{"Germany", "", "EUR"},
		{"Atlantis", "", "AED"},
		{"Germany", "US", "USD"}, // code wins over name
	}
	for _, c := range cases {
		if got := CurrencyForCountry(c.country, c.code, "AED"); got != c.want {
			t.Errorf("CurrencyForCountry(%q, %q) = %q, want %q", c.country, c.code, got, c.want)
		}
	}
}
