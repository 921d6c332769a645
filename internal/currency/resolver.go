package currency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/kittipat-l/couture-backend/internal/storage"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrRateFetch is non-fatal: callers fall back to the base currency.
var ErrRateFetch = errors.New("exchange rate unavailable")

// Phase tracks the resolver lifecycle.
type Phase int

const (
	Uninitialized Phase = iota
	Default
	Resolved
	Stale
)

type rateRecord struct {
	Code      string    `json:"code"`
	Rate      float64   `json:"rate"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Resolver decides the display currency and keeps the exchange rate warm.
// It must never block or fail commerce: every path degrades to the base
// currency at rate 1.
type Resolver struct {
	base         string
	ttl          time.Duration
	client       *http.Client
	geoURL       string
	primaryURL   string
	secondaryURL string
	store        storage.KV
	log          *slog.Logger

	mu         sync.Mutex
	state      State
	phase      Phase
	consent    bool
	manual     *Location
	refreshing bool
}

func NewResolver(base string, ttl time.Duration, geoURL, primaryURL, secondaryURL string, store storage.KV, log *slog.Logger) *Resolver {
	return &Resolver{
		base:         base,
		ttl:          ttl,
		client:       &http.Client{Timeout: 10 * time.Second},
		geoURL:       geoURL,
		primaryURL:   primaryURL,
		secondaryURL: secondaryURL,
		store:        store,
		log:          log,
		state:        State{Code: base, Rate: 1, Source: SourceDefault},
		phase:        Uninitialized,
	}
}

// SetConsent records the geolocation consent decision and re-resolves.
func (r *Resolver) SetConsent(ctx context.Context, accepted bool) State {
	r.mu.Lock()
	r.consent = accepted
	r.mu.Unlock()
	return r.Resolve(ctx)
}

// SetLocation records an explicit country selection and re-resolves.
func (r *Resolver) SetLocation(ctx context.Context, loc Location) State {
	r.mu.Lock()
	r.manual = &loc
	r.mu.Unlock()
	return r.Resolve(ctx)
}

// Resolve recomputes the display currency from consent, manual selection
// and geolocation. It never returns an error; failures land on the base
// currency.
func (r *Resolver) Resolve(ctx context.Context) State {
	r.mu.Lock()
	consent := r.consent
	manual := r.manual
	r.mu.Unlock()

	if !consent && manual == nil {
		return r.setState(State{Code: r.base, Rate: 1, Source: SourceDefault}, Default)
	}

	loc := manual
	if loc == nil {
		loc = r.lookupGeo(ctx)
	}

	var country, countryCode string
	if loc != nil {
		country, countryCode = loc.Country, loc.CountryCode
	}
	code := CurrencyForCountry(country, countryCode, r.base)

	rate, fresh, err := r.rateFor(ctx, code)
	if err != nil {
		if code != r.base {
			r.log.Warn("rate fetch failed, serving base currency", "code", code, "error", err)
			return r.setState(State{Code: r.base, Rate: 1, Source: SourceFallback}, Default)
		}
		rate, fresh = 1, true
	}

	source := SourceGeo
	if manual != nil {
		source = SourceManual
	}
	phase := Resolved
	if !fresh {
		phase = Stale
	}
	return r.setState(State{Code: code, Rate: rate, Source: source}, phase)
}

// State returns the current decision without any network traffic.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Resolver) setState(st State, phase Phase) State {
	r.mu.Lock()
	r.state = st
	r.phase = phase
	r.mu.Unlock()
	return st
}

func (r *Resolver) lookupGeo(ctx context.Context) *Location {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.geoURL, nil)
	if err != nil {
		return nil
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var payload struct {
		CountryName string `json:"country_name"`
		CountryCode string `json:"country_code"`
		City        string `json:"city"`
		Region      string `json:"region"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil
	}
	return &Location{
		Country:     payload.CountryName,
		CountryCode: payload.CountryCode,
		City:        payload.City,
		Region:      payload.Region,
	}
}

// rateFor serves the cached rate inside the TTL, serves a stale rate while
// refreshing in the background, and fetches synchronously only on a cold
// cache. The fresh flag is false when the rate came from an expired cache.
func (r *Resolver) rateFor(ctx context.Context, code string) (float64, bool, error) {
	if code == r.base {
		return 1, true, nil
	}

	if rec, ok := r.readCache(ctx, code); ok {
		if time.Since(rec.UpdatedAt) <= r.ttl {
			return rec.Rate, true, nil
		}
		r.startRefresh(code)
		return rec.Rate, false, nil
	}

	rate, err := r.fetchRate(ctx, code)
	if err != nil {
		return 0, false, err
	}
	r.writeCache(ctx, code, rate)
	return rate, true, nil
}

func (r *Resolver) startRefresh(code string) {
	r.mu.Lock()
	if r.refreshing {
		r.mu.Unlock()
		return
	}
	r.refreshing = true
	r.mu.Unlock()

	go func() {
		defer func() {
			r.mu.Lock()
			r.refreshing = false
			r.mu.Unlock()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		rate, err := r.fetchRate(ctx, code)
		if err != nil {
			r.log.Warn("background rate refresh failed", "code", code, "error", err)
			return
		}
		r.writeCache(ctx, code, rate)

		r.mu.Lock()
		if r.state.Code == code {
			r.state.Rate = rate
			r.phase = Resolved
		}
		r.mu.Unlock()
	}()
}

// fetchRate tries the configured sources in order and takes the first
// usable quote.
func (r *Resolver) fetchRate(ctx context.Context, code string) (float64, error) {
	endpoints := []string{
		fmt.Sprintf("%s/%s", r.primaryURL, r.base),
		fmt.Sprintf("%s?base=%s&symbols=%s", r.secondaryURL, r.base, code),
	}

	for _, url := range endpoints {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			continue
		}
		resp, err := r.client.Do(req)
		if err != nil {
			continue
		}
		var payload struct {
			Rates map[string]float64 `json:"rates"`
		}
		decodeErr := json.NewDecoder(resp.Body).Decode(&payload)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || decodeErr != nil {
			continue
		}
		if rate := payload.Rates[code]; rate > 0 {
			return rate, nil
		}
	}
	return 0, ErrRateFetch
}

func rateCacheKey(code string) string {
	return fmt.Sprintf("currency:rate:%s", code)
}

func (r *Resolver) readCache(ctx context.Context, code string) (rateRecord, bool) {
	data, err := r.store.Get(ctx, rateCacheKey(code))
	if err != nil {
		return rateRecord{}, false
	}
	var rec rateRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return rateRecord{}, false
	}
	if rec.Code != code || rec.Rate <= 0 {
		return rateRecord{}, false
	}
	return rec, true
}

func (r *Resolver) writeCache(ctx context.Context, code string, rate float64) {
	data, err := json.Marshal(rateRecord{Code: code, Rate: rate, UpdatedAt: time.Now()})
	if err != nil {
		return
	}
	if err := r.store.Set(ctx, rateCacheKey(code), data); err != nil {
		r.log.Warn("rate cache write failed", "code", code, "error", err)
	}
}

// Convert turns base-currency minor units into display-currency major
// units using the active rate.
func (r *Resolver) Convert(amountMinor int64) float64 {
	st := r.State()
	return float64(amountMinor) / 100 * st.Rate
}

// Format renders a base-currency amount in the display currency. It never
// fails; unknown codes fall back to "<code> <number>".
func (r *Resolver) Format(amountMinor int64) string {
	st := r.State()
	amount := r.Convert(amountMinor)

	unit, err := currency.ParseISO(st.Code)
	if err != nil {
		return fmt.Sprintf("%s %.2f", st.Code, amount)
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", currency.Symbol(unit.Amount(amount)))
}
