package rates

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/accounts/date"
	"go.uber.org/zap"
)

// Fetcher gets the latest exchange rates from a remote JSON endpoint.
type Fetcher struct {
	Client *http.Client
	// URL of the endpoint, "{base}" and "{currency}" are replaced by the
	// currency codes, e.g. "https://example.com/latest?from={currency}&to={base}".
	URL string
	// Path is the jsonpath expression of the rate in the response, e.g. "$.rates.EUR".
	// "{base}" and "{currency}" are replaced too.
	Path   string
	Cache  Cache // optional
	Logger *zap.Logger
}

func (f *Fetcher) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger
}

func (f *Fetcher) client() *http.Client {
	if f.Client == nil {
		return http.DefaultClient
	}
	return f.Client
}

// cacheKey implements a unique key per day, so that cached rates expire every day.
func cacheKey(base, currency string) string {
	return fmt.Sprintf("rates:%s:%s%s", date.Today(), currency, base)
}

// Fetch returns the latest value of one unit of currency in base.
func (f *Fetcher) Fetch(ctx context.Context, base, currency string) (float64, error) {
	log := f.logger().With(zap.String("currency", currency), zap.String("base", base))
	key := cacheKey(base, currency)
	if f.Cache != nil {
		rate, ok, err := f.Cache.Get(ctx, key)
		if err != nil {
			log.Warn("rate cache read failed (ignored)", zap.Error(err))
		} else if ok {
			log.Debug("rate cache hit", zap.Float64("rate", rate))
			return rate, nil
		}
	}

	r := strings.NewReplacer("{base}", base, "{currency}", currency)
	addr, path := r.Replace(f.URL), r.Replace(f.Path)

	var jobj any
	if err := jwget(ctx, f.client(), addr, &jobj); err != nil {
		return 0, fmt.Errorf("error fetching %s/%s: %w", currency, base, err)
	}
	rate, err := extract(jobj, path)
	if err != nil {
		return 0, fmt.Errorf("error parsing %s/%s: %w", currency, base, err)
	}
	log.Info("fetched rate", zap.Float64("rate", rate))

	if f.Cache != nil {
		if err := f.Cache.Set(ctx, key, rate, date.Day); err != nil {
			log.Warn("rate cache write failed (ignored)", zap.Error(err))
		}
	}
	return rate, nil
}

// extract reads a positive number at path in a json document.
func extract(jobj any, path string) (float64, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return 0, fmt.Errorf("invalid path %q: %w", path, err)
	}
	// jsonpath is never clear about whether it returns a list of 1 answer, or a
	// single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	var val float64
	switch v := jval.(type) {
	case float64:
		val = v
	case string:
		// some APIs return numbers as strings.
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
		val, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("value at %q is an invalid number %q: %w", path, v, err)
		}
	default:
		return 0, fmt.Errorf("value at %q is not a number: %v", path, jval)
	}
	if val <= 0 {
		return 0, fmt.Errorf("value at %q is not a valid rate: %v", path, val)
	}
	return val, nil
}

// jwget performs an HTTP GET request and unmarshals the JSON response into data.
func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}

// Update fetches today's rate of each currency and records it in the table.
// Currencies that fail are reported together, the others are still recorded.
func (t *Table) Update(ctx context.Context, f *Fetcher, currencies ...string) error {
	today := date.Today()
	var errs error
	for _, currency := range currencies {
		if currency == t.base {
			continue
		}
		rate, err := f.Fetch(ctx, t.base, currency)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		if err := t.Set(currency, today, rate); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

// Cache stores fetched rates for a while.
type Cache interface {
	Get(ctx context.Context, key string) (rate float64, ok bool, err error)
	Set(ctx context.Context, key string, rate float64, ttl time.Duration) error
}
