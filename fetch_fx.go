package ibcapuk

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

// frankfurterURL serves the ECB daily reference rates as JSON.
const frankfurterURL = "https://api.frankfurter.dev/v1"

// FetchRates downloads the daily conversion rates from a currency to
// the reporting currency over a date range. The API publishes one rate
// per trading day; weekends and bank holidays have no row, which the
// RateHistory staleness policy deals with at lookup time.
func FetchRates(client *http.Client, currency, reportingCurrency string, period Range) ([]RatePoint, error) {
	addr := fmt.Sprintf("%s/%s..%s?base=%s&symbols=%s",
		frankfurterURL, period.From, period.To,
		url.QueryEscape(currency), url.QueryEscape(reportingCurrency))

	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("error fetching %s rates: %w", currency, err)
	}

	jval, err := jsonpath.Get("$.rates", jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s rates: %w", currency, err)
	}
	days, ok := jval.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %s rates: $.rates is not an object", currency)
	}

	var points []RatePoint
	for day, jrates := range days {
		on, err := ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("error parsing %s rates: %w", currency, err)
		}
		rates, ok := jrates.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("error parsing %s rates on %s: not an object", currency, day)
		}
		value, ok := rates[reportingCurrency].(float64)
		if !ok {
			return nil, fmt.Errorf("error parsing %s rates on %s: no %s value", currency, day, reportingCurrency)
		}
		points = append(points, RatePoint{On: on, Rate: decimal.NewFromFloat(value)})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].On.Before(points[j].On) })
	return points, nil
}

// DailyClient returns an HTTP client caching responses on disk with a
// daily expiry, so re-running reports does not hammer the rates API.
func DailyClient() *http.Client {
	client := new(http.Client)
	client.Transport = &diskCache{http.DefaultTransport}
	return client
}

// diskCache implements a simple disk cache for HTTP responses.
type diskCache struct {
	base http.RoundTripper
}

func (c *diskCache) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	// the key includes today's date, so cached entries expire daily.
	key := fmt.Sprintf("%s %s %s", Today(), req.Method, req.URL.String())
	key = fmt.Sprintf("%x", sha1.Sum([]byte(key)))

	cachedResp, err := c.get(key, req)
	if err == nil { // Cache hit
		return cachedResp, nil
	}

	resp, err = c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	log.Printf("%v %v%v %v", resp.Request.Method, resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	if resp.StatusCode >= 300 {
		return resp, nil
	}

	if err := c.put(key, resp); err != nil {
		log.Printf("cache write err (ignored): %v", err)
	}
	return resp, nil
}

// get retrieves a cached response from disk.
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(os.TempDir(), key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewBuffer(content)), req)
}

// put stores a response to the disk cache.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(os.TempDir(), key), content, 0644)
}

// jwget performs an HTTP GET request and unmarshals the JSON response
// into the provided data structure.
func jwget(client *http.Client, addr string, data any) error {
	resp, err := client.Get(addr)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, data)
}
