package external

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/aurumview/metals-backend/internal/httputil"
)

// Candidate key lists, scanned in order. Providers disagree on field names,
// so the first convertible match wins — even when several candidates are
// present in the same payload.
var (
	spotPriceKeys      = []string{"price", "xau", "xag", "gold", "silver", "value"}
	combinedGoldKeys   = []string{"gold_oz", "gold", "xau", "price"}
	combinedSilverKeys = []string{"silver_oz", "silver", "xag"}
)

// CombinedQuote is the parsed result of a combined-endpoint payload.
type CombinedQuote struct {
	GoldOz   float64
	SilverOz float64
	Date     string // provider-supplied, may be empty
}

// MetalsClient fetches USD spot prices from the configured provider endpoints.
type MetalsClient struct {
	httpClient *http.Client
	retry      httputil.RetryConfig
	apiKey     string
	authHeader string
}

func NewMetalsClient(apiKey, authHeader string) *MetalsClient {
	if authHeader == "" {
		authHeader = "X-API-Key"
	}
	return &MetalsClient{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		retry: httputil.RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   2 * time.Second,
			MaxDelay:    10 * time.Second,
		},
		apiKey:     apiKey,
		authHeader: authHeader,
	}
}

func (c *MetalsClient) headers() map[string]string {
	if c.apiKey == "" {
		return nil
	}
	return map[string]string{c.authHeader: c.apiKey}
}

// FetchSpotPrice GETs url and extracts a single price from the response.
func (c *MetalsClient) FetchSpotPrice(ctx context.Context, url string) (float64, error) {
	var data map[string]any
	if err := httputil.GetJSON(ctx, c.httpClient, c.retry, url, c.headers(), &data); err != nil {
		return 0, fmt.Errorf("spot price fetch %s: %w", url, err)
	}

	price, ok := extractNumber(data, spotPriceKeys)
	if !ok {
		return 0, fmt.Errorf("could not parse price from %s, response keys: %v", url, payloadKeys(data))
	}
	if price <= 0 {
		return 0, fmt.Errorf("invalid price from %s: %f", url, price)
	}
	return price, nil
}

// FetchCombined GETs a combined endpoint that reports both metals in one
// payload. Missing either value is an error.
func (c *MetalsClient) FetchCombined(ctx context.Context, url string) (*CombinedQuote, error) {
	var data map[string]any
	if err := httputil.GetJSON(ctx, c.httpClient, c.retry, url, c.headers(), &data); err != nil {
		return nil, fmt.Errorf("combined fetch %s: %w", url, err)
	}
	return ParseCombinedPayload(data)
}

// ParseCombinedPayload extracts gold and silver prices (and an optional
// provider date) from a combined payload of unknown shape.
func ParseCombinedPayload(data map[string]any) (*CombinedQuote, error) {
	gold, goldOK := extractNumber(data, combinedGoldKeys)
	silver, silverOK := extractNumber(data, combinedSilverKeys)
	if !goldOK || !silverOK {
		return nil, fmt.Errorf("payload missing gold/silver values, keys: %v", payloadKeys(data))
	}

	q := &CombinedQuote{GoldOz: gold, SilverOz: silver}
	if d, ok := data["date"].(string); ok {
		q.Date = d
	}
	return q, nil
}

// extractNumber returns the first candidate key whose value converts to a
// float64. JSON numbers and numeric strings both count.
func extractNumber(data map[string]any, keys []string) (float64, bool) {
	for _, key := range keys {
		v, ok := data[key]
		if !ok || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func payloadKeys(data map[string]any) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
