package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractNumber(t *testing.T) {
	cases := []struct {
		name string
		data map[string]any
		keys []string
		want float64
		ok   bool
	}{
		{"plain number", map[string]any{"price": 2412.5}, spotPriceKeys, 2412.5, true},
		{"numeric string", map[string]any{"xau": "2400.1"}, spotPriceKeys, 2400.1, true},
		{"first match wins", map[string]any{"price": 100.0, "gold": 200.0}, spotPriceKeys, 100, true},
		{"skips null", map[string]any{"price": nil, "value": 31.2}, spotPriceKeys, 31.2, true},
		{"skips non-numeric string", map[string]any{"price": "n/a", "value": 31.2}, spotPriceKeys, 31.2, true},
		{"no candidates", map[string]any{"foo": 1.0}, spotPriceKeys, 0, false},
	}

	for _, tc := range cases {
		got, ok := extractNumber(tc.data, tc.keys)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("%s: got (%f, %v), want (%f, %v)", tc.name, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFetchSpotPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"Gold","price":2412.5,"updatedAt":"2026-08-25T10:00:00Z"}`))
	}))
	defer srv.Close()

	c := NewMetalsClient("", "")
	price, err := c.FetchSpotPrice(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchSpotPrice: %v", err)
	}
	if price != 2412.5 {
		t.Fatalf("expected 2412.5, got %f", price)
	}
}

func TestFetchSpotPrice_NoRecognizedKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quote":2412.5}`))
	}))
	defer srv.Close()

	c := NewMetalsClient("", "")
	if _, err := c.FetchSpotPrice(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for unrecognized keys")
	}
}

func TestFetchSpotPrice_APIKeyHeader(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Access-Token")
		w.Write([]byte(`{"price":30.9}`))
	}))
	defer srv.Close()

	c := NewMetalsClient("secret", "X-Access-Token")
	if _, err := c.FetchSpotPrice(context.Background(), srv.URL); err != nil {
		t.Fatalf("FetchSpotPrice: %v", err)
	}
	if gotHeader != "secret" {
		t.Fatalf("expected API key header, got %q", gotHeader)
	}
}

func TestFetchCombined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"gold":2412.5,"silver":"30.91","date":"2026-08-25"}`))
	}))
	defer srv.Close()

	c := NewMetalsClient("", "")
	q, err := c.FetchCombined(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("FetchCombined: %v", err)
	}
	if q.GoldOz != 2412.5 || q.SilverOz != 30.91 {
		t.Fatalf("unexpected quote: %+v", q)
	}
	if q.Date != "2026-08-25" {
		t.Fatalf("expected provider date, got %q", q.Date)
	}
}

func TestParseCombinedPayload_MissingValues(t *testing.T) {
	cases := []map[string]any{
		{},                       // nothing
		{"gold": 2412.5},         // silver missing
		{"silver": 30.91},        // gold missing
		{"gold": "-", "xag": ""}, // not convertible
	}
	for i, data := range cases {
		if _, err := ParseCombinedPayload(data); err == nil {
			t.Fatalf("case %d: expected error, got none", i)
		}
	}
}

// When several gold candidates are present, the first entry in the
// priority list wins.
func TestParseCombinedPayload_PriorityOrder(t *testing.T) {
	q, err := ParseCombinedPayload(map[string]any{
		"gold_oz": 2400.0,
		"price":   9999.0,
		"silver":  30.0,
	})
	if err != nil {
		t.Fatalf("ParseCombinedPayload: %v", err)
	}
	if q.GoldOz != 2400.0 {
		t.Fatalf("gold_oz should win over price: got %f", q.GoldOz)
	}
}
