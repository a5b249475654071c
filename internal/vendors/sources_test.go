package vendors

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"pricedb/internal"
	"pricedb/internal/config"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func httpResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestMouserGetQuote(t *testing.T) {
	cfg, _ := config.Load()
	cfg.MouserAPIKey = "test"
	client := NewMouserClient(cfg)
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.Method != http.MethodPost || !strings.Contains(r.URL.Path, "/search/partnumber") {
				t.Fatalf("unexpected request %s %s", r.Method, r.URL)
			}
			return httpResponse(http.StatusOK, `{
				"SearchResults": {"Parts": [{"PriceBreaks": [
					{"Quantity": 100, "Price": "1.50 €"},
					{"Quantity": 1000, "Price": "1,00 €"}
				]}]}
			}`), nil
		}),
	}

	q, err := client.GetQuote(context.Background(), "MX-150")
	if err != nil {
		t.Fatal(err)
	}
	if q == nil {
		t.Fatalf("expected a quote")
	}
	if q.Source != "Mouser (-30%)" || q.Lot != "1000" {
		t.Fatalf("unexpected quote: %+v", q)
	}
	// last break 1.00 discounted by 30%
	if q.Price != "0.7" {
		t.Fatalf("price=%q", q.Price)
	}
}

func TestMouserGetQuoteNoMatch(t *testing.T) {
	cfg, _ := config.Load()
	cfg.MouserAPIKey = "test"
	client := NewMouserClient(cfg)
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return httpResponse(http.StatusOK, `{"SearchResults": {"Parts": []}}`), nil
		}),
	}
	q, err := client.GetQuote(context.Background(), "unknown")
	if err != nil || q != nil {
		t.Fatalf("expected no quote, got %+v err=%v", q, err)
	}
}

func TestACGetQuoteFromSearchBox(t *testing.T) {
	html := `<html><body>
	<div class="product-box">
	  <a class="product-name" href="/en/detail/mx-150">MX 150</a>
	  <table>
	    <tr class="product-block-prices-row">
	      <td class="product-block-prices-quantity">10</td>
	      <td class="product-block-prices-cell">2,00 €</td>
	    </tr>
	    <tr class="product-block-prices-row">
	      <td class="product-block-prices-quantity">500 pcs</td>
	      <td class="product-block-prices-cell">old</td>
	      <td class="product-block-prices-cell">1,00 €</td>
	    </tr>
	  </table>
	</div></body></html>`

	cfg, _ := config.Load()
	client := NewACClient(cfg)
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return httpResponse(http.StatusOK, html), nil
		}),
	}

	q, err := client.GetQuote(context.Background(), "MX-150")
	if err != nil {
		t.Fatal(err)
	}
	if q == nil {
		t.Fatalf("expected a quote")
	}
	if q.Lot != "500" || q.Source != "Automotive-Connectors (-30%)" {
		t.Fatalf("unexpected quote: %+v", q)
	}
	if q.Price != "0.7" {
		t.Fatalf("price=%q", q.Price)
	}
}

func TestACGetQuoteNoProduct(t *testing.T) {
	cfg, _ := config.Load()
	client := NewACClient(cfg)
	client.httpClient = &http.Client{
		Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			return httpResponse(http.StatusOK, `<html><body>nothing here</body></html>`), nil
		}),
	}
	q, err := client.GetQuote(context.Background(), "unknown")
	if err != nil || q != nil {
		t.Fatalf("expected no quote, got %+v err=%v", q, err)
	}
}

type stubSource struct {
	name  string
	quote *internal.Quote
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }
func (s *stubSource) GetQuote(ctx context.Context, part string) (*internal.Quote, error) {
	s.calls++
	return s.quote, s.err
}

func TestFetchServiceFailsSoft(t *testing.T) {
	good := &stubSource{name: "good", quote: &internal.Quote{Price: "1", Source: "good"}}
	broken := &stubSource{name: "broken", err: errors.New("timeout")}
	empty := &stubSource{name: "empty"}

	svc := NewFetchServiceWith(nil, nil, broken, good, empty)
	quotes := svc.GetQuotes(context.Background(), "MX-150")

	if len(quotes) != 1 || quotes[0].Source != "good" {
		t.Fatalf("quotes=%+v", quotes)
	}
	if broken.calls != 1 || empty.calls != 1 {
		t.Fatalf("all sources must be asked")
	}
}

func TestFetchServiceCancelled(t *testing.T) {
	src := &stubSource{name: "x", quote: &internal.Quote{Price: "1", Source: "x"}}
	svc := NewFetchServiceWith(nil, nil, src)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if quotes := svc.GetQuotes(ctx, "MX-150"); len(quotes) != 0 {
		t.Fatalf("quotes=%+v", quotes)
	}
	if src.calls != 0 {
		t.Fatalf("cancelled run must not query sources")
	}
}

func TestOctopartRequiresCredentials(t *testing.T) {
	cfg, _ := config.Load()
	cfg.NexarClientID = "client"
	cfg.NexarClientSecret = ""
	if _, err := NewOctopartClient(cfg); err == nil || !strings.Contains(err.Error(), "NEXAR_CLIENT_SECRET") {
		t.Fatalf("err=%v", err)
	}

	cfg.NexarClientID = ""
	cfg.NexarClientSecret = "secret"
	if _, err := NewOctopartClient(cfg); err == nil || !strings.Contains(err.Error(), "NEXAR_CLIENT_ID") {
		t.Fatalf("err=%v", err)
	}

	cfg.NexarClientID = "client"
	cfg.NexarClientSecret = "secret"
	if _, err := NewOctopartClient(cfg); err != nil {
		t.Fatal(err)
	}
}

func TestFetchServiceEmptyPart(t *testing.T) {
	src := &stubSource{name: "x"}
	svc := NewFetchServiceWith(nil, nil, src)
	if quotes := svc.GetQuotes(context.Background(), ""); quotes != nil {
		t.Fatalf("quotes=%+v", quotes)
	}
	if src.calls != 0 {
		t.Fatalf("empty part must not be queried")
	}
}
