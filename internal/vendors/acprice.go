package vendors

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"pricedb/internal"
	"pricedb/internal/config"
	"pricedb/internal/util"
)

var (
	reNonDigits   = regexp.MustCompile(`[^\d]`)
	rePriceNumber = regexp.MustCompile(`\d+[.,]?\d*`)
)

// ACClient scrapes the Automotive-Connectors shop: search result boxes
// carry a price-break table, otherwise the product detail page does.
type ACClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewACClient(cfg config.Config) *ACClient {
	return &ACClient{
		baseURL:    strings.TrimRight(cfg.ACBaseURL, "/"),
		httpClient: &http.Client{Timeout: time.Duration(cfg.VendorTimeoutMs) * time.Millisecond},
	}
}

func (c *ACClient) Name() string { return "Automotive-Connectors" }

func (c *ACClient) GetQuote(ctx context.Context, part string) (*internal.Quote, error) {
	doc, err := c.fetch(ctx, c.baseURL+"/en/search?search="+url.QueryEscape(part))
	if err != nil {
		return nil, err
	}

	// already on a detail page when the search matched uniquely
	if detail := doc.Find("div.product-detail-main"); detail.Length() > 0 {
		if q := c.quoteFromRows(detail.Find("tr.product-block-prices-row")); q != nil {
			return q, nil
		}
	}

	box := doc.Find("div.product-box").First()
	if box.Length() == 0 {
		return nil, nil
	}
	if q := c.quoteFromRows(box.Find("tr.product-block-prices-row")); q != nil {
		return q, nil
	}

	// no prices in the box, follow the product link to the detail page
	link, ok := box.Find("a.product-name").Attr("href")
	if !ok {
		return nil, nil
	}
	if !strings.HasPrefix(link, "http") {
		link = c.baseURL + link
	}
	detailDoc, err := c.fetch(ctx, link)
	if err != nil {
		return nil, err
	}
	return c.quoteFromRows(detailDoc.Find("tr.product-block-prices-row")), nil
}

func (c *ACClient) fetch(ctx context.Context, target string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("automotive-connectors status %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// quoteFromRows extracts the last price-break row: largest lot size, best
// unit price.
func (c *ACClient) quoteFromRows(rows *goquery.Selection) *internal.Quote {
	if rows.Length() == 0 {
		return nil
	}
	last := rows.Last()

	qty := reNonDigits.ReplaceAllString(strings.TrimSpace(last.Find(".product-block-prices-quantity").Text()), "")
	priceText := strings.TrimSpace(last.Find("td.product-block-prices-cell").Last().Text())

	match := rePriceNumber.FindString(priceText)
	if match == "" {
		return nil
	}
	d, ok := util.ParsePrice(match)
	if !ok {
		return nil
	}

	return &internal.Quote{
		Date:   time.Now(),
		Price:  d.Mul(discountFactor).String(),
		Lot:    qty,
		Source: "Automotive-Connectors (-30%)",
	}
}
