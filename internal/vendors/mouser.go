package vendors

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"pricedb/internal"
	"pricedb/internal/config"
	"pricedb/internal/util"
)

// discountFactor is the negotiated rebate applied to all vendor list
// prices; the source label carries the annotation.
var discountFactor = decimal.NewFromFloat(0.7)

type MouserClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewMouserClient(cfg config.Config) *MouserClient {
	return &MouserClient{
		apiKey:     cfg.MouserAPIKey,
		baseURL:    cfg.MouserBaseURL,
		httpClient: &http.Client{Timeout: time.Duration(cfg.VendorTimeoutMs) * time.Millisecond},
	}
}

func (c *MouserClient) Name() string { return "Mouser" }

type mouserSearchRequest struct {
	SearchByPartRequest struct {
		MouserPartNumber  string `json:"mouserPartNumber"`
		PartSearchOptions string `json:"partSearchOptions"`
	} `json:"SearchByPartRequest"`
}

type mouserSearchResponse struct {
	SearchResults struct {
		Parts []struct {
			PriceBreaks []struct {
				Quantity int    `json:"Quantity"`
				Price    string `json:"Price"`
			} `json:"PriceBreaks"`
		} `json:"Parts"`
	} `json:"SearchResults"`
}

func (c *MouserClient) GetQuote(ctx context.Context, part string) (*internal.Quote, error) {
	if c.apiKey == "" {
		return nil, nil
	}

	var payload mouserSearchRequest
	payload.SearchByPartRequest.MouserPartNumber = part
	payload.SearchByPartRequest.PartSearchOptions = "None"
	body, _ := json.Marshal(payload)

	url := c.baseURL + "/search/partnumber?apiKey=" + c.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("mouser status %d", resp.StatusCode)
	}

	var parsed mouserSearchResponse
	if err := json.Unmarshal(blob, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.SearchResults.Parts) == 0 {
		return nil, nil
	}
	breaks := parsed.SearchResults.Parts[0].PriceBreaks
	if len(breaks) == 0 {
		return nil, nil
	}

	// take the largest lot size, the last price break
	brk := breaks[len(breaks)-1]
	price := brk.Price
	if d, ok := util.ParsePrice(brk.Price); ok {
		price = d.Mul(discountFactor).String()
	}

	return &internal.Quote{
		Date:   time.Now(),
		Price:  price,
		Lot:    strconv.Itoa(brk.Quantity),
		Source: "Mouser (-30%)",
	}, nil
}
