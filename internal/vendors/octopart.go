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
	"golang.org/x/oauth2/clientcredentials"

	"pricedb/internal"
	"pricedb/internal/config"
)

// fallbackUSDToEUR is used when the exchange-rate service is unreachable.
var fallbackUSDToEUR = decimal.NewFromFloat(0.92)

const octopartQuery = `
query Search($mpn: String!) {
  supSearch(q: $mpn, limit: 1) {
    results {
      part {
        sellers {
          offers {
            prices {
              quantity
              price
              currency
            }
          }
        }
      }
    }
  }
}`

// OctopartClient queries the Octopart catalog through the Nexar GraphQL
// API, authenticating with OAuth2 client credentials.
type OctopartClient struct {
	apiURL     string
	fxRateURL  string
	httpClient *http.Client
	timeout    time.Duration
}

func NewOctopartClient(cfg config.Config) (*OctopartClient, error) {
	if err := cfg.Require("NEXAR_CLIENT_ID", cfg.NexarClientID); err != nil {
		return nil, err
	}
	if err := cfg.Require("NEXAR_CLIENT_SECRET", cfg.NexarClientSecret); err != nil {
		return nil, err
	}

	creds := clientcredentials.Config{
		ClientID:     cfg.NexarClientID,
		ClientSecret: cfg.NexarClientSecret,
		TokenURL:     cfg.NexarTokenURL,
	}
	timeout := time.Duration(cfg.VendorTimeoutMs) * time.Millisecond
	httpClient := creds.Client(context.Background())
	httpClient.Timeout = timeout
	return &OctopartClient{
		apiURL:     cfg.NexarAPIURL,
		fxRateURL:  cfg.FXRateURL,
		httpClient: httpClient,
		timeout:    timeout,
	}, nil
}

func (c *OctopartClient) Name() string { return "Octopart" }

type octopartPrice struct {
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

type octopartResponse struct {
	Data struct {
		SupSearch struct {
			Results []struct {
				Part struct {
					Sellers []struct {
						Offers []struct {
							Prices []octopartPrice `json:"prices"`
						} `json:"offers"`
					} `json:"sellers"`
				} `json:"part"`
			} `json:"results"`
		} `json:"supSearch"`
	} `json:"data"`
}

func (c *OctopartClient) GetQuote(ctx context.Context, part string) (*internal.Quote, error) {
	body, _ := json.Marshal(map[string]any{
		"query":     octopartQuery,
		"variables": map[string]string{"mpn": part},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
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
		return nil, fmt.Errorf("nexar status %d", resp.StatusCode)
	}

	var parsed octopartResponse
	if err := json.Unmarshal(blob, &parsed); err != nil {
		return nil, err
	}
	results := parsed.Data.SupSearch.Results
	if len(results) == 0 || len(results[0].Part.Sellers) == 0 {
		return nil, nil
	}
	offers := results[0].Part.Sellers[0].Offers
	if len(offers) == 0 {
		return nil, nil
	}

	price, converted := pickPrice(offers[0].Prices)
	if price == nil {
		// no EUR or USD offer at all
		for _, offer := range offers[1:] {
			price, converted = pickPrice(offer.Prices)
			if price != nil {
				break
			}
		}
		if price == nil {
			return nil, nil
		}
	}

	value := decimal.NewFromFloat(price.Price)
	if converted {
		value = value.Mul(c.usdToEUR(ctx))
	}

	return &internal.Quote{
		Date:   time.Now(),
		Price:  value.Mul(discountFactor).String(),
		Lot:    strconv.Itoa(price.Quantity),
		Source: "Octopart (-30%)",
	}, nil
}

// pickPrice prefers a EUR price; a USD price is taken as fallback and
// flagged for conversion.
func pickPrice(prices []octopartPrice) (*octopartPrice, bool) {
	for i := range prices {
		if prices[i].Currency == "EUR" {
			return &prices[i], false
		}
	}
	for i := range prices {
		if prices[i].Currency == "USD" {
			return &prices[i], true
		}
	}
	return nil, false
}

func (c *OctopartClient) usdToEUR(ctx context.Context) decimal.Decimal {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.fxRateURL, nil)
	if err != nil {
		return fallbackUSDToEUR
	}
	client := &http.Client{Timeout: c.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fallbackUSDToEUR
	}
	defer resp.Body.Close()

	var payload struct {
		Rates struct {
			EUR float64 `json:"EUR"`
		} `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Rates.EUR <= 0 {
		return fallbackUSDToEUR
	}
	return decimal.NewFromFloat(payload.Rates.EUR)
}
