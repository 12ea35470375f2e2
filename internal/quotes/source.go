package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a single price observation for a symbol.
type Quote struct {
	Price     decimal.Decimal
	Change24h decimal.Decimal // percent
	At        time.Time
}

// Source provides price quotes for asset symbols.
type Source interface {
	Quote(ctx context.Context, symbol string) (Quote, error)
}

// HTTPSource fetches quotes from a JSON endpoint. The URL template must
// contain the placeholder {symbol}, e.g.
//
//	https://quotes.example.com/v1/quote/{symbol}
//
// and the endpoint must answer with a body of the form
//
//	{"price": "123.45", "change24h": "-0.7"}
type HTTPSource struct {
	URLTemplate string
	Client      *http.Client
}

// NewHTTPSource returns an HTTPSource with a sensible request timeout.
func NewHTTPSource(urlTemplate string) *HTTPSource {
	return &HTTPSource{
		URLTemplate: urlTemplate,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (s *HTTPSource) Quote(ctx context.Context, symbol string) (Quote, error) {
	url := strings.ReplaceAll(s.URLTemplate, "{symbol}", symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Quote{}, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return Quote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("quote request for %s returned %s", symbol, resp.Status)
	}

	var body struct {
		Price     decimal.Decimal `json:"price"`
		Change24h decimal.Decimal `json:"change24h"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Quote{}, fmt.Errorf("could not decode quote for %s: %w", symbol, err)
	}

	return Quote{
		Price:     body.Price,
		Change24h: body.Change24h,
		At:        time.Now().In(time.UTC),
	}, nil
}
