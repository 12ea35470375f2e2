package portfolio

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pennywise/backend/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// SortOrder determines the order of asset search results.
type SortOrder string

const (
	SortByName       SortOrder = "name"
	SortByPriceAsc   SortOrder = "priceAsc"
	SortByPriceDesc  SortOrder = "priceDesc"
	SortByMarketCap  SortOrder = "marketCap"
	SortByVolume     SortOrder = "volume"
	SortByGainers    SortOrder = "gainers"
	SortByLosers     SortOrder = "losers"
)

// popularSymbols always count as popular regardless of market cap or update
// frequency.
var popularSymbols = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA", "META",
	"BTC", "ETH", "SOL",
	"SPY", "VOO", "VWCE", "IWDA",
}

// popularMarketCap is the market cap above which an asset counts as popular.
var popularMarketCap = decimal.NewFromInt(1_000_000_000)

// SearchOptions filter and order the asset catalog.
type SearchOptions struct {
	Query           string             // Case-insensitive substring on name or symbol
	Types           []models.AssetType // Empty means all types
	ExcludeAssetIDs []uuid.UUID        // Assets already allocated in the target account
	PopularOnly     bool
	SortBy          SortOrder
}

// Search filters and sorts the asset catalog for display.
//
// An asset is included when all of the following hold: the query matches
// name or symbol, its type is in the selected set, it is not excluded, and
// (if PopularOnly) it is popular. Missing numeric fields compare as zero.
func Search(assets []models.Asset, opts SearchOptions) []models.Asset {
	query := strings.ToLower(strings.TrimSpace(opts.Query))

	filtered := make([]models.Asset, 0, len(assets))
	for _, asset := range assets {
		if query != "" &&
			!strings.Contains(strings.ToLower(asset.Name), query) &&
			!strings.Contains(strings.ToLower(asset.Symbol), query) {
			continue
		}

		if len(opts.Types) > 0 && !slices.Contains(opts.Types, asset.Type) {
			continue
		}

		if slices.Contains(opts.ExcludeAssetIDs, asset.ID) {
			continue
		}

		if opts.PopularOnly && !popular(asset) {
			continue
		}

		filtered = append(filtered, asset)
	}

	sortAssets(filtered, opts.SortBy)

	return filtered
}

// popular reports whether an asset passes the "popular only" predicate.
func popular(asset models.Asset) bool {
	if asset.MarketCap.GreaterThan(popularMarketCap) {
		return true
	}

	if asset.UpdateFrequency == models.UpdateRealtime {
		return true
	}

	return slices.Contains(popularSymbols, asset.Symbol)
}

func sortAssets(assets []models.Asset, order SortOrder) {
	switch order {
	case SortByPriceAsc:
		slices.SortStableFunc(assets, func(a, b models.Asset) int {
			return a.CurrentPrice.Cmp(b.CurrentPrice)
		})
	case SortByPriceDesc:
		slices.SortStableFunc(assets, func(a, b models.Asset) int {
			return b.CurrentPrice.Cmp(a.CurrentPrice)
		})
	case SortByMarketCap:
		slices.SortStableFunc(assets, func(a, b models.Asset) int {
			return b.MarketCap.Cmp(a.MarketCap)
		})
	case SortByVolume:
		slices.SortStableFunc(assets, func(a, b models.Asset) int {
			return b.Volume24h.Cmp(a.Volume24h)
		})
	case SortByGainers:
		slices.SortStableFunc(assets, func(a, b models.Asset) int {
			return b.Change24h.Cmp(a.Change24h)
		})
	case SortByLosers:
		slices.SortStableFunc(assets, func(a, b models.Asset) int {
			return a.Change24h.Cmp(b.Change24h)
		})
	default:
		// Lexicographic by name
		slices.SortStableFunc(assets, func(a, b models.Asset) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	}
}
