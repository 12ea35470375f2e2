package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pennywise/backend/internal/models"
	"github.com/pennywise/backend/internal/portfolio"
	pw_uuid "github.com/pennywise/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

type AssetEditable struct {
	Symbol          string                 `json:"symbol" example:"AAPL" default:""`                                                                     // Ticker symbol, stored uppercase
	Name            string                 `json:"name" example:"Apple Inc." default:""`                                                                 // Display name
	Type            models.AssetType       `json:"type" example:"stock" default:""`                                                                      // One of stock, crypto, etf
	CurrentPrice    decimal.Decimal        `json:"currentPrice" example:"178.25" minimum:"0" maximum:"999999999999.99999999" multipleOf:"0.00000001"`    // Latest known price
	Change24h       decimal.Decimal        `json:"change24h" example:"-1.3" multipleOf:"0.00000001"`                                                     // Price change over the last 24 hours in percent
	MarketCap       decimal.Decimal        `json:"marketCap" example:"2800000000000" minimum:"0" multipleOf:"0.00000001"`                                // Market capitalization
	Volume24h       decimal.Decimal        `json:"volume24h" example:"51000000" minimum:"0" multipleOf:"0.00000001"`                                     // Trade volume over the last 24 hours
	UpdateFrequency models.UpdateFrequency `json:"updateFrequency" example:"daily" default:"daily"`                                                      // One of realtime, hourly, daily
	PricedAt        *time.Time             `json:"pricedAt" example:"2024-02-20T14:00:00Z"`                                                              // When the price was last refreshed
}

// model returns the database resource for the API representation of the editable fields
func (editable AssetEditable) model() models.Asset {
	return models.Asset{
		Symbol:          editable.Symbol,
		Name:            editable.Name,
		Type:            editable.Type,
		CurrentPrice:    editable.CurrentPrice,
		Change24h:       editable.Change24h,
		MarketCap:       editable.MarketCap,
		Volume24h:       editable.Volume24h,
		UpdateFrequency: editable.UpdateFrequency,
		PricedAt:        editable.PricedAt,
	}
}

type AssetLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/assets/5ca24282-fd9a-44ba-ba64-a8f1a30e9d9a"` // The asset itself
}

type Asset struct {
	models.DefaultModel
	AssetEditable
	Links AssetLinks `json:"links"`
}

// newAsset returns the API v1 representation of the resource
func newAsset(c *gin.Context, model models.Asset) Asset {
	url := c.GetString(string(models.DBContextURL))

	return Asset{
		DefaultModel: model.DefaultModel,
		AssetEditable: AssetEditable{
			Symbol:          model.Symbol,
			Name:            model.Name,
			Type:            model.Type,
			CurrentPrice:    model.CurrentPrice,
			Change24h:       model.Change24h,
			MarketCap:       model.MarketCap,
			Volume24h:       model.Volume24h,
			UpdateFrequency: model.UpdateFrequency,
			PricedAt:        model.PricedAt,
		},
		Links: AssetLinks{
			Self: fmt.Sprintf("%s/v1/assets/%s", url, model.ID),
		},
	}
}

type AssetListResponse struct {
	Data  []Asset `json:"data"`                                                          // List of resources
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AssetCreateResponse struct {
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []AssetResponse `json:"data"`                                                          // List of created resources
}

func (t *AssetCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, AssetResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type AssetResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Asset  `json:"data"`                                                          // The resource
}

type AssetQueryFilter struct {
	Search     string              `form:"search" filterField:"false"`     // Case-insensitive substring match on name or symbol
	Types      []models.AssetType  `form:"types" filterField:"false"`      // Asset types to include. Empty means all types.
	ExcludeFor pw_uuid.UUID        `form:"excludeFor" filterField:"false"` // Exclude assets already allocated in this investment account
	Popular    bool                `form:"popular" filterField:"false"`    // Only return popular assets
	SortBy     portfolio.SortOrder `form:"sortBy" filterField:"false"`     // One of name, priceAsc, priceDesc, marketCap, volume, gainers, losers. Defaults to name.
}
