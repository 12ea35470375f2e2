package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AssetType classifies a tradeable asset.
type AssetType string

const (
	AssetTypeStock  AssetType = "stock"
	AssetTypeCrypto AssetType = "crypto"
	AssetTypeETF    AssetType = "etf"
)

// UpdateFrequency is the cadence with which an asset price is refreshed.
type UpdateFrequency string

const (
	UpdateRealtime UpdateFrequency = "realtime"
	UpdateHourly   UpdateFrequency = "hourly"
	UpdateDaily    UpdateFrequency = "daily"
)

// Asset is a tradeable instrument in the asset catalog. Prices are written
// by the quotes scheduler, everything else is catalog data.
type Asset struct {
	DefaultModel
	Symbol          string `gorm:"uniqueIndex:asset_symbol"`
	Name            string
	Type            AssetType
	CurrentPrice    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Change24h       decimal.Decimal `gorm:"type:DECIMAL(20,8)"` // percent
	MarketCap       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Volume24h       decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	UpdateFrequency UpdateFrequency `gorm:"default:daily"`
	PricedAt        *time.Time
}

func (a *Asset) BeforeSave(_ *gorm.DB) error {
	a.Symbol = strings.ToUpper(strings.TrimSpace(a.Symbol))
	a.Name = strings.TrimSpace(a.Name)

	switch a.Type {
	case AssetTypeStock, AssetTypeCrypto, AssetTypeETF:
	default:
		return ErrAssetTypeInvalid
	}

	switch a.UpdateFrequency {
	case UpdateRealtime, UpdateHourly, UpdateDaily:
	case "":
		a.UpdateFrequency = UpdateDaily
	default:
		return ErrUpdateFrequencyInvalid
	}

	return nil
}

// SetPrice updates the price fields of the asset.
func (a *Asset) SetPrice(db *gorm.DB, price, change24h decimal.Decimal, at time.Time) error {
	at = at.In(time.UTC)
	return db.Model(a).
		Select("CurrentPrice", "Change24h", "PricedAt").
		Updates(Asset{CurrentPrice: price, Change24h: change24h, PricedAt: &at}).Error
}

// Export returns all assets on this instance for export.
func (Asset) Export() (json.RawMessage, error) {
	var assets []Asset
	err := DB.Unscoped().Where(&Asset{}).Find(&assets).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&assets)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
