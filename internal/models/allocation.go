package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Allocation links an investment account to an asset, either as a percentage
// of the deposit pool or as an amount bought at a price.
//
// Selling an allocation deactivates it and records the sold price and date.
// Rows are never removed so that historical reports stay correct.
type Allocation struct {
	DefaultModel
	InvestmentAccountID uuid.UUID
	InvestmentAccount   InvestmentAccount `json:"-"`
	AssetID             uuid.UUID
	Asset               Asset             `json:"-"`
	Percentage          decimal.Decimal   `gorm:"type:DECIMAL(20,8)"`
	PurchasePrice       decimal.Decimal   `gorm:"type:DECIMAL(20,8)"`
	InvestedAmount      decimal.Decimal   `gorm:"type:DECIMAL(20,8)"`
	StartDate           time.Time
	Active              bool `gorm:"default:true"`
	SoldPrice           *decimal.Decimal
	SoldAt              *time.Time
}

func (a *Allocation) BeforeSave(_ *gorm.DB) error {
	if a.Percentage.IsNegative() {
		return ErrAllocationPercentNegative
	}

	if a.StartDate.IsZero() {
		a.StartDate = time.Now().In(time.UTC)
	} else {
		a.StartDate = a.StartDate.In(time.UTC)
	}

	return nil
}

func (a *Allocation) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)
	a.Active = true

	// Validation in BeforeSave has already failed, do not add more errors
	if tx.Error != nil {
		return nil
	}

	toSave := tx.Statement.Dest.(*Allocation)
	err := a.checkIntegrity(tx, *toSave)
	if err != nil {
		return err
	}

	// An asset can only be actively allocated once per account. Sold rows
	// stay in the database and do not block a new allocation.
	var count int64
	err = tx.Model(&Allocation{}).
		Where("investment_account_id = ? AND asset_id = ? AND active = ?", toSave.InvestmentAccountID, toSave.AssetID, true).
		Count(&count).Error
	if err != nil {
		return err
	}

	if count > 0 {
		return ErrAllocationAssetAllocated
	}

	return nil
}

func (a *Allocation) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("InvestmentAccountID") || tx.Statement.Changed("AssetID") {
		toSave := tx.Statement.Dest.(Allocation)
		err := a.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (a *Allocation) checkIntegrity(tx *gorm.DB, toSave Allocation) error {
	err := tx.First(&InvestmentAccount{}, toSave.InvestmentAccountID).Error
	if err != nil {
		return err
	}

	return tx.First(&Asset{}, toSave.AssetID).Error
}

// Sell deactivates the allocation and records the price it was sold at.
func (a *Allocation) Sell(db *gorm.DB, price decimal.Decimal, at time.Time) error {
	if !a.Active {
		return ErrAllocationNotActive
	}

	at = at.In(time.UTC)
	return db.Model(a).
		Select("Active", "SoldPrice", "SoldAt").
		Updates(Allocation{Active: false, SoldPrice: &price, SoldAt: &at}).Error
}

// Export returns all allocations on this instance for export.
func (Allocation) Export() (json.RawMessage, error) {
	var allocations []Allocation
	err := DB.Unscoped().Where(&Allocation{}).Find(&allocations).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&allocations)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
