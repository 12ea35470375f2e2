package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"gorm.io/gorm"
)

// InvestmentAccount is a deposit pool that allocations draw from.
type InvestmentAccount struct {
	DefaultModel
	Name          string
	Note          string
	Currency      string          `gorm:"default:EUR"`
	TotalDeposits decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Archived      bool
}

func (i *InvestmentAccount) BeforeSave(_ *gorm.DB) error {
	i.Name = strings.TrimSpace(i.Name)
	i.Note = strings.TrimSpace(i.Note)
	i.Currency = strings.ToUpper(strings.TrimSpace(i.Currency))

	if i.Currency == "" {
		i.Currency = "EUR"
	}

	if _, err := currency.ParseISO(i.Currency); err != nil {
		return ErrCurrencyInvalid
	}

	return nil
}

// ActiveAllocations returns all active allocations of the account with their
// assets preloaded.
func (i InvestmentAccount) ActiveAllocations(db *gorm.DB) ([]Allocation, error) {
	var allocations []Allocation
	err := db.
		Preload("Asset").
		Where(&Allocation{InvestmentAccountID: i.ID, Active: true}, "InvestmentAccountID", "Active").
		Find(&allocations).Error

	return allocations, err
}

// Export returns all investment accounts on this instance for export.
func (InvestmentAccount) Export() (json.RawMessage, error) {
	var accounts []InvestmentAccount
	err := DB.Unscoped().Where(&InvestmentAccount{}).Find(&accounts).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&accounts)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
