package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"gorm.io/gorm"
)

// AccountGroup determines where an account shows up in aggregations.
type AccountGroup string

const (
	AccountGroupMain       AccountGroup = "main"
	AccountGroupSavings    AccountGroup = "savings"
	AccountGroupInvestment AccountGroup = "investment"
	AccountGroupGoals      AccountGroup = "goals"
)

// Account represents a monetary account, e.g. a bank account.
//
// The Balance column is a cache of the transaction ledger. It is only ever
// written together with a transaction row, see ledger.go. Everything else
// must treat it as read-only.
type Account struct {
	DefaultModel
	Name           string `gorm:"uniqueIndex:account_name"`
	Note           string
	Currency       string          `gorm:"default:EUR"`
	Group          AccountGroup    `gorm:"default:main"`
	InitialBalance decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Balance        decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Archived       bool
}

// BeforeSave ensures consistency for the account.
//
// It trims whitespace from all strings and verifies that the currency is
// a valid ISO 4217 code.
func (a *Account) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Note = strings.TrimSpace(a.Note)
	a.Currency = strings.ToUpper(strings.TrimSpace(a.Currency))

	if a.Currency == "" {
		a.Currency = "EUR"
	}

	if _, err := currency.ParseISO(a.Currency); err != nil {
		return ErrCurrencyInvalid
	}

	switch a.Group {
	case AccountGroupMain, AccountGroupSavings, AccountGroupInvestment, AccountGroupGoals:
	case "":
		a.Group = AccountGroupMain
	default:
		return ErrAccountGroupInvalid
	}

	return nil
}

// Transactions returns all transactions for this account.
func (a Account) Transactions(db *gorm.DB) []Transaction {
	var transactions []Transaction

	// Get all transactions where the account is either the source or the destination
	db.Where(Transaction{SourceAccountID: &a.ID}).Or(Transaction{DestinationAccountID: &a.ID}).Find(&transactions)
	return transactions
}

// RecomputeBalance derives the balance from the initial balance and the full
// transaction ledger and writes it back to the cached Balance column.
//
// It exists to repair the cache, e.g. after an import. During normal
// operation the ledger unit of work keeps the cache consistent.
func (a *Account) RecomputeBalance(db *gorm.DB) error {
	balance := a.InitialBalance

	// Replay the ledger with the same delta rules the unit of work applies
	for _, t := range a.Transactions(db) {
		for _, d := range balanceDeltas(t) {
			if d.AccountID == a.ID {
				balance = balance.Add(d.Delta)
			}
		}
	}

	err := db.Model(a).Select("Balance").Updates(Account{Balance: balance}).Error
	if err != nil {
		return err
	}

	a.Balance = balance
	return nil
}

// Export returns all accounts on this instance for export.
func (Account) Export() (json.RawMessage, error) {
	var accounts []Account
	err := DB.Unscoped().Where(&Account{}).Find(&accounts).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&accounts)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
