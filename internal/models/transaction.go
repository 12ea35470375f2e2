package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType tags the three kinds of posted monetary events.
type TransactionType string

const (
	TypeExpense  TransactionType = "expense"
	TypeIncome   TransactionType = "income"
	TypeTransfer TransactionType = "transfer"
)

// Transaction represents a posted monetary event. Transactions are the
// ledger of record, account balances are caches over them.
//
// Which account references must be set depends on the type: expenses have a
// source, income has a destination, transfers have both.
type Transaction struct {
	DefaultModel
	Date                 time.Time
	Amount               decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Type                 TransactionType
	Note                 string
	Tags                 string
	PhotoURL             string
	CategoryID           *uuid.UUID
	Category             *Category  `json:"-"`
	SourceAccountID      *uuid.UUID `gorm:"check:source_destination_different,source_account_id IS NULL OR destination_account_id IS NULL OR source_account_id != destination_account_id"`
	SourceAccount        *Account   `json:"-"`
	DestinationAccountID *uuid.UUID
	DestinationAccount   *Account `json:"-"`
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000. Yes, this is different.
func (t *Transaction) AfterFind(_ *gorm.DB) (err error) {
	_ = t.DefaultModel.AfterFind(nil)

	t.Date = t.Date.In(time.UTC)
	return nil
}

// BeforeSave validates the transaction and sets the timezone for the Date
// to UTC.
func (t *Transaction) BeforeSave(_ *gorm.DB) (err error) {
	t.Note = strings.TrimSpace(t.Note)
	t.Tags = strings.TrimSpace(t.Tags)

	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	if !t.Amount.IsPositive() {
		return ErrTransactionAmountNotPositive
	}

	switch t.Type {
	case TypeExpense:
		if t.SourceAccountID == nil {
			return ErrTransactionSourceNotSet
		}
	case TypeIncome:
		if t.DestinationAccountID == nil {
			return ErrTransactionDestinationNotSet
		}
	case TypeTransfer:
		if t.SourceAccountID == nil {
			return ErrTransactionSourceNotSet
		}
		if t.DestinationAccountID == nil {
			return ErrTransactionDestinationNotSet
		}
		if *t.SourceAccountID == *t.DestinationAccountID {
			return ErrSourceDoesNotEqualDestination
		}
	default:
		return ErrTransactionTypeInvalid
	}

	return nil
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	_ = t.DefaultModel.BeforeCreate(tx)

	// Validation in BeforeSave has already failed, do not add more errors
	if tx.Error != nil {
		return nil
	}

	toSave := tx.Statement.Dest.(*Transaction)
	return t.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies references to other resources
func (t *Transaction) checkIntegrity(tx *gorm.DB, toSave Transaction) error {
	if toSave.SourceAccountID != nil {
		if err := tx.First(&Account{}, *toSave.SourceAccountID).Error; err != nil {
			return err
		}
	}

	if toSave.DestinationAccountID != nil {
		if err := tx.First(&Account{}, *toSave.DestinationAccountID).Error; err != nil {
			return err
		}
	}

	if toSave.CategoryID != nil {
		return tx.First(&Category{}, *toSave.CategoryID).Error
	}

	return nil
}

// Export returns all transactions on this instance for export.
func (Transaction) Export() (json.RawMessage, error) {
	var transactions []Transaction
	err := DB.Unscoped().Where(&Transaction{}).Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&transactions)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
