package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecurrencePattern is the cadence with which a bill recurs.
type RecurrencePattern string

const (
	PatternWeekly        RecurrencePattern = "weekly"
	PatternBiweekly      RecurrencePattern = "biweekly"
	PatternMonthly       RecurrencePattern = "monthly"
	PatternBimonthly     RecurrencePattern = "bimonthly"
	PatternQuarterly     RecurrencePattern = "quarterly"
	PatternYearly        RecurrencePattern = "yearly"
	PatternSpecificDates RecurrencePattern = "specific_dates"
)

// Bill is a recurring transaction template, not a posted transaction.
// It is used to forecast future cash flow.
type Bill struct {
	DefaultModel
	Name        string
	Note        string
	Amount      decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Direction   Direction
	Pattern     RecurrencePattern
	SpecificDay *int
	StartDate   time.Time
	AccountID   uuid.UUID
	Account     Account `json:"-"`
	CategoryID  *uuid.UUID
	Category    *Category `json:"-"`
	Archived    bool
}

// BeforeSave validates the bill. The checks run in a fixed order and the
// first failure wins so that API consumers always get the same message for
// the same form state.
func (b *Bill) BeforeSave(_ *gorm.DB) error {
	b.Name = strings.TrimSpace(b.Name)
	b.Note = strings.TrimSpace(b.Note)

	if b.Name == "" {
		return ErrBillNameNotSet
	}

	if !b.Amount.IsPositive() {
		return ErrBillAmountNotPositive
	}

	if b.AccountID == uuid.Nil {
		return ErrBillAccountNotSet
	}

	if b.Direction != DirectionIncome && b.Direction != DirectionExpense {
		return ErrBillDirectionInvalid
	}

	switch b.Pattern {
	case PatternWeekly, PatternBiweekly, PatternMonthly, PatternBimonthly, PatternQuarterly, PatternYearly, PatternSpecificDates:
	default:
		return ErrBillPatternInvalid
	}

	// Monthly and yearly bills are anchored to a day of the period
	if (b.Pattern == PatternMonthly || b.Pattern == PatternYearly) && b.SpecificDay == nil {
		return ErrBillSpecificDayNotSet
	}

	if b.StartDate.IsZero() {
		b.StartDate = time.Now().In(time.UTC)
	} else {
		b.StartDate = b.StartDate.In(time.UTC)
	}

	return nil
}

func (b *Bill) BeforeCreate(tx *gorm.DB) error {
	_ = b.DefaultModel.BeforeCreate(tx)

	// Validation in BeforeSave has already failed, do not add more errors
	if tx.Error != nil {
		return nil
	}

	toSave := tx.Statement.Dest.(*Bill)
	return b.checkIntegrity(tx, *toSave)
}

// BeforeUpdate verifies the state of the bill before
// committing an update to the database.
func (b *Bill) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(Bill)
	if tx.Statement.Changed("AccountID") || tx.Statement.Changed("CategoryID") {
		err := b.checkIntegrity(tx, toSave)
		if err != nil {
			return err
		}
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (b *Bill) checkIntegrity(tx *gorm.DB, toSave Bill) error {
	err := tx.First(&Account{}, toSave.AccountID).Error
	if err != nil {
		return err
	}

	if toSave.CategoryID != nil {
		return tx.First(&Category{}, *toSave.CategoryID).Error
	}

	return nil
}

// Export returns all bills on this instance for export.
func (Bill) Export() (json.RawMessage, error) {
	var bills []Bill
	err := DB.Unscoped().Where(&Bill{}).Find(&bills).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&bills)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
