package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SavingsGoal is a target amount to be reached on an account.
type SavingsGoal struct {
	DefaultModel
	Name         string
	Note         string
	TargetAmount decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	TargetDate   *time.Time
	AccountID    uuid.UUID
	Account      Account `json:"-"`
	Archived     bool
}

func (g *SavingsGoal) BeforeSave(_ *gorm.DB) error {
	g.Name = strings.TrimSpace(g.Name)
	g.Note = strings.TrimSpace(g.Note)

	if !g.TargetAmount.IsPositive() {
		return ErrSavingsGoalAmountNotPositive
	}

	return nil
}

func (g *SavingsGoal) BeforeCreate(tx *gorm.DB) error {
	_ = g.DefaultModel.BeforeCreate(tx)

	// Validation in BeforeSave has already failed, do not add more errors
	if tx.Error != nil {
		return nil
	}

	toSave := tx.Statement.Dest.(*SavingsGoal)
	return g.checkIntegrity(tx, *toSave)
}

func (g *SavingsGoal) BeforeUpdate(tx *gorm.DB) error {
	toSave := tx.Statement.Dest.(SavingsGoal)
	if tx.Statement.Changed("AccountID") {
		return g.checkIntegrity(tx, toSave)
	}

	return nil
}

// checkIntegrity verifies references to other resources
func (g *SavingsGoal) checkIntegrity(tx *gorm.DB, toSave SavingsGoal) error {
	return tx.First(&Account{}, toSave.AccountID).Error
}

// Progress reports how much of the target has been reached on the linked
// account, as a percentage clamped to [0, 100].
func (g SavingsGoal) Progress(db *gorm.DB) (decimal.Decimal, error) {
	var account Account
	err := db.First(&account, g.AccountID).Error
	if err != nil {
		return decimal.Zero, err
	}

	if !g.TargetAmount.IsPositive() {
		return decimal.Zero, nil
	}

	progress := account.Balance.Div(g.TargetAmount).Mul(decimal.NewFromInt(100))
	if progress.IsNegative() {
		return decimal.Zero, nil
	}

	hundred := decimal.NewFromInt(100)
	if progress.GreaterThan(hundred) {
		return hundred, nil
	}

	return progress, nil
}

// Export returns all savings goals on this instance for export.
func (SavingsGoal) Export() (json.RawMessage, error) {
	var goals []SavingsGoal
	err := DB.Unscoped().Where(&SavingsGoal{}).Find(&goals).Error
	if err != nil {
		return nil, err
	}

	j, err := json.Marshal(&goals)
	if err != nil {
		return json.RawMessage{}, err
	}
	return json.RawMessage(j), nil
}
