package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// This file implements the ledger unit of work.
//
// Account.Balance is a cache over the transaction ledger. Every transaction
// mutation therefore pairs the row write with the signed balance deltas of
// the affected accounts, inside a single database transaction. No other code
// writes the Balance column, except Account.RecomputeBalance which repairs
// the cache from scratch.
//
// The delta contract:
//   - expense: subtract the amount from the source account
//   - income: add the amount to the destination account
//   - transfer: subtract from the source, add to the destination

type balanceDelta struct {
	AccountID uuid.UUID
	Delta     decimal.Decimal
}

// balanceDeltas returns the account deltas a transaction causes when posted.
func balanceDeltas(t Transaction) []balanceDelta {
	var deltas []balanceDelta

	if t.SourceAccountID != nil && (t.Type == TypeExpense || t.Type == TypeTransfer) {
		deltas = append(deltas, balanceDelta{AccountID: *t.SourceAccountID, Delta: t.Amount.Neg()})
	}

	if t.DestinationAccountID != nil && (t.Type == TypeIncome || t.Type == TypeTransfer) {
		deltas = append(deltas, balanceDelta{AccountID: *t.DestinationAccountID, Delta: t.Amount})
	}

	return deltas
}

// applyDeltas adjusts the cached balances of all affected accounts.
func applyDeltas(tx *gorm.DB, deltas []balanceDelta, invert bool) error {
	for _, d := range deltas {
		delta := d.Delta
		if invert {
			delta = delta.Neg()
		}

		err := tx.Model(&Account{}).
			Where("id = ?", d.AccountID).
			Update("balance", gorm.Expr("balance + ?", delta)).Error
		if err != nil {
			return err
		}
	}

	return nil
}

// CreateTransaction posts a transaction and adjusts the cached account
// balances in the same database transaction.
//
// If no category is set, the category rules are consulted with the
// transaction note.
func CreateTransaction(db *gorm.DB, transaction *Transaction) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if transaction.CategoryID == nil && transaction.Note != "" {
			categoryID, err := matchCategory(tx, transaction.Note)
			if err != nil {
				return err
			}
			transaction.CategoryID = categoryID
		}

		err := tx.Create(transaction).Error
		if err != nil {
			return err
		}

		return applyDeltas(tx, balanceDeltas(*transaction), false)
	})
}

// UpdateTransaction updates a transaction. The old balance deltas are
// reverted and the deltas of the updated state applied, all in the same
// database transaction.
//
// fields selects which fields of data are written, in the same way as the
// controllers use gorm's Select for PATCH requests.
func UpdateTransaction(db *gorm.DB, transaction *Transaction, fields []any, data Transaction) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := applyDeltas(tx, balanceDeltas(*transaction), true)
		if err != nil {
			return err
		}

		err = tx.Model(transaction).Select("", fields...).Updates(data).Error
		if err != nil {
			return err
		}

		// Reload to get the full updated state for the new deltas
		err = tx.First(transaction, transaction.ID).Error
		if err != nil {
			return err
		}

		return applyDeltas(tx, balanceDeltas(*transaction), false)
	})
}

// DeleteTransaction removes a transaction from the ledger and reverts its
// balance deltas in the same database transaction.
func DeleteTransaction(db *gorm.DB, transaction *Transaction) error {
	return db.Transaction(func(tx *gorm.DB) error {
		err := applyDeltas(tx, balanceDeltas(*transaction), true)
		if err != nil {
			return err
		}

		return tx.Delete(transaction).Error
	})
}
