package models_test

import (
	"time"

	"github.com/pennywise/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) balance(account models.Account) decimal.Decimal {
	var reloaded models.Account
	suite.Require().Nil(models.DB.First(&reloaded, account.ID).Error)
	return reloaded.Balance
}

func (suite *TestSuiteStandard) TestTransactionSaveTimeUTC() {
	tz, _ := time.LoadLocation("Europe/Berlin")
	account := suite.createTestAccount(models.Account{})

	transaction := models.Transaction{
		Type:            models.TypeExpense,
		Amount:          decimal.NewFromInt(1),
		SourceAccountID: &account.ID,
	}
	suite.Require().Nil(transaction.BeforeSave(models.DB))
	suite.Assert().Equal(time.UTC, transaction.Date.Location(), "Timezone for model is not UTC")
	suite.Assert().False(transaction.Date.IsZero())

	transaction.Date = time.Date(2000, 1, 2, 3, 4, 5, 6, tz)
	suite.Require().Nil(transaction.BeforeSave(models.DB))
	suite.Assert().Equal(time.UTC, transaction.Date.Location(), "Timezone for model is not UTC")
}

func (suite *TestSuiteStandard) TestTransactionValidation() {
	account := suite.createTestAccount(models.Account{})
	other := suite.createTestAccount(models.Account{})

	tests := []struct {
		name        string
		transaction models.Transaction
		err         error
	}{
		{
			"amount must be positive",
			models.Transaction{Type: models.TypeExpense, SourceAccountID: &account.ID},
			models.ErrTransactionAmountNotPositive,
		},
		{
			"type must be valid",
			models.Transaction{Type: "donation", Amount: decimal.NewFromInt(1)},
			models.ErrTransactionTypeInvalid,
		},
		{
			"expense needs a source",
			models.Transaction{Type: models.TypeExpense, Amount: decimal.NewFromInt(1)},
			models.ErrTransactionSourceNotSet,
		},
		{
			"income needs a destination",
			models.Transaction{Type: models.TypeIncome, Amount: decimal.NewFromInt(1)},
			models.ErrTransactionDestinationNotSet,
		},
		{
			"transfer needs both",
			models.Transaction{Type: models.TypeTransfer, Amount: decimal.NewFromInt(1), SourceAccountID: &account.ID},
			models.ErrTransactionDestinationNotSet,
		},
		{
			"transfer to the same account",
			models.Transaction{Type: models.TypeTransfer, Amount: decimal.NewFromInt(1), SourceAccountID: &account.ID, DestinationAccountID: &account.ID},
			models.ErrSourceDoesNotEqualDestination,
		},
		{
			"valid transfer",
			models.Transaction{Type: models.TypeTransfer, Amount: decimal.NewFromInt(1), SourceAccountID: &account.ID, DestinationAccountID: &other.ID},
			nil,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := tt.transaction.BeforeSave(models.DB)
			if tt.err == nil {
				suite.Assert().Nil(err)
			} else {
				suite.Assert().ErrorIs(err, tt.err)
			}
		})
	}
}

// TestLedgerCreate verifies that posting a transaction adjusts the cached
// account balances.
func (suite *TestSuiteStandard) TestLedgerCreate() {
	checking := suite.createTestAccount(models.Account{InitialBalance: decimal.NewFromInt(1000), Balance: decimal.NewFromInt(1000)})
	savings := suite.createTestAccount(models.Account{})

	_ = suite.createTestTransaction(models.Transaction{
		Type:            models.TypeExpense,
		Amount:          decimal.NewFromInt(100),
		SourceAccountID: &checking.ID,
	})
	suite.Assert().True(suite.balance(checking).Equal(decimal.NewFromInt(900)), "balance is %s", suite.balance(checking))

	_ = suite.createTestTransaction(models.Transaction{
		Type:                 models.TypeIncome,
		Amount:               decimal.NewFromInt(2500),
		DestinationAccountID: &checking.ID,
	})
	suite.Assert().True(suite.balance(checking).Equal(decimal.NewFromInt(3400)))

	_ = suite.createTestTransaction(models.Transaction{
		Type:                 models.TypeTransfer,
		Amount:               decimal.NewFromInt(400),
		SourceAccountID:      &checking.ID,
		DestinationAccountID: &savings.ID,
	})
	suite.Assert().True(suite.balance(checking).Equal(decimal.NewFromInt(3000)))
	suite.Assert().True(suite.balance(savings).Equal(decimal.NewFromInt(400)))
}

// TestLedgerCreateRollback verifies that a failed post leaves the balances
// untouched.
func (suite *TestSuiteStandard) TestLedgerCreateRollback() {
	checking := suite.createTestAccount(models.Account{InitialBalance: decimal.NewFromInt(500), Balance: decimal.NewFromInt(500)})

	transaction := models.Transaction{
		Type:            models.TypeExpense,
		Amount:          decimal.NewFromInt(-100),
		SourceAccountID: &checking.ID,
	}

	err := models.CreateTransaction(models.DB, &transaction)
	suite.Require().NotNil(err)
	suite.Assert().True(suite.balance(checking).Equal(decimal.NewFromInt(500)))
}

// TestLedgerUpdate verifies that updating a transaction reverts the old
// balance deltas and applies the new ones.
func (suite *TestSuiteStandard) TestLedgerUpdate() {
	checking := suite.createTestAccount(models.Account{InitialBalance: decimal.NewFromInt(1000), Balance: decimal.NewFromInt(1000)})
	wallet := suite.createTestAccount(models.Account{InitialBalance: decimal.NewFromInt(50), Balance: decimal.NewFromInt(50)})

	transaction := suite.createTestTransaction(models.Transaction{
		Type:            models.TypeExpense,
		Amount:          decimal.NewFromInt(100),
		SourceAccountID: &checking.ID,
	})
	suite.Require().True(suite.balance(checking).Equal(decimal.NewFromInt(900)))

	// Change the amount
	err := models.UpdateTransaction(models.DB, &transaction, []any{"Amount"}, models.Transaction{Amount: decimal.NewFromInt(150)})
	suite.Require().Nil(err)
	suite.Assert().True(suite.balance(checking).Equal(decimal.NewFromInt(850)), "balance is %s", suite.balance(checking))

	// Move the expense to another account
	err = models.UpdateTransaction(models.DB, &transaction, []any{"SourceAccountID"}, models.Transaction{SourceAccountID: &wallet.ID})
	suite.Require().Nil(err)
	suite.Assert().True(suite.balance(checking).Equal(decimal.NewFromInt(1000)))
	suite.Assert().True(suite.balance(wallet).Equal(decimal.NewFromInt(-100)), "balance is %s", suite.balance(wallet))
}

// TestLedgerDelete verifies that deleting a transaction reverts its balance
// deltas.
func (suite *TestSuiteStandard) TestLedgerDelete() {
	checking := suite.createTestAccount(models.Account{})
	savings := suite.createTestAccount(models.Account{})

	transaction := suite.createTestTransaction(models.Transaction{
		Type:                 models.TypeTransfer,
		Amount:               decimal.NewFromInt(300),
		SourceAccountID:      &checking.ID,
		DestinationAccountID: &savings.ID,
	})
	suite.Require().True(suite.balance(savings).Equal(decimal.NewFromInt(300)))

	err := models.DeleteTransaction(models.DB, &transaction)
	suite.Require().Nil(err)

	suite.Assert().True(suite.balance(checking).IsZero())
	suite.Assert().True(suite.balance(savings).IsZero())
}

func (suite *TestSuiteStandard) TestTransactionAccountMustExist() {
	account := suite.createTestAccount(models.Account{})
	bogus := suite.createTestCategory(models.Category{})

	transaction := models.Transaction{
		Type:                 models.TypeTransfer,
		Amount:               decimal.NewFromInt(10),
		SourceAccountID:      &account.ID,
		DestinationAccountID: &bogus.ID,
	}

	err := models.CreateTransaction(models.DB, &transaction)
	suite.Assert().NotNil(err)
}
