package models_test

import (
	"github.com/pennywise/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestCategoryRuleMatchNotSet() {
	rule := models.CategoryRule{Match: "  "}
	suite.Assert().ErrorIs(rule.BeforeSave(models.DB), models.ErrCategoryRuleMatchNotSet)
}

func (suite *TestSuiteStandard) TestCategoryRuleCategoryMustExist() {
	account := suite.createTestAccount(models.Account{})

	// An account ID is not a category ID
	err := models.DB.Create(&models.CategoryRule{Match: "REWE*", CategoryID: account.ID}).Error
	suite.Assert().NotNil(err)
}

// TestCategoryRuleAutoAssign verifies that new transactions without a
// category get one assigned from the first matching rule.
func (suite *TestSuiteStandard) TestCategoryRuleAutoAssign() {
	account := suite.createTestAccount(models.Account{})
	groceries := suite.createTestCategory(models.Category{Name: "Groceries"})
	subscriptions := suite.createTestCategory(models.Category{Name: "Subscriptions"})

	_ = suite.createTestCategoryRule(models.CategoryRule{Priority: 1, Match: "REWE*", CategoryID: groceries.ID})
	_ = suite.createTestCategoryRule(models.CategoryRule{Priority: 2, Match: "*Spotify*", CategoryID: subscriptions.ID})

	tests := []struct {
		name     string
		note     string
		category *models.Category
	}{
		{"prefix match", "REWE Berlin Mitte", &groceries},
		{"substring match", "Invoice Spotify AB", &subscriptions},
		{"no match", "Dentist", nil},
		{"empty note", "", nil},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			transaction := models.Transaction{
				Type:            models.TypeExpense,
				Amount:          decimal.NewFromInt(10),
				Note:            tt.note,
				SourceAccountID: &account.ID,
			}

			err := models.CreateTransaction(models.DB, &transaction)
			suite.Require().Nil(err)

			if tt.category == nil {
				suite.Assert().Nil(transaction.CategoryID)
			} else {
				suite.Require().NotNil(transaction.CategoryID)
				suite.Assert().Equal(tt.category.ID, *transaction.CategoryID)
			}
		})
	}
}

// TestCategoryRulePriority verifies that the lowest priority wins when
// multiple rules match.
func (suite *TestSuiteStandard) TestCategoryRulePriority() {
	account := suite.createTestAccount(models.Account{})
	generic := suite.createTestCategory(models.Category{Name: "Shopping"})
	specific := suite.createTestCategory(models.Category{Name: "Groceries"})

	_ = suite.createTestCategoryRule(models.CategoryRule{Priority: 10, Match: "REWE*", CategoryID: generic.ID})
	_ = suite.createTestCategoryRule(models.CategoryRule{Priority: 1, Match: "REWE Berlin*", CategoryID: specific.ID})

	transaction := models.Transaction{
		Type:            models.TypeExpense,
		Amount:          decimal.NewFromInt(42),
		Note:            "REWE Berlin Mitte",
		SourceAccountID: &account.ID,
	}

	err := models.CreateTransaction(models.DB, &transaction)
	suite.Require().Nil(err)

	suite.Require().NotNil(transaction.CategoryID)
	suite.Assert().Equal(specific.ID, *transaction.CategoryID)
}

// TestCategoryRuleExplicitCategoryWins verifies that rules never overwrite a
// category the user set explicitly.
func (suite *TestSuiteStandard) TestCategoryRuleExplicitCategoryWins() {
	account := suite.createTestAccount(models.Account{})
	groceries := suite.createTestCategory(models.Category{Name: "Groceries"})
	gifts := suite.createTestCategory(models.Category{Name: "Gifts"})

	_ = suite.createTestCategoryRule(models.CategoryRule{Priority: 1, Match: "REWE*", CategoryID: groceries.ID})

	transaction := models.Transaction{
		Type:            models.TypeExpense,
		Amount:          decimal.NewFromInt(15),
		Note:            "REWE flowers",
		CategoryID:      &gifts.ID,
		SourceAccountID: &account.ID,
	}

	err := models.CreateTransaction(models.DB, &transaction)
	suite.Require().Nil(err)

	suite.Assert().Equal(gifts.ID, *transaction.CategoryID)
}
