package models_test

import (
	"time"

	"github.com/pennywise/backend/internal/models"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestAllocationPercentageNegative() {
	allocation := models.Allocation{Percentage: decimal.NewFromInt(-5)}
	suite.Assert().ErrorIs(allocation.BeforeSave(models.DB), models.ErrAllocationPercentNegative)
}

// TestAllocationPercentageNegativeCreate verifies that a failed validation is
// the only error returned, the integrity check must not add to it.
func (suite *TestSuiteStandard) TestAllocationPercentageNegativeCreate() {
	err := models.DB.Create(&models.Allocation{Percentage: decimal.NewFromInt(-5)}).Error

	suite.Assert().ErrorIs(err, models.ErrAllocationPercentNegative)
	suite.Assert().NotErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestAllocationReferencesMustExist() {
	account := suite.createTestInvestmentAccount(models.InvestmentAccount{})

	err := models.DB.Create(&models.Allocation{
		InvestmentAccountID: account.ID,
		AssetID:             account.ID,
		Percentage:          decimal.NewFromInt(10),
	}).Error
	suite.Assert().NotNil(err)
}

func (suite *TestSuiteStandard) TestAllocationAssetUniquePerAccount() {
	account := suite.createTestInvestmentAccount(models.InvestmentAccount{})
	asset := suite.createTestAsset(models.Asset{})

	_ = suite.createTestAllocation(models.Allocation{InvestmentAccountID: account.ID, AssetID: asset.ID})

	err := models.DB.Create(&models.Allocation{
		InvestmentAccountID: account.ID,
		AssetID:             asset.ID,
		Percentage:          decimal.NewFromInt(20),
	}).Error
	suite.Assert().ErrorIs(err, models.ErrAllocationAssetAllocated)
}

// TestAllocationSell verifies that selling deactivates the allocation,
// records the sale and cannot happen twice.
func (suite *TestSuiteStandard) TestAllocationSell() {
	account := suite.createTestInvestmentAccount(models.InvestmentAccount{})
	asset := suite.createTestAsset(models.Asset{})
	allocation := suite.createTestAllocation(models.Allocation{InvestmentAccountID: account.ID, AssetID: asset.ID})

	suite.Require().True(allocation.Active)

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	err := allocation.Sell(models.DB, decimal.NewFromInt(180), at)
	suite.Require().Nil(err)

	var reloaded models.Allocation
	suite.Require().Nil(models.DB.First(&reloaded, allocation.ID).Error)
	suite.Assert().False(reloaded.Active)
	suite.Require().NotNil(reloaded.SoldPrice)
	suite.Assert().True(reloaded.SoldPrice.Equal(decimal.NewFromInt(180)))
	suite.Require().NotNil(reloaded.SoldAt)
	suite.Assert().True(reloaded.SoldAt.Equal(at))

	// Sold rows stay in the database for historical reports
	err = reloaded.Sell(models.DB, decimal.NewFromInt(200), at)
	suite.Assert().ErrorIs(err, models.ErrAllocationNotActive)
}

// TestAllocationReallocateAfterSell verifies that an asset can be allocated
// again after the previous allocation for it was sold.
func (suite *TestSuiteStandard) TestAllocationReallocateAfterSell() {
	account := suite.createTestInvestmentAccount(models.InvestmentAccount{})
	asset := suite.createTestAsset(models.Asset{})
	allocation := suite.createTestAllocation(models.Allocation{InvestmentAccountID: account.ID, AssetID: asset.ID})

	suite.Require().Nil(allocation.Sell(models.DB, decimal.NewFromInt(180), time.Now()))

	reallocated := suite.createTestAllocation(models.Allocation{
		InvestmentAccountID: account.ID,
		AssetID:             asset.ID,
		Percentage:          decimal.NewFromInt(15),
	})
	suite.Assert().True(reallocated.Active)

	// Only the new allocation counts as active, the sold row stays
	allocations, err := account.ActiveAllocations(models.DB)
	suite.Require().Nil(err)
	suite.Require().Len(allocations, 1)
	suite.Assert().Equal(reallocated.ID, allocations[0].ID)
}

func (suite *TestSuiteStandard) TestInvestmentAccountActiveAllocations() {
	account := suite.createTestInvestmentAccount(models.InvestmentAccount{})
	apple := suite.createTestAsset(models.Asset{Symbol: "AAPL"})
	bitcoin := suite.createTestAsset(models.Asset{Symbol: "BTC", Type: models.AssetTypeCrypto})

	_ = suite.createTestAllocation(models.Allocation{InvestmentAccountID: account.ID, AssetID: apple.ID})
	sold := suite.createTestAllocation(models.Allocation{InvestmentAccountID: account.ID, AssetID: bitcoin.ID})
	suite.Require().Nil(sold.Sell(models.DB, decimal.NewFromInt(50000), time.Now()))

	allocations, err := account.ActiveAllocations(models.DB)
	suite.Require().Nil(err)

	suite.Require().Len(allocations, 1)
	suite.Assert().Equal(apple.ID, allocations[0].AssetID)

	// The asset comes preloaded for valuations
	suite.Assert().Equal("AAPL", allocations[0].Asset.Symbol)
}
