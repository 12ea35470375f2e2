package models_test

import (
	"github.com/pennywise/backend/internal/models"
)

func (suite *TestSuiteStandard) TestCategoryDirection() {
	category := models.Category{Name: "Sideways", Direction: "sideways"}
	suite.Assert().ErrorIs(category.BeforeSave(models.DB), models.ErrCategoryDirectionInvalid)
}

func (suite *TestSuiteStandard) TestCategoryNameUniquePerDirection() {
	_ = suite.createTestCategory(models.Category{Name: "Groceries", Direction: models.DirectionExpense})

	// The same name with the other direction is allowed
	_ = suite.createTestCategory(models.Category{Name: "Groceries", Direction: models.DirectionIncome})

	err := models.DB.Create(&models.Category{Name: "Groceries", Direction: models.DirectionExpense}).Error
	suite.Assert().ErrorIs(err, models.ErrCategoryNameNotUnique)
}

// TestCategorySystemImmutable verifies that name and icon of system
// categories are locked while the color stays editable.
func (suite *TestSuiteStandard) TestCategorySystemImmutable() {
	category := suite.createTestCategory(models.Category{Name: "Health", Icon: "heart", Color: "#f44336", System: true})

	err := models.DB.Model(&category).Select("Name").Updates(models.Category{Name: "Wellness"}).Error
	suite.Assert().ErrorIs(err, models.ErrSystemCategoryImmutable)

	err = models.DB.Model(&category).Select("Icon").Updates(models.Category{Icon: "pill"}).Error
	suite.Assert().ErrorIs(err, models.ErrSystemCategoryImmutable)

	err = models.DB.Model(&category).Select("Color").Updates(models.Category{Color: "#ff0000"}).Error
	suite.Assert().Nil(err)

	// User categories are fully editable
	category = suite.createTestCategory(models.Category{Name: "Hobby"})
	err = models.DB.Model(&category).Select("Name").Updates(models.Category{Name: "Hobbies"}).Error
	suite.Assert().Nil(err)
}

func (suite *TestSuiteStandard) TestCategoryDefaults() {
	err := models.EnsureDefaultCategories(models.DB)
	suite.Require().Nil(err)

	var count int64
	models.DB.Model(&models.Category{}).Where(&models.Category{System: true}, "System").Count(&count)
	suite.Assert().Equal(int64(7), count)

	// A second run does not duplicate anything and keeps user edits
	var category models.Category
	suite.Require().Nil(models.DB.Where(&models.Category{Name: "Salary", Direction: models.DirectionIncome}).First(&category).Error)
	suite.Require().Nil(models.DB.Model(&category).Select("Color").Updates(models.Category{Color: "#123456"}).Error)

	err = models.EnsureDefaultCategories(models.DB)
	suite.Require().Nil(err)

	models.DB.Model(&models.Category{}).Where(&models.Category{System: true}, "System").Count(&count)
	suite.Assert().Equal(int64(7), count)

	suite.Require().Nil(models.DB.First(&category, category.ID).Error)
	suite.Assert().Equal("#123456", category.Color)
}
