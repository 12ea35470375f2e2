package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

// Account errors
var (
	ErrAccountNameNotUnique = errors.New("the account name must be unique")
	ErrAccountGroupInvalid  = errors.New("the account group must be one of main, savings, investment, goals")
	ErrCurrencyInvalid      = errors.New("the currency must be a valid ISO 4217 code")
)

// Category errors
var (
	ErrCategoryNameNotUnique    = errors.New("the category name must be unique per direction")
	ErrCategoryDirectionInvalid = errors.New("the category direction must be income or expense")
	ErrSystemCategoryImmutable  = errors.New("name and icon of a default category cannot be changed")
)

// Bill errors
var (
	ErrBillNameNotSet        = errors.New("please enter a bill name")
	ErrBillAmountNotPositive = errors.New("please enter a valid amount")
	ErrBillAccountNotSet     = errors.New("please select an account")
	ErrBillSpecificDayNotSet = errors.New("a specific day is required for monthly and yearly bills")
	ErrBillPatternInvalid    = errors.New("the recurrence pattern is invalid")
	ErrBillDirectionInvalid  = errors.New("the bill direction must be income or expense")
)

// Transaction errors
var (
	ErrTransactionAmountNotPositive  = errors.New("transaction amounts must be larger than zero")
	ErrTransactionTypeInvalid        = errors.New("the transaction type must be expense, income or transfer")
	ErrTransactionSourceNotSet       = errors.New("expenses and transfers need a source account")
	ErrTransactionDestinationNotSet  = errors.New("income and transfers need a destination account")
	ErrSourceDoesNotEqualDestination = errors.New("source and destination accounts for a transfer must be different")
)

// Asset errors
var (
	ErrAssetSymbolNotUnique      = errors.New("the asset symbol must be unique")
	ErrAssetTypeInvalid          = errors.New("the asset type must be stock, crypto or etf")
	ErrUpdateFrequencyInvalid    = errors.New("the update frequency must be realtime, hourly or daily")
	ErrAllocationNotActive       = errors.New("the allocation has already been sold")
	ErrAllocationAssetAllocated  = errors.New("the asset is already allocated in this investment account")
	ErrAllocationPercentNegative = errors.New("allocation percentages cannot be negative")
)

// Savings goal errors
var ErrSavingsGoalAmountNotPositive = errors.New("savings goal amounts must be larger than zero")

// Category rule errors
var ErrCategoryRuleMatchNotSet = errors.New("the category rule needs a match pattern")
