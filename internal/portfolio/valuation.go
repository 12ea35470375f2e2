// Package portfolio implements the valuation, rebalancing and asset search
// calculations for investment accounts.
//
// All functions are pure, they operate on records that the caller already
// fetched.
package portfolio

import (
	"github.com/pennywise/backend/internal/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ValuationMethod names which of the fallback tiers produced a position
// value.
type ValuationMethod string

const (
	// MethodShares uses the implied share count from invested amount and
	// purchase price
	MethodShares ValuationMethod = "shares"
	// MethodLegacy scales the percentage-allocated amount with the price
	// movement since purchase
	MethodLegacy ValuationMethod = "legacy"
	// MethodPercentage allocates by percentage without price movement
	MethodPercentage ValuationMethod = "percentage"
	// MethodNone means no tier applied, the position values at zero
	MethodNone ValuationMethod = "none"
)

// Position is the current valuation of a single allocation.
type Position struct {
	Allocation      models.Allocation `json:"allocation"`
	Method          ValuationMethod   `json:"method"`
	CurrentValue    decimal.Decimal   `json:"currentValue"`
	InvestedBasis   decimal.Decimal   `json:"investedBasis"`
	GainLoss        decimal.Decimal   `json:"gainLoss"`
	GainLossPercent decimal.Decimal   `json:"gainLossPercent"`
}

// AccountValuation is the valuation of an investment account as a whole.
type AccountValuation struct {
	Positions       []Position      `json:"positions"`
	CurrentValue    decimal.Decimal `json:"currentValue"`
	GainLoss        decimal.Decimal `json:"gainLoss"`
	GainLossPercent decimal.Decimal `json:"gainLossPercent"`
	AllocatedPercent decimal.Decimal `json:"allocatedPercent"`
	CashPercent     decimal.Decimal `json:"cashPercent"`
	CashValue       decimal.Decimal `json:"cashValue"`
	OverAllocated   bool            `json:"overAllocated"`
}

// Value computes the current value of one allocation.
//
// Which fields are populated on the allocation decides the calculation, in
// order of preference:
//
//  1. invested amount and purchase price: implied share count times the
//     current asset price
//  2. percentage and purchase price: the percentage of the deposits, scaled
//     by the price movement since purchase
//  3. percentage only: the percentage of the deposits, no price movement
//
// If none apply the position values at zero.
func Value(allocation models.Allocation, asset models.Asset, totalDeposits decimal.Decimal) Position {
	p := Position{Allocation: allocation, Method: MethodNone}

	switch {
	case allocation.InvestedAmount.IsPositive() && allocation.PurchasePrice.IsPositive():
		p.Method = MethodShares
		shares := allocation.InvestedAmount.Div(allocation.PurchasePrice)
		p.InvestedBasis = allocation.InvestedAmount
		p.CurrentValue = shares.Mul(asset.CurrentPrice)

	case allocation.Percentage.IsPositive() && allocation.PurchasePrice.IsPositive():
		p.Method = MethodLegacy
		allocated := totalDeposits.Mul(allocation.Percentage).Div(hundred)
		p.InvestedBasis = allocated
		p.CurrentValue = allocated.Mul(asset.CurrentPrice.Div(allocation.PurchasePrice))

	case allocation.Percentage.IsPositive():
		p.Method = MethodPercentage
		allocated := totalDeposits.Mul(allocation.Percentage).Div(hundred)
		p.InvestedBasis = allocated
		p.CurrentValue = allocated
	}

	p.GainLoss = p.CurrentValue.Sub(p.InvestedBasis)

	// Guard against a zero basis, e.g. for percentage-only positions on an
	// account without deposits
	if p.InvestedBasis.IsPositive() {
		p.GainLossPercent = p.GainLoss.Div(p.InvestedBasis).Mul(hundred)
	}

	return p
}

// ValueAccount computes the valuation of an investment account over its
// active allocations. The allocations must have their Asset preloaded.
//
// An account without active allocations is fully cash and values at its
// total deposits.
func ValueAccount(account models.InvestmentAccount, allocations []models.Allocation) AccountValuation {
	v := AccountValuation{Positions: make([]Position, 0, len(allocations))}

	var basis decimal.Decimal
	for _, allocation := range allocations {
		position := Value(allocation, allocation.Asset, account.TotalDeposits)

		v.Positions = append(v.Positions, position)
		v.CurrentValue = v.CurrentValue.Add(position.CurrentValue)
		v.GainLoss = v.GainLoss.Add(position.GainLoss)
		basis = basis.Add(position.InvestedBasis)
		v.AllocatedPercent = v.AllocatedPercent.Add(allocation.Percentage)
	}

	if basis.IsPositive() {
		v.GainLossPercent = v.GainLoss.Div(basis).Mul(hundred)
	}

	// Over-allocation is flagged, never rejected. The rebalancing calculator
	// offers a way out.
	v.OverAllocated = v.AllocatedPercent.GreaterThan(hundred)

	v.CashPercent = hundred.Sub(v.AllocatedPercent)
	if v.CashPercent.IsNegative() {
		v.CashPercent = decimal.Zero
	}

	v.CashValue = account.TotalDeposits.Mul(v.CashPercent).Div(hundred)
	v.CurrentValue = v.CurrentValue.Add(v.CashValue)

	return v
}
