package portfolio

import (
	"errors"

	"github.com/google/uuid"
	"github.com/pennywise/backend/internal/models"
	"github.com/shopspring/decimal"
)

// RebalanceStrategy selects how new percentages are proposed.
type RebalanceStrategy string

const (
	// StrategyEqual distributes 100% evenly over all positions
	StrategyEqual RebalanceStrategy = "equal"
	// StrategyProportional scales every position so the total becomes 100%
	StrategyProportional RebalanceStrategy = "proportional"
)

// RebalanceTolerance is how far the sum of an edited percentage set may
// deviate from 100 and still be applied. This is a floating point tolerance,
// not a grace allowance.
var RebalanceTolerance = decimal.RequireFromString("0.1")

var (
	ErrRebalanceStrategyInvalid = errors.New("the rebalancing strategy must be equal or proportional")
	ErrRebalanceNoAllocations   = errors.New("there are no active allocations to rebalance")
	ErrRebalanceSumNot100       = errors.New("the allocation percentages must sum to 100")
)

// ProposedPercentage is the suggested new percentage for one allocation.
// The user may override any proposed value before applying.
type ProposedPercentage struct {
	AllocationID uuid.UUID       `json:"allocationId"`
	Current      decimal.Decimal `json:"current"`
	Proposed     decimal.Decimal `json:"proposed"`
}

// Propose calculates new percentages for a set of allocations so that they
// sum to 100, rounded to one decimal place.
func Propose(strategy RebalanceStrategy, allocations []models.Allocation) ([]ProposedPercentage, error) {
	if len(allocations) == 0 {
		return nil, ErrRebalanceNoAllocations
	}

	var total decimal.Decimal
	for _, allocation := range allocations {
		total = total.Add(allocation.Percentage)
	}

	proposals := make([]ProposedPercentage, 0, len(allocations))
	for _, allocation := range allocations {
		proposal := ProposedPercentage{
			AllocationID: allocation.ID,
			Current:      allocation.Percentage,
		}

		switch strategy {
		case StrategyEqual:
			proposal.Proposed = hundred.Div(decimal.NewFromInt(int64(len(allocations)))).Round(1)

		case StrategyProportional:
			if !total.IsPositive() {
				return nil, ErrRebalanceNoAllocations
			}
			proposal.Proposed = allocation.Percentage.Mul(hundred.Div(total)).Round(1)

		default:
			return nil, ErrRebalanceStrategyInvalid
		}

		proposals = append(proposals, proposal)
	}

	return proposals, nil
}

// ValidateTotal checks that a set of percentages sums to 100 within the
// rebalancing tolerance.
func ValidateTotal(percentages []decimal.Decimal) error {
	var total decimal.Decimal
	for _, p := range percentages {
		total = total.Add(p)
	}

	if total.Sub(hundred).Abs().GreaterThan(RebalanceTolerance) {
		return ErrRebalanceSumNot100
	}

	return nil
}
