// Package forecast projects recurring bills into per-month and per-year
// monetary contributions.
//
// The projection is pure arithmetic over the bill definitions, it does not
// touch the database.
package forecast

import (
	"time"

	"github.com/pennywise/backend/internal/models"
	"github.com/pennywise/backend/internal/types"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// BillProjection is the contribution of a single bill to each calendar month
// of the projected year.
type BillProjection struct {
	Bill   models.Bill        `json:"bill"`   // The projected bill
	Months [12]decimal.Decimal `json:"months"` // Contribution per calendar month, index 0 is January
	Total  decimal.Decimal    `json:"total"`  // Sum of the 12 monthly contributions
}

// Projection is the result of projecting a set of bills onto a year.
type Projection struct {
	Year           int                 `json:"year"`
	Bills          []BillProjection    `json:"bills"`
	IncomeByMonth  [12]decimal.Decimal `json:"incomeByMonth"`
	ExpenseByMonth [12]decimal.Decimal `json:"expenseByMonth"`
	NetByMonth     [12]decimal.Decimal `json:"netByMonth"`
	IncomeTotal    decimal.Decimal     `json:"incomeTotal"`
	ExpenseTotal   decimal.Decimal     `json:"expenseTotal"`
	Net            decimal.Decimal     `json:"net"`
	Unrecognized   []Unrecognized      `json:"unrecognized"` // Bills whose pattern the projection cannot handle
}

// Unrecognized reports a bill that contributes zero to the projection
// because its recurrence pattern is not handled.
type Unrecognized struct {
	BillID  string                   `json:"billId"`
	Name    string                   `json:"name"`
	Pattern models.RecurrencePattern `json:"pattern"`
}

// Project computes the projection of all bills for a calendar year.
//
// Bills with a pattern the engine does not handle contribute zero. They are
// reported in the Unrecognized list and logged instead of failing the whole
// projection, so one odd bill does not take down the yearly overview.
func Project(year int, bills []models.Bill) Projection {
	p := Projection{Year: year}

	for _, bill := range bills {
		months, ok := contributions(year, bill)
		if !ok {
			log.Warn().
				Str("bill", bill.ID.String()).
				Str("pattern", string(bill.Pattern)).
				Msg("unhandled recurrence pattern, bill contributes zero to projection")

			p.Unrecognized = append(p.Unrecognized, Unrecognized{
				BillID:  bill.ID.String(),
				Name:    bill.Name,
				Pattern: bill.Pattern,
			})
		}

		projection := BillProjection{Bill: bill, Months: months}
		for i, amount := range months {
			projection.Total = projection.Total.Add(amount)

			if bill.Direction == models.DirectionIncome {
				p.IncomeByMonth[i] = p.IncomeByMonth[i].Add(amount)
			} else {
				p.ExpenseByMonth[i] = p.ExpenseByMonth[i].Add(amount)
			}
		}

		if bill.Direction == models.DirectionIncome {
			p.IncomeTotal = p.IncomeTotal.Add(projection.Total)
		} else {
			p.ExpenseTotal = p.ExpenseTotal.Add(projection.Total)
		}

		p.Bills = append(p.Bills, projection)
	}

	// The monthly net is computed independently per month, not derived from
	// the yearly totals
	for i := range p.NetByMonth {
		p.NetByMonth[i] = p.IncomeByMonth[i].Sub(p.ExpenseByMonth[i])
	}

	p.Net = p.IncomeTotal.Sub(p.ExpenseTotal)

	return p
}

// contributions returns the per-month contributions of a bill for a year.
//
// ok is false when the pattern is not handled, in which case all
// contributions are zero.
func contributions(year int, bill models.Bill) (months [12]decimal.Decimal, ok bool) {
	for i := 0; i < 12; i++ {
		amount, handled := monthContribution(year, i, bill)
		if !handled {
			return [12]decimal.Decimal{}, false
		}

		months[i] = amount
	}

	return months, true
}

// monthContribution evaluates the contribution of a bill to a single
// calendar month, index 0-11.
//
// Weekly and biweekly use the days-in-month approximation rather than an
// exact weekday count.
func monthContribution(year, monthIndex int, bill models.Bill) (decimal.Decimal, bool) {
	month := types.NewMonth(year, time.Month(monthIndex+1))

	switch bill.Pattern {
	case models.PatternMonthly:
		// The specific day is informational only, the full amount is due
		// every month
		return bill.Amount, true

	case models.PatternYearly:
		if bill.StartDate.Month() == month.Month() {
			return bill.Amount, true
		}
		return decimal.Zero, true

	case models.PatternWeekly:
		return bill.Amount.Mul(decimal.NewFromInt(int64(month.Days() / 7))), true

	case models.PatternBiweekly:
		return bill.Amount.Mul(decimal.NewFromInt(int64(month.Days() / 14))), true

	case models.PatternBimonthly:
		if monthIndex%2 == 0 {
			return bill.Amount, true
		}
		return decimal.Zero, true

	case models.PatternQuarterly:
		if monthIndex%3 == 0 {
			return bill.Amount, true
		}
		return decimal.Zero, true
	}

	return decimal.Zero, false
}
