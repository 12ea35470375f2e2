package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pennywise/backend/internal/models"
	"github.com/pennywise/backend/internal/portfolio"
	"github.com/shopspring/decimal"
)

type InvestmentAccountEditable struct {
	Name          string          `json:"name" example:"Broker" default:""`                                                                           // Name of the investment account
	Note          string          `json:"note" example:"Monthly savings plan" default:""`                                                             // A longer description
	Currency      string          `json:"currency" example:"EUR" default:"EUR"`                                                                       // ISO 4217 currency code
	TotalDeposits decimal.Decimal `json:"totalDeposits" example:"10000" minimum:"0" maximum:"999999999999.99999999" multipleOf:"0.00000001" default:"0"` // Sum of all deposits into the account
	Archived      bool            `json:"archived" example:"true" default:"false"`                                                                    // Is the account archived?
}

// model returns the database resource for the API representation of the editable fields
func (editable InvestmentAccountEditable) model() models.InvestmentAccount {
	return models.InvestmentAccount{
		Name:          editable.Name,
		Note:          editable.Note,
		Currency:      editable.Currency,
		TotalDeposits: editable.TotalDeposits,
		Archived:      editable.Archived,
	}
}

type InvestmentAccountLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/investment-accounts/d1397e5f-45e4-44e6-84cd-22381a4a5e85"`                    // The investment account itself
	Allocations string `json:"allocations" example:"https://example.com/api/v1/allocations?account=d1397e5f-45e4-44e6-84cd-22381a4a5e85"`             // Allocations of the account
	Valuation   string `json:"valuation" example:"https://example.com/api/v1/investment-accounts/d1397e5f-45e4-44e6-84cd-22381a4a5e85/valuation"`     // Current valuation of the account
}

type InvestmentAccount struct {
	models.DefaultModel
	InvestmentAccountEditable
	Links InvestmentAccountLinks `json:"links"`
}

// newInvestmentAccount returns the API v1 representation of the resource
func newInvestmentAccount(c *gin.Context, model models.InvestmentAccount) InvestmentAccount {
	url := c.GetString(string(models.DBContextURL))

	return InvestmentAccount{
		DefaultModel: model.DefaultModel,
		InvestmentAccountEditable: InvestmentAccountEditable{
			Name:          model.Name,
			Note:          model.Note,
			Currency:      model.Currency,
			TotalDeposits: model.TotalDeposits,
			Archived:      model.Archived,
		},
		Links: InvestmentAccountLinks{
			Self:        fmt.Sprintf("%s/v1/investment-accounts/%s", url, model.ID),
			Allocations: fmt.Sprintf("%s/v1/allocations?account=%s", url, model.ID),
			Valuation:   fmt.Sprintf("%s/v1/investment-accounts/%s/valuation", url, model.ID),
		},
	}
}

type InvestmentAccountListResponse struct {
	Data       []InvestmentAccount `json:"data"`                                                          // List of resources
	Error      *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination         `json:"pagination"`                                                    // Pagination information
}

type InvestmentAccountCreateResponse struct {
	Error *string                     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []InvestmentAccountResponse `json:"data"`                                                          // List of created resources
}

func (t *InvestmentAccountCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, InvestmentAccountResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type InvestmentAccountResponse struct {
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *InvestmentAccount `json:"data"`                                                          // The resource
}

type InvestmentAccountQueryFilter struct {
	Name     string `form:"name" filterField:"false"`   // Fuzzy filter for the name
	Note     string `form:"note" filterField:"false"`   // Fuzzy filter for the note
	Search   string `form:"search" filterField:"false"` // By string in name or note
	Currency string `form:"currency"`                   // By currency code
	Archived bool   `form:"archived"`                   // Is the account archived?
	Offset   uint   `form:"offset" filterField:"false"` // The offset of the first account returned. Defaults to 0.
	Limit    int    `form:"limit" filterField:"false"`  // Maximum number of accounts to return. Defaults to 50.
}

func (f InvestmentAccountQueryFilter) model() (models.InvestmentAccount, error) {
	return models.InvestmentAccount{
		Currency: f.Currency,
		Archived: f.Archived,
	}, nil
}

// ValuationResponse is the current valuation of an investment account.
type ValuationResponse struct {
	Error *string                     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *portfolio.AccountValuation `json:"data"`                                                          // The valuation
}

// RebalanceEditable selects the strategy for a rebalancing proposal.
type RebalanceEditable struct {
	Strategy portfolio.RebalanceStrategy `json:"strategy" example:"equal"` // One of equal, proportional
}

// RebalanceResponse is a rebalancing proposal. Nothing is applied yet, the
// user may edit the proposed percentages before applying them.
type RebalanceResponse struct {
	Error *string                        `json:"error" example:"the allocation percentages must sum to 100"` // The error, if any occurred
	Data  []portfolio.ProposedPercentage `json:"data"`                                                       // The proposed percentages
}

// RebalanceApplyEditable is the percentage set to apply to the active
// allocations of an account. Every active allocation must be present.
type RebalanceApplyEditable struct {
	Percentages map[uuid.UUID]decimal.Decimal `json:"percentages"` // New percentage per allocation ID
}
