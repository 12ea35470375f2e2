package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/pennywise/backend/internal/models"
	"github.com/shopspring/decimal"
)

type AccountEditable struct {
	Name           string              `json:"name" example:"Checking" default:""`                                     // Name of the account
	Note           string              `json:"note" example:"My main account" default:""`                              // A longer description
	Currency       string              `json:"currency" example:"EUR" default:"EUR"`                                   // ISO 4217 currency code
	Group          models.AccountGroup `json:"group" example:"main" default:"main"`                                    // One of main, savings, investment, goals
	InitialBalance decimal.Decimal     `json:"initialBalance" example:"173.12" default:"0"`                            // Balance of the account before the first transaction
	Archived       bool                `json:"archived" example:"true" default:"false"`                                // Is the account archived?
}

// model returns the database resource for the API representation of the editable fields
func (editable AccountEditable) model() models.Account {
	return models.Account{
		Name:           editable.Name,
		Note:           editable.Note,
		Currency:       editable.Currency,
		Group:          editable.Group,
		InitialBalance: editable.InitialBalance,
		Archived:       editable.Archived,
	}
}

type AccountLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/accounts/af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`                     // The Account itself
	Transactions string `json:"transactions" example:"https://example.com/api/v1/transactions?account=af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"` // Transactions referencing the account
}

type Account struct {
	models.DefaultModel
	AccountEditable
	Balance decimal.Decimal `json:"balance" example:"2735.17"` // Current balance, maintained by the transaction ledger
	Links   AccountLinks    `json:"links"`
}

// newAccount returns the API v1 representation of the resource
func newAccount(c *gin.Context, model models.Account) Account {
	url := c.GetString(string(models.DBContextURL))

	return Account{
		DefaultModel: model.DefaultModel,
		AccountEditable: AccountEditable{
			Name:           model.Name,
			Note:           model.Note,
			Currency:       model.Currency,
			Group:          model.Group,
			InitialBalance: model.InitialBalance,
			Archived:       model.Archived,
		},
		Balance: model.Balance,
		Links: AccountLinks{
			Self:         fmt.Sprintf("%s/v1/accounts/%s", url, model.ID),
			Transactions: fmt.Sprintf("%s/v1/transactions?account=%s", url, model.ID),
		},
	}
}

type AccountListResponse struct {
	Data       []Account   `json:"data"`                                                          // List of resources
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type AccountCreateResponse struct {
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []AccountResponse `json:"data"`                                                          // List of created resources
}

func (a *AccountCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	a.Data = append(a.Data, AccountResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type AccountResponse struct {
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Account `json:"data"`                                                          // The resource
}

type AccountQueryFilter struct {
	Name     string              `form:"name" filterField:"false"`   // Fuzzy filter for the account name
	Note     string              `form:"note" filterField:"false"`   // Fuzzy filter for the note
	Search   string              `form:"search" filterField:"false"` // By string in name or note
	Currency string              `form:"currency"`                   // By currency
	Group    models.AccountGroup `form:"group"`                      // By account group
	Archived bool                `form:"archived"`                   // Is the account archived?
	Offset   uint                `form:"offset" filterField:"false"` // The offset of the first account returned. Defaults to 0.
	Limit    int                 `form:"limit" filterField:"false"`  // Maximum number of accounts to return. Defaults to 50.
}

func (f AccountQueryFilter) model() (models.Account, error) {
	return models.Account{
		Currency: f.Currency,
		Group:    f.Group,
		Archived: f.Archived,
	}, nil
}
