package v1_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	v1 "github.com/pennywise/backend/internal/controllers/v1"
	"github.com/pennywise/backend/internal/models"
	"github.com/pennywise/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// accountBalance reads the current balance of an account via the API.
func accountBalance(t *testing.T, account v1.AccountResponse) decimal.Decimal {
	r := test.Request(t, http.MethodGet, account.Data.Links.Self, "")
	test.AssertHTTPStatus(t, &r, http.StatusOK)

	var response v1.AccountResponse
	test.DecodeResponse(t, &r, &response)

	return response.Data.Balance
}

// TestTransactionsDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestTransactionsDBClosed() {
	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				id := uuid.New()
				createTestTransaction(t, v1.TransactionEditable{SourceAccountID: &id}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/transactions", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.TransactionListResponse
				test.DecodeResponse(t, &recorder, &response)
				assert.Contains(t, *response.Error, models.ErrGeneral.Error())
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}

// TestTransactionsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestTransactionsOptions() {
	tests := []struct {
		name   string
		id     string // path at the Transactions endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No Transaction with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Transaction exists", createTestTransaction(suite.T(), v1.TransactionEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/transactions", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

// TestTransactionsCreateBalances verifies that creating transactions
// updates the balances of the affected accounts.
func (suite *TestSuiteStandard) TestTransactionsCreateBalances() {
	checking := createTestAccount(suite.T(), v1.AccountEditable{InitialBalance: decimal.NewFromInt(1000)})
	savings := createTestAccount(suite.T(), v1.AccountEditable{Group: models.AccountGroupSavings})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		Type:            models.TypeExpense,
		Amount:          decimal.RequireFromString("25.50"),
		SourceAccountID: &checking.Data.ID,
	})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		Type:                 models.TypeIncome,
		Amount:               decimal.NewFromInt(3000),
		DestinationAccountID: &checking.Data.ID,
	})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		Type:                 models.TypeTransfer,
		Amount:               decimal.NewFromInt(500),
		SourceAccountID:      &checking.Data.ID,
		DestinationAccountID: &savings.Data.ID,
	})

	balance := accountBalance(suite.T(), checking)
	assert.True(suite.T(), balance.Equal(decimal.RequireFromString("3474.50")), "Checking balance is %s", balance)

	balance = accountBalance(suite.T(), savings)
	assert.True(suite.T(), balance.Equal(decimal.NewFromInt(500)), "Savings balance is %s", balance)
}

// TestTransactionsAutoCategory verifies that transactions without an
// explicit category are categorized by the matching rule.
func (suite *TestSuiteStandard) TestTransactionsAutoCategory() {
	groceries := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries"})
	_ = createTestCategoryRule(suite.T(), v1.CategoryRuleEditable{Match: "REWE*", CategoryID: groceries.Data.ID})

	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{Note: "REWE Berlin Mitte"})

	if assert.NotNil(suite.T(), transaction.Data.CategoryID) {
		assert.Equal(suite.T(), groceries.Data.ID, *transaction.Data.CategoryID)
	}

	// No rule matches
	transaction = createTestTransaction(suite.T(), v1.TransactionEditable{Note: "Berliner Verkehrsbetriebe"})
	assert.Nil(suite.T(), transaction.Data.CategoryID)
}

func (suite *TestSuiteStandard) TestTransactionsCreateFails() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	missing := uuid.New()

	tests := []struct {
		name     string
		body     any
		status   int                                                // expected HTTP status
		testFunc func(t *testing.T, r v1.TransactionCreateResponse) // tests to perform against the response
	}{
		{
			"Broken Body", `[{ "note": 2 }]`, http.StatusBadRequest,
			func(t *testing.T, r v1.TransactionCreateResponse) {
				assert.Equal(t, "json: cannot unmarshal number into Go struct field TransactionEditable.note of type string", *r.Error)
			},
		},
		{
			"No body", "", http.StatusBadRequest,
			func(t *testing.T, r v1.TransactionCreateResponse) {
				assert.Equal(t, "the request body must not be empty", *r.Error)
			},
		},
		{
			"No amount",
			[]v1.TransactionEditable{{Type: models.TypeExpense, SourceAccountID: &account.Data.ID}},
			http.StatusBadRequest,
			func(t *testing.T, r v1.TransactionCreateResponse) {
				assert.Equal(t, models.ErrTransactionAmountNotPositive.Error(), *r.Data[0].Error)
			},
		},
		{
			"Invalid type",
			`[{ "type": "donation", "amount": "10", "sourceAccountId": "` + account.Data.ID.String() + `" }]`,
			http.StatusBadRequest,
			func(t *testing.T, r v1.TransactionCreateResponse) {
				assert.Equal(t, models.ErrTransactionTypeInvalid.Error(), *r.Data[0].Error)
			},
		},
		{
			"Expense without source",
			[]v1.TransactionEditable{{Type: models.TypeExpense, Amount: decimal.NewFromInt(10)}},
			http.StatusBadRequest,
			func(t *testing.T, r v1.TransactionCreateResponse) {
				assert.Equal(t, models.ErrTransactionSourceNotSet.Error(), *r.Data[0].Error)
			},
		},
		{
			"Transfer to the same account",
			[]v1.TransactionEditable{{Type: models.TypeTransfer, Amount: decimal.NewFromInt(10), SourceAccountID: &account.Data.ID, DestinationAccountID: &account.Data.ID}},
			http.StatusBadRequest,
			func(t *testing.T, r v1.TransactionCreateResponse) {
				assert.Equal(t, models.ErrSourceDoesNotEqualDestination.Error(), *r.Data[0].Error)
			},
		},
		{
			"Non-existing source account",
			[]v1.TransactionEditable{{Type: models.TypeExpense, Amount: decimal.NewFromInt(10), SourceAccountID: &missing}},
			http.StatusNotFound,
			func(t *testing.T, r v1.TransactionCreateResponse) {
				assert.Equal(t, "there is no account matching your query", *r.Data[0].Error)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/transactions", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.TransactionCreateResponse
			test.DecodeResponse(t, &r, &response)

			if tt.testFunc != nil {
				tt.testFunc(t, response)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsGetFilter() {
	wallet := createTestAccount(suite.T(), v1.AccountEditable{})
	employer := createTestAccount(suite.T(), v1.AccountEditable{})
	groceries := createTestCategory(suite.T(), v1.CategoryEditable{Name: "Groceries"})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		Date:            time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC),
		Type:            models.TypeExpense,
		Amount:          decimal.RequireFromString("12.30"),
		Note:            "Weekly market",
		SourceAccountID: &wallet.Data.ID,
		CategoryID:      &groceries.Data.ID,
	})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		Date:                 time.Date(2024, 2, 15, 12, 0, 0, 0, time.UTC),
		Type:                 models.TypeIncome,
		Amount:               decimal.NewFromInt(3000),
		SourceAccountID:      &employer.Data.ID,
		DestinationAccountID: &wallet.Data.ID,
	})

	_ = createTestTransaction(suite.T(), v1.TransactionEditable{
		Date:            time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC),
		Type:            models.TypeExpense,
		Amount:          decimal.RequireFromString("49.99"),
		Note:            "Concert tickets",
		SourceAccountID: &wallet.Data.ID,
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Type expense", "type=expense", 2},
		{"Type income", "type=income", 1},
		{"Date", "date=2024-02-15T23:00:00Z", 1},
		{"From date", "fromDate=2024-02-15T00:00:00Z", 2},
		{"Until date", "untilDate=2024-02-15T00:00:00Z", 2},
		{"Date range", "fromDate=2024-02-11T00:00:00Z&untilDate=2024-02-28T00:00:00Z", 1},
		{"Amount less or equal", "amountLessOrEqual=49.99", 2},
		{"Amount more or equal", "amountMoreOrEqual=3000", 1},
		{"Amount range", "amountMoreOrEqual=12.30&amountLessOrEqual=50", 2},
		{"Fuzzy note", "note=market", 1},
		{"Empty note", "note=", 1},
		{"Category", fmt.Sprintf("category=%s", groceries.Data.ID), 1},
		{"Source", fmt.Sprintf("source=%s", wallet.Data.ID), 2},
		{"Destination", fmt.Sprintf("destination=%s", wallet.Data.ID), 1},
		{"Account on either side", fmt.Sprintf("account=%s", wallet.Data.ID), 3},
		{"Limit 1", "limit=1", 1},
		{"Offset 1", "offset=1", 2},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.TransactionListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/transactions?%s", tt.query), "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestTransactionsGetFilterDateInvalid() {
	tests := []string{"date", "fromDate", "untilDate"}

	for _, param := range tests {
		suite.T().Run(param, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/transactions?%s=2024-02-31", param), "")
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response v1.TransactionListResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, "date filters must be RFC3339 timestamps", *response.Error)
		})
	}
}

// TestTransactionsSorted verifies that transactions are returned with the
// most recent one first.
func (suite *TestSuiteStandard) TestTransactionsSorted() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})

	for _, date := range []time.Time{
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	} {
		_ = createTestTransaction(suite.T(), v1.TransactionEditable{Date: date, SourceAccountID: &account.Data.ID})
	}

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/transactions", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.TransactionListResponse
	test.DecodeResponse(suite.T(), &r, &response)

	if !assert.Len(suite.T(), response.Data, 3) {
		assert.FailNow(suite.T(), "Response does not have exactly 3 items")
	}

	assert.Equal(suite.T(), time.March, response.Data[0].Date.Month())
	assert.Equal(suite.T(), time.February, response.Data[1].Date.Month())
	assert.Equal(suite.T(), time.January, response.Data[2].Date.Month())
}

// TestTransactionsUpdate verifies that updates adjust the account balances.
func (suite *TestSuiteStandard) TestTransactionsUpdate() {
	account := createTestAccount(suite.T(), v1.AccountEditable{InitialBalance: decimal.NewFromInt(100)})

	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{
		Type:            models.TypeExpense,
		Amount:          decimal.NewFromInt(30),
		SourceAccountID: &account.Data.ID,
	})

	balance := accountBalance(suite.T(), account)
	assert.True(suite.T(), balance.Equal(decimal.NewFromInt(70)), "Balance is %s", balance)

	r := test.Request(suite.T(), http.MethodPatch, transaction.Data.Links.Self, map[string]any{
		"amount": "45",
		"note":   "Was more expensive than expected",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.TransactionResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assert.True(suite.T(), updated.Data.Amount.Equal(decimal.NewFromInt(45)))

	balance = accountBalance(suite.T(), account)
	assert.True(suite.T(), balance.Equal(decimal.NewFromInt(55)), "Balance is %s", balance)
}

func (suite *TestSuiteStandard) TestTransactionsUpdateFails() {
	tests := []struct {
		name   string
		id     string
		body   any
		status int // expected response status
	}{
		{"Invalid type", "", `{"note": 2}`, http.StatusBadRequest},
		{"Broken JSON", "", `{ "note": 2" }`, http.StatusBadRequest},
		{"Non-existing Transaction", uuid.New().String(), `{"note": "Does not matter"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var recorder httptest.ResponseRecorder

			if tt.id == "" {
				transaction := createTestTransaction(suite.T(), v1.TransactionEditable{})
				tt.id = transaction.Data.ID.String()
			}

			recorder = test.Request(t, http.MethodPatch, fmt.Sprintf("http://example.com/v1/transactions/%s", tt.id), tt.body)
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

// TestTransactionsDelete verifies that deletions reverse the balance
// changes of the transaction.
func (suite *TestSuiteStandard) TestTransactionsDelete() {
	account := createTestAccount(suite.T(), v1.AccountEditable{InitialBalance: decimal.NewFromInt(100)})

	transaction := createTestTransaction(suite.T(), v1.TransactionEditable{
		Type:            models.TypeExpense,
		Amount:          decimal.NewFromInt(30),
		SourceAccountID: &account.Data.ID,
	})

	r := test.Request(suite.T(), http.MethodDelete, transaction.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	balance := accountBalance(suite.T(), account)
	assert.True(suite.T(), balance.Equal(decimal.NewFromInt(100)), "Balance is %s", balance)

	r = test.Request(suite.T(), http.MethodDelete, transaction.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
