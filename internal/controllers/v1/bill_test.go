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

// TestBillsDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestBillsDBClosed() {
	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestBill(t, v1.BillEditable{AccountID: uuid.New()}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/bills", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.BillListResponse
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

// TestBillsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestBillsOptions() {
	tests := []struct {
		name   string
		id     string // path at the Bills endpoint to test
		status int    // Expected HTTP status code
	}{
		{"No Bill with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Bill exists", createTestBill(suite.T(), v1.BillEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/bills", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestBillsGetSingle() {
	bill := createTestBill(suite.T(), v1.BillEditable{Name: "Rent"})

	r := test.Request(suite.T(), http.MethodGet, bill.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.BillResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), "Rent", response.Data.Name)
}

func (suite *TestSuiteStandard) TestBillsGetFilter() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})
	day := 1

	_ = createTestBill(suite.T(), v1.BillEditable{
		Name:        "Rent",
		Note:        "Includes utilities",
		Amount:      decimal.NewFromInt(850),
		Direction:   models.DirectionExpense,
		Pattern:     models.PatternMonthly,
		SpecificDay: &day,
		AccountID:   account.Data.ID,
	})

	_ = createTestBill(suite.T(), v1.BillEditable{
		Name:      "Salary",
		Amount:    decimal.NewFromInt(3000),
		Direction: models.DirectionIncome,
		Pattern:   models.PatternMonthly,
		SpecificDay: &day,
		AccountID: account.Data.ID,
	})

	_ = createTestBill(suite.T(), v1.BillEditable{
		Name:      "Old gym membership",
		Note:      "Canceled in 2023",
		Amount:    decimal.NewFromInt(20),
		Direction: models.DirectionExpense,
		Pattern:   models.PatternWeekly,
		Archived:  true,
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Direction expense", "direction=expense", 2},
		{"Direction income", "direction=income", 1},
		{"Pattern monthly", "pattern=monthly", 2},
		{"Pattern weekly", "pattern=weekly", 1},
		{"Account", fmt.Sprintf("account=%s", account.Data.ID), 2},
		{"Archived", "archived=true", 1},
		{"Not archived", "archived=false", 2},
		{"Fuzzy name", "name=rent", 1},
		{"Empty note", "note=", 1},
		{"Search", "search=UTILITIES", 1},
		{"Limit 2", "limit=2", 2},
		{"Offset 2", "offset=2", 1},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.BillListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("/v1/bills?%s", tt.query), "")
			test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestBillsCreateFails() {
	account := createTestAccount(suite.T(), v1.AccountEditable{})

	tests := []struct {
		name     string
		body     any
		status   int                                         // expected HTTP status
		testFunc func(t *testing.T, r v1.BillCreateResponse) // tests to perform against the response
	}{
		{
			"Broken Body", `[{ "name": 2 }]`, http.StatusBadRequest,
			func(t *testing.T, r v1.BillCreateResponse) {
				assert.Equal(t, "json: cannot unmarshal number into Go struct field BillEditable.name of type string", *r.Error)
			},
		},
		{
			"No body", "", http.StatusBadRequest,
			func(t *testing.T, r v1.BillCreateResponse) {
				assert.Equal(t, "the request body must not be empty", *r.Error)
			},
		},
		{
			"No name",
			[]v1.BillEditable{{Amount: decimal.NewFromInt(10), AccountID: account.Data.ID, Direction: models.DirectionExpense, Pattern: models.PatternWeekly}},
			http.StatusBadRequest,
			func(t *testing.T, r v1.BillCreateResponse) {
				assert.Equal(t, models.ErrBillNameNotSet.Error(), *r.Data[0].Error)
			},
		},
		{
			"No amount",
			[]v1.BillEditable{{Name: "Zero", AccountID: account.Data.ID, Direction: models.DirectionExpense, Pattern: models.PatternWeekly}},
			http.StatusBadRequest,
			func(t *testing.T, r v1.BillCreateResponse) {
				assert.Equal(t, models.ErrBillAmountNotPositive.Error(), *r.Data[0].Error)
			},
		},
		{
			"Invalid pattern",
			`[{ "name": "Rent", "amount": "850", "direction": "expense", "pattern": "fortnightly", "accountId": "` + account.Data.ID.String() + `" }]`,
			http.StatusBadRequest,
			func(t *testing.T, r v1.BillCreateResponse) {
				assert.Equal(t, models.ErrBillPatternInvalid.Error(), *r.Data[0].Error)
			},
		},
		{
			"Monthly without specific day",
			[]v1.BillEditable{{Name: "Rent", Amount: decimal.NewFromInt(850), AccountID: account.Data.ID, Direction: models.DirectionExpense, Pattern: models.PatternMonthly}},
			http.StatusBadRequest,
			func(t *testing.T, r v1.BillCreateResponse) {
				assert.Equal(t, models.ErrBillSpecificDayNotSet.Error(), *r.Data[0].Error)
			},
		},
		{
			"Non-existing account",
			[]v1.BillEditable{{Name: "Rent", Amount: decimal.NewFromInt(850), AccountID: uuid.New(), Direction: models.DirectionExpense, Pattern: models.PatternWeekly}},
			http.StatusNotFound,
			func(t *testing.T, r v1.BillCreateResponse) {
				assert.Equal(t, "there is no account matching your query", *r.Data[0].Error)
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/bills", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.BillCreateResponse
			test.DecodeResponse(t, &r, &response)

			if tt.testFunc != nil {
				tt.testFunc(t, response)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestBillsUpdate() {
	bill := createTestBill(suite.T(), v1.BillEditable{Name: "Internet"})

	r := test.Request(suite.T(), http.MethodPatch, bill.Data.Links.Self, map[string]any{
		"amount": "39.99",
		"note":   "Price increase in March",
	})
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.BillResponse
	test.DecodeResponse(suite.T(), &r, &updated)

	assert.True(suite.T(), updated.Data.Amount.Equal(decimal.RequireFromString("39.99")))
	assert.Equal(suite.T(), "Price increase in March", updated.Data.Note)
}

func (suite *TestSuiteStandard) TestBillsUpdateFails() {
	tests := []struct {
		name   string
		id     string
		body   any
		status int // expected response status
	}{
		{"Invalid type", "", `{"name": 2}`, http.StatusBadRequest},
		{"Broken JSON", "", `{ "name": 2" }`, http.StatusBadRequest},
		{"Non-existing Bill", uuid.New().String(), `{"name": "Does not matter"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var recorder httptest.ResponseRecorder

			if tt.id == "" {
				bill := createTestBill(suite.T(), v1.BillEditable{})
				tt.id = bill.Data.ID.String()
			}

			recorder = test.Request(t, http.MethodPatch, fmt.Sprintf("http://example.com/v1/bills/%s", tt.id), tt.body)
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

// TestBillsDelete verifies all cases for Bill deletions.
func (suite *TestSuiteStandard) TestBillsDelete() {
	tests := []struct {
		name   string
		id     string
		status int // expected response status
	}{
		{"Success", "", http.StatusNoContent},
		{"Non-existing Bill", uuid.New().String(), http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var recorder httptest.ResponseRecorder

			if tt.id == "" {
				bill := createTestBill(t, v1.BillEditable{})
				tt.id = bill.Data.ID.String()
			}

			recorder = test.Request(t, http.MethodDelete, fmt.Sprintf("http://example.com/v1/bills/%s", tt.id), "")
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

// TestBillsProjection verifies the yearly projection of active bills.
func (suite *TestSuiteStandard) TestBillsProjection() {
	day := 1

	_ = createTestBill(suite.T(), v1.BillEditable{
		Name:        "Rent",
		Amount:      decimal.NewFromInt(850),
		Direction:   models.DirectionExpense,
		Pattern:     models.PatternMonthly,
		SpecificDay: &day,
	})

	_ = createTestBill(suite.T(), v1.BillEditable{
		Name:      "Christmas bonus",
		Amount:    decimal.NewFromInt(500),
		Direction: models.DirectionIncome,
		Pattern:   models.PatternYearly,
		SpecificDay: &day,
		StartDate: time.Date(2020, 12, 1, 0, 0, 0, 0, time.UTC),
	})

	// Archived bills do not contribute
	_ = createTestBill(suite.T(), v1.BillEditable{
		Name:        "Old loan",
		Amount:      decimal.NewFromInt(200),
		Direction:   models.DirectionExpense,
		Pattern:     models.PatternMonthly,
		SpecificDay: &day,
		Archived:    true,
	})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/bills/projection?year=2025", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ProjectionResponse
	test.DecodeResponse(suite.T(), &r, &response)

	projection := response.Data
	assert.Equal(suite.T(), 2025, projection.Year)
	assert.Len(suite.T(), projection.Bills, 2)

	assert.True(suite.T(), projection.ExpenseTotal.Equal(decimal.NewFromInt(10200)), "Expense total is %s", projection.ExpenseTotal)
	assert.True(suite.T(), projection.IncomeTotal.Equal(decimal.NewFromInt(500)), "Income total is %s", projection.IncomeTotal)
	assert.True(suite.T(), projection.Net.Equal(decimal.NewFromInt(-9700)), "Net is %s", projection.Net)

	// The bonus is only due in December
	assert.True(suite.T(), projection.IncomeByMonth[11].Equal(decimal.NewFromInt(500)))
	assert.True(suite.T(), projection.IncomeByMonth[0].IsZero())
	assert.True(suite.T(), projection.NetByMonth[11].Equal(decimal.NewFromInt(-350)))

	assert.Empty(suite.T(), projection.Unrecognized)
}

// TestBillsProjectionDefaultYear verifies that the projection defaults to
// the current year.
func (suite *TestSuiteStandard) TestBillsProjectionDefaultYear() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/bills/projection", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ProjectionResponse
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), time.Now().Year(), response.Data.Year)
}

func (suite *TestSuiteStandard) TestBillsProjectionInvalidYear() {
	tests := []string{"two-thousand", "25", "123456"}

	for _, year := range tests {
		suite.T().Run(year, func(t *testing.T) {
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/bills/projection?year=%s", year), "")
			test.AssertHTTPStatus(t, &r, http.StatusBadRequest)

			var response v1.ProjectionResponse
			test.DecodeResponse(t, &r, &response)
			assert.Equal(t, "the year query parameter must be a four digit year", *response.Error)
		})
	}
}
