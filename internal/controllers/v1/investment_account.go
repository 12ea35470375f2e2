package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pennywise/backend/internal/httputil"
	"github.com/pennywise/backend/internal/models"
	"github.com/pennywise/backend/internal/portfolio"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

func RegisterInvestmentAccountRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsInvestmentAccounts)
		r.GET("", GetInvestmentAccounts)
		r.POST("", CreateInvestmentAccounts)
	}
	{
		r.OPTIONS("/:id", OptionsInvestmentAccountDetail)
		r.GET("/:id", GetInvestmentAccount)
		r.PATCH("/:id", UpdateInvestmentAccount)
		r.DELETE("/:id", DeleteInvestmentAccount)
	}
	{
		r.OPTIONS("/:id/valuation", OptionsInvestmentAccountValuation)
		r.GET("/:id/valuation", GetInvestmentAccountValuation)
	}
	{
		r.OPTIONS("/:id/rebalance", OptionsInvestmentAccountRebalance)
		r.POST("/:id/rebalance", ProposeRebalance)
		r.POST("/:id/rebalance/apply", ApplyRebalance)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			InvestmentAccounts
// @Success		204
// @Router			/v1/investment-accounts [options]
func OptionsInvestmentAccounts(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			InvestmentAccounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/investment-accounts/{id} [options]
func OptionsInvestmentAccountDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.InvestmentAccount{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			InvestmentAccounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/investment-accounts/{id}/valuation [options]
func OptionsInvestmentAccountValuation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.InvestmentAccount{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			InvestmentAccounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/investment-accounts/{id}/rebalance [options]
func OptionsInvestmentAccountRebalance(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.InvestmentAccount{}, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPost(c)
}

// @Summary		Create investment accounts
// @Description	Creates new investment accounts
// @Tags			InvestmentAccounts
// @Produce		json
// @Success		201			{object}	InvestmentAccountCreateResponse
// @Failure		400			{object}	InvestmentAccountCreateResponse
// @Failure		500			{object}	InvestmentAccountCreateResponse
// @Param			accounts	body		[]InvestmentAccountEditable	true	"InvestmentAccounts"
// @Router			/v1/investment-accounts [post]
func CreateInvestmentAccounts(c *gin.Context) {
	var accounts []InvestmentAccountEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &accounts)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvestmentAccountCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	s := http.StatusCreated
	r := InvestmentAccountCreateResponse{}

	for _, editable := range accounts {
		account := editable.model()
		err = models.DB.Create(&account).Error
		if err != nil {
			s = r.appendError(err, s)
			continue
		}

		apiResource := newInvestmentAccount(c, account)
		r.Data = append(r.Data, InvestmentAccountResponse{Data: &apiResource})
	}

	c.JSON(s, r)
}

// @Summary		List investment accounts
// @Description	Returns a list of investment accounts
// @Tags			InvestmentAccounts
// @Produce		json
// @Success		200	{object}	InvestmentAccountListResponse
// @Failure		400	{object}	InvestmentAccountListResponse
// @Failure		500	{object}	InvestmentAccountListResponse
// @Router			/v1/investment-accounts [get]
// @Param			name		query	string	false	"Filter by name"
// @Param			note		query	string	false	"Filter by note"
// @Param			search		query	string	false	"Search for this text in name and note"
// @Param			currency	query	string	false	"Filter by currency code"
// @Param			archived	query	bool	false	"Is the account archived?"
// @Param			offset		query	uint	false	"The offset of the first account returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of accounts to return. Defaults to 50."
func GetInvestmentAccounts(c *gin.Context) {
	var filter InvestmentAccountQueryFilter

	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, InvestmentAccountListResponse{
			Error: &s,
		})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), InvestmentAccountListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("investment_accounts.name ASC").
		Where(&where, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Note, filter.Search)

	q = q.Offset(int(filter.Offset))

	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var accounts []models.InvestmentAccount
	err = q.Find(&accounts).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), InvestmentAccountListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvestmentAccountListResponse{
			Error: &e,
		})
		return
	}

	// Transform resources to their API representation
	data := make([]InvestmentAccount, 0, len(accounts))
	for _, account := range accounts {
		data = append(data, newInvestmentAccount(c, account))
	}

	c.JSON(http.StatusOK, InvestmentAccountListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get investment account
// @Description	Returns a specific investment account
// @Tags			InvestmentAccounts
// @Produce		json
// @Success		200	{object}	InvestmentAccountResponse
// @Failure		400	{object}	InvestmentAccountResponse
// @Failure		404	{object}	InvestmentAccountResponse
// @Failure		500	{object}	InvestmentAccountResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/investment-accounts/{id} [get]
func GetInvestmentAccount(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvestmentAccountResponse{
			Error: &e,
		})
		return
	}

	var account models.InvestmentAccount
	err = models.DB.First(&account, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvestmentAccountResponse{
			Error: &e,
		})
		return
	}

	apiResource := newInvestmentAccount(c, account)
	c.JSON(http.StatusOK, InvestmentAccountResponse{Data: &apiResource})
}

// @Summary		Get valuation
// @Description	Returns the current valuation of the investment account over its active allocations
// @Tags			InvestmentAccounts
// @Produce		json
// @Success		200	{object}	ValuationResponse
// @Failure		400	{object}	ValuationResponse
// @Failure		404	{object}	ValuationResponse
// @Failure		500	{object}	ValuationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/investment-accounts/{id}/valuation [get]
func GetInvestmentAccountValuation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ValuationResponse{
			Error: &e,
		})
		return
	}

	var account models.InvestmentAccount
	err = models.DB.First(&account, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ValuationResponse{
			Error: &e,
		})
		return
	}

	allocations, err := account.ActiveAllocations(models.DB)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ValuationResponse{
			Error: &e,
		})
		return
	}

	valuation := portfolio.ValueAccount(account, allocations)
	c.JSON(http.StatusOK, ValuationResponse{Data: &valuation})
}

// @Summary		Propose rebalancing
// @Description	Calculates new percentages for the active allocations of the account so that they sum to 100. Nothing is applied, the proposal can be edited and then applied separately.
// @Tags			InvestmentAccounts
// @Accept			json
// @Produce		json
// @Success		200			{object}	RebalanceResponse
// @Failure		400			{object}	RebalanceResponse
// @Failure		404			{object}	RebalanceResponse
// @Failure		500			{object}	RebalanceResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			rebalance	body		RebalanceEditable	true	"Rebalance"
// @Router			/v1/investment-accounts/{id}/rebalance [post]
func ProposeRebalance(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RebalanceResponse{
			Error: &e,
		})
		return
	}

	var account models.InvestmentAccount
	err = models.DB.First(&account, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RebalanceResponse{
			Error: &e,
		})
		return
	}

	var editable RebalanceEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RebalanceResponse{
			Error: &e,
		})
		return
	}

	allocations, err := account.ActiveAllocations(models.DB)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RebalanceResponse{
			Error: &e,
		})
		return
	}

	proposals, err := portfolio.Propose(editable.Strategy, allocations)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, RebalanceResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, RebalanceResponse{Data: proposals})
}

// @Summary		Apply rebalancing
// @Description	Applies a percentage set to the active allocations of the account. Every active allocation must be present and the percentages must sum to 100 within a tolerance of 0.1.
// @Tags			InvestmentAccounts
// @Accept			json
// @Produce		json
// @Success		200			{object}	RebalanceResponse
// @Failure		400			{object}	RebalanceResponse
// @Failure		404			{object}	RebalanceResponse
// @Failure		500			{object}	RebalanceResponse
// @Param			id			path		URIID					true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			rebalance	body		RebalanceApplyEditable	true	"Percentages"
// @Router			/v1/investment-accounts/{id}/rebalance/apply [post]
func ApplyRebalance(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RebalanceResponse{
			Error: &e,
		})
		return
	}

	var account models.InvestmentAccount
	err = models.DB.First(&account, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RebalanceResponse{
			Error: &e,
		})
		return
	}

	var editable RebalanceApplyEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RebalanceResponse{
			Error: &e,
		})
		return
	}

	allocations, err := account.ActiveAllocations(models.DB)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RebalanceResponse{
			Error: &e,
		})
		return
	}

	if len(allocations) == 0 {
		e := portfolio.ErrRebalanceNoAllocations.Error()
		c.JSON(http.StatusBadRequest, RebalanceResponse{
			Error: &e,
		})
		return
	}

	// Every active allocation needs a percentage, otherwise the total of the
	// account would silently drift
	percentages := make([]decimal.Decimal, 0, len(allocations))
	for _, allocation := range allocations {
		p, ok := editable.Percentages[allocation.ID]
		if !ok {
			e := errRebalancePercentagesMissing.Error()
			c.JSON(http.StatusBadRequest, RebalanceResponse{
				Error: &e,
			})
			return
		}
		percentages = append(percentages, p)
	}

	err = portfolio.ValidateTotal(percentages)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, RebalanceResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		for i := range allocations {
			err := tx.Model(&allocations[i]).
				Select("Percentage").
				Updates(models.Allocation{Percentage: percentages[i]}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RebalanceResponse{
			Error: &e,
		})
		return
	}

	applied := make([]portfolio.ProposedPercentage, 0, len(allocations))
	for i, allocation := range allocations {
		applied = append(applied, portfolio.ProposedPercentage{
			AllocationID: allocation.ID,
			Current:      percentages[i],
			Proposed:     percentages[i],
		})
	}

	c.JSON(http.StatusOK, RebalanceResponse{Data: applied})
}

// @Summary		Update investment account
// @Description	Updates an existing investment account. Only values to be updated need to be specified.
// @Tags			InvestmentAccounts
// @Accept			json
// @Produce		json
// @Success		200		{object}	InvestmentAccountResponse
// @Failure		400		{object}	InvestmentAccountResponse
// @Failure		404		{object}	InvestmentAccountResponse
// @Failure		500		{object}	InvestmentAccountResponse
// @Param			id		path		URIID						true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			account	body		InvestmentAccountEditable	true	"InvestmentAccount"
// @Router			/v1/investment-accounts/{id} [patch]
func UpdateInvestmentAccount(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvestmentAccountResponse{
			Error: &e,
		})
		return
	}

	var account models.InvestmentAccount
	err = models.DB.First(&account, uri.ID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvestmentAccountResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, InvestmentAccountEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvestmentAccountResponse{
			Error: &e,
		})
		return
	}

	// Bind the data for the patch
	var data InvestmentAccountEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvestmentAccountResponse{
			Error: &e,
		})
		return
	}

	err = models.DB.Model(&account).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), InvestmentAccountResponse{
			Error: &e,
		})
		return
	}

	apiResource := newInvestmentAccount(c, account)
	c.JSON(http.StatusOK, InvestmentAccountResponse{Data: &apiResource})
}

// @Summary		Delete investment account
// @Description	Deletes an investment account and all of its allocations
// @Tags			InvestmentAccounts
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/investment-accounts/{id} [delete]
func DeleteInvestmentAccount(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var account models.InvestmentAccount
	err = models.DB.First(&account, uri.ID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where(&models.Allocation{InvestmentAccountID: account.ID}, "InvestmentAccountID").
			Delete(&models.Allocation{}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&account).Error
	})
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
