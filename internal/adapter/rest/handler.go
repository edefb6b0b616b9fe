package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oliveirafelipe/carteira-backend/internal/domain"
	"github.com/oliveirafelipe/carteira-backend/internal/usecase/history"
	"github.com/oliveirafelipe/carteira-backend/internal/usecase/operation"
	"github.com/oliveirafelipe/carteira-backend/internal/usecase/position"
	"github.com/oliveirafelipe/carteira-backend/internal/usecase/valuation"
	"github.com/oliveirafelipe/carteira-backend/internal/usecase/wallet"
)

const dateLayout = "2006-01-02"

// Handler exposes the valuation engine and its CRUD plumbing over HTTP
type Handler struct {
	wallet        *wallet.Service
	operations    *operation.Service
	positions     *position.Service
	valuations    *valuation.Service
	reconstructor *history.Reconstructor
	logger        *slog.Logger
}

// NewHandler creates a new REST handler
func NewHandler(
	walletService *wallet.Service,
	operationService *operation.Service,
	positionService *position.Service,
	valuationService *valuation.Service,
	reconstructor *history.Reconstructor,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		wallet:        walletService,
		operations:    operationService,
		positions:     positionService,
		valuations:    valuationService,
		reconstructor: reconstructor,
		logger:        logger,
	}
}

// RegisterRoutes mounts all endpoints under the given group
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	inv := r.Group("/investments")
	{
		inv.POST("", h.CreateInvestment)
		inv.GET("/:id", h.GetInvestment)
		inv.PUT("/:id", h.UpdateInvestment)
		inv.DELETE("/:id", h.DeleteInvestment)
		inv.GET("/:id/snapshots", h.ListSnapshots)

		inv.POST("/:id/operations", h.CreateOperation)
		inv.GET("/:id/operations", h.ListOperations)

		inv.GET("/:id/position", h.GetPosition)
		inv.GET("/:id/invested", h.GetInvestedOn)
		inv.GET("/:id/valuation", h.GetValuation)
	}

	ops := r.Group("/operations")
	{
		ops.PUT("/:id", h.UpdateOperation)
		ops.DELETE("/:id", h.DeleteOperation)
	}

	pf := r.Group("/portfolio")
	{
		pf.GET("/:ownerID/investments", h.ListInvestments)
		pf.GET("/:ownerID/summary", h.GetPortfolioSummary)
		pf.GET("/:ownerID/history", h.GetPortfolioHistory)
	}
}

// CreateInvestmentReq is the payload for adding a wallet entry
type CreateInvestmentReq struct {
	OwnerID    string `json:"owner_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	AssetClass string `json:"asset_class" binding:"required"`
	Ticker     string `json:"ticker"`
	AnnualRate string `json:"annual_rate"`
	Quantity   string `json:"quantity"`
	Value      string `json:"value"`
	UnitPrice  string `json:"unit_price"`
}

func (h *Handler) CreateInvestment(c *gin.Context) {
	var req CreateInvestmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid owner_id format"})
		return
	}

	quantity, ok := h.parseDecimalField(c, req.Quantity, "quantity")
	if !ok {
		return
	}
	value, ok := h.parseDecimalField(c, req.Value, "value")
	if !ok {
		return
	}
	unitPrice, ok := h.parseDecimalField(c, req.UnitPrice, "unit_price")
	if !ok {
		return
	}

	input := wallet.CreateInput{
		OwnerID:    ownerID,
		Name:       req.Name,
		AssetClass: domain.AssetClass(req.AssetClass),
		Ticker:     req.Ticker,
		Quantity:   quantity,
		Value:      value,
		UnitPrice:  unitPrice,
	}

	if req.AnnualRate != "" {
		rate, err := decimal.NewFromString(req.AnnualRate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid annual_rate format"})
			return
		}
		input.AnnualRate = &rate
	}

	inv, err := h.wallet.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, investmentJSON(inv))
}

func (h *Handler) GetInvestment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	inv, err := h.wallet.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, investmentJSON(inv))
}

// UpdateInvestmentReq is the payload for editing a wallet entry
type UpdateInvestmentReq struct {
	Name       string `json:"name" binding:"required"`
	AnnualRate string `json:"annual_rate"`
	Quantity   string `json:"quantity"`
	Value      string `json:"value"`
}

func (h *Handler) UpdateInvestment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateInvestmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quantity, ok := h.parseDecimalField(c, req.Quantity, "quantity")
	if !ok {
		return
	}
	value, ok := h.parseDecimalField(c, req.Value, "value")
	if !ok {
		return
	}

	input := wallet.UpdateInput{
		Name:     req.Name,
		Quantity: quantity,
		Value:    value,
	}

	if req.AnnualRate != "" {
		rate, err := decimal.NewFromString(req.AnnualRate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid annual_rate format"})
			return
		}
		input.AnnualRate = &rate
	}

	inv, err := h.wallet.Update(c.Request.Context(), id, input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, investmentJSON(inv))
}

func (h *Handler) DeleteInvestment(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.wallet.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListInvestments(c *gin.Context) {
	ownerID, ok := h.parseID(c, "ownerID")
	if !ok {
		return
	}

	investments, err := h.wallet.ListForOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(investments))
	for _, inv := range investments {
		out = append(out, investmentJSON(inv))
	}

	c.JSON(http.StatusOK, gin.H{"investments": out})
}

func (h *Handler) ListSnapshots(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	events, err := h.wallet.History(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(events))
	for _, e := range events {
		out = append(out, gin.H{
			"id":          e.ID.String(),
			"quantity":    e.Quantity,
			"value":       e.Value,
			"recorded_at": e.RecordedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"snapshots": out})
}

// CreateOperationReq is the payload for recording a buy/sell
type CreateOperationReq struct {
	Type       string `json:"operation_type" binding:"required"`
	Quantity   string `json:"quantity" binding:"required"`
	UnitPrice  string `json:"unit_price" binding:"required"`
	Fees       string `json:"fees"`
	ExecutedAt string `json:"executed_at" binding:"required"`
	Note       string `json:"note"`
}

func (h *Handler) CreateOperation(c *gin.Context) {
	investmentID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req CreateOperationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input, ok := h.operationInput(c, req)
	if !ok {
		return
	}
	input.InvestmentID = investmentID

	op, err := h.operations.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, operationJSON(op))
}

func (h *Handler) UpdateOperation(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req CreateOperationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, ok := h.operationInput(c, req)
	if !ok {
		return
	}

	op, err := h.operations.Update(c.Request.Context(), id, operation.UpdateInput{
		Type:       created.Type,
		Quantity:   created.Quantity,
		UnitPrice:  created.UnitPrice,
		Fees:       created.Fees,
		ExecutedAt: created.ExecutedAt,
		Note:       created.Note,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, operationJSON(op))
}

func (h *Handler) DeleteOperation(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.operations.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListOperations(c *gin.Context) {
	investmentID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	ops, err := h.operations.List(c.Request.Context(), investmentID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(ops))
	for _, op := range ops {
		out = append(out, operationJSON(op))
	}

	c.JSON(http.StatusOK, gin.H{"operations": out})
}

func (h *Handler) GetPosition(c *gin.Context) {
	investmentID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	result, err := h.positions.PositionFor(c.Request.Context(), investmentID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"current_quantity":   result.CurrentQuantity,
		"current_cost_basis": result.CurrentCostBasis,
		"average_cost":       result.AverageCost,
		"oversold":           result.Oversold,
	})
}

func (h *Handler) GetInvestedOn(c *gin.Context) {
	investmentID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be in YYYY-MM-DD format"})
		return
	}

	flow, err := h.positions.InvestedOn(c.Request.Context(), investmentID, date)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"buy_amount":          flow.BuyAmount,
		"sell_amount":         flow.SellAmount,
		"net_invested_amount": flow.NetInvestedAmount,
		"buy_count":           flow.BuyCount,
		"sell_count":          flow.SellCount,
	})
}

func (h *Handler) GetValuation(c *gin.Context) {
	investmentID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	v, err := h.valuations.ValuationFor(c.Request.Context(), investmentID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, valuationJSON(v))
}

func (h *Handler) GetPortfolioSummary(c *gin.Context) {
	ownerID, ok := h.parseID(c, "ownerID")
	if !ok {
		return
	}

	summary, valuations, err := h.valuations.PortfolioSummary(c.Request.Context(), ownerID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(valuations))
	for i := range valuations {
		out = append(out, valuationJSON(&valuations[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"total_invested_amount":     summary.TotalInvestedAmount,
		"total_current_value":       summary.TotalCurrentValue,
		"total_profit_loss":         summary.TotalProfitLoss,
		"total_profit_loss_percent": summary.TotalProfitLossPercent,
		"with_market_data":          summary.WithMarketData,
		"without_market_data":       summary.WithoutMarketData,
		"investments":               out,
	})
}

func (h *Handler) GetPortfolioHistory(c *gin.Context) {
	ownerID, ok := h.parseID(c, "ownerID")
	if !ok {
		return
	}

	start, err := time.Parse(dateLayout, c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be in YYYY-MM-DD format"})
		return
	}
	end, err := time.Parse(dateLayout, c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be in YYYY-MM-DD format"})
		return
	}

	snapshots, err := h.reconstructor.Reconstruct(c.Request.Context(), ownerID, start, end)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(snapshots))
	for _, s := range snapshots {
		out = append(out, gin.H{
			"date":                         s.Date.Format(dateLayout),
			"buy_amount":                   s.BuyAmount,
			"sell_amount":                  s.SellAmount,
			"net_invested_amount":          s.NetInvestedAmount,
			"operation_count":              s.OperationCount,
			"cumulative_net_invested":      s.CumulativeNetInvested,
			"total_current_value_estimate": s.TotalCurrentValueEstimate,
			"total_profit_loss_estimate":   s.TotalProfitLossEstimate,
		})
	}

	c.JSON(http.StatusOK, gin.H{"days": out})
}

func (h *Handler) operationInput(c *gin.Context, req CreateOperationReq) (operation.CreateInput, bool) {
	var input operation.CreateInput

	opType := domain.OperationType(req.Type)
	if opType != domain.OperationTypeBuy && opType != domain.OperationTypeSell {
		c.JSON(http.StatusBadRequest, gin.H{"error": "operation_type must be BUY or SELL"})
		return input, false
	}

	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity format"})
		return input, false
	}

	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit_price format"})
		return input, false
	}

	fees := decimal.Zero
	if req.Fees != "" {
		if fees, err = decimal.NewFromString(req.Fees); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fees format"})
			return input, false
		}
	}

	executedAt, err := time.Parse(time.RFC3339, req.ExecutedAt)
	if err != nil {
		// date-only form is accepted as midnight UTC
		if executedAt, err = time.Parse(dateLayout, req.ExecutedAt); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "executed_at must be RFC3339 or YYYY-MM-DD"})
			return input, false
		}
	}

	input.Type = opType
	input.Quantity = quantity
	input.UnitPrice = unitPrice
	input.Fees = fees
	input.ExecutedAt = executedAt
	input.Note = req.Note
	return input, true
}

// parseDecimalField parses an optional decimal payload field. Empty means
// zero; anything else must parse exactly, a malformed value is a 400.
func (h *Handler) parseDecimalField(c *gin.Context, value, field string) (decimal.Decimal, bool) {
	if value == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + field + " format"})
		return decimal.Zero, false
	}
	return d, true
}

func (h *Handler) parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param + " format"})
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps usecase errors onto HTTP statuses
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, history.ErrInvalidDateRange),
		errors.Is(err, position.ErrOversell):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
