package api

import (
	"time"

	"ctenex/internal/facade"
	"ctenex/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// createOrderRequest is the wire shape for POST /orders. Validation tags
// reject malformed input at the façade boundary, before it ever reaches
// the core engine (spec §6.2).
type createOrderRequest struct {
	ContractID string          `json:"contract_id" validate:"required"`
	TraderID   string          `json:"trader_id" validate:"required,uuid"`
	Side       string          `json:"side" validate:"required,oneof=buy sell"`
	Type       string          `json:"type" validate:"required,oneof=limit market"`
	Price      decimal.Decimal `json:"price"`
	Quantity   decimal.Decimal `json:"quantity" validate:"required"`
}

func (r createOrderRequest) toOrderRequest() (facade.OrderRequest, error) {
	traderID, err := uuid.Parse(r.TraderID)
	if err != nil {
		return facade.OrderRequest{}, err
	}

	var side models.Side
	if err := (&side).UnmarshalJSON([]byte(`"` + r.Side + `"`)); err != nil {
		return facade.OrderRequest{}, err
	}
	var typ models.OrderType
	if err := (&typ).UnmarshalJSON([]byte(`"` + r.Type + `"`)); err != nil {
		return facade.OrderRequest{}, err
	}

	return facade.OrderRequest{
		ContractID: models.ContractID(r.ContractID),
		TraderID:   traderID,
		Side:       side,
		Type:       typ,
		Price:      r.Price,
		Quantity:   r.Quantity,
	}, nil
}

type tradeResponse struct {
	ID          uuid.UUID       `json:"id"`
	ContractID  string          `json:"contract_id"`
	BuyOrderID  uuid.UUID       `json:"buy_order_id"`
	SellOrderID uuid.UUID       `json:"sell_order_id"`
	Price       decimal.Decimal `json:"price"`
	Quantity    decimal.Decimal `json:"quantity"`
	GeneratedAt time.Time       `json:"generated_at"`
}

func newTradeResponse(t models.Trade) tradeResponse {
	return tradeResponse{
		ID:          t.ID,
		ContractID:  string(t.ContractID),
		BuyOrderID:  t.BuyOrderID,
		SellOrderID: t.SellOrderID,
		Price:       t.Price,
		Quantity:    t.Quantity,
		GeneratedAt: t.GeneratedAt,
	}
}

type orderResponse struct {
	ID                uuid.UUID       `json:"id"`
	ContractID        string          `json:"contract_id"`
	TraderID          uuid.UUID       `json:"trader_id"`
	Side              string          `json:"side"`
	Type              string          `json:"type"`
	Price             decimal.Decimal `json:"price"`
	Quantity          decimal.Decimal `json:"quantity"`
	FilledQuantity    decimal.Decimal `json:"filled_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	Status            string          `json:"status"`
	PlacedAt          time.Time       `json:"placed_at"`
}

func newOrderResponse(o models.Order) orderResponse {
	return orderResponse{
		ID:                o.ID,
		ContractID:        string(o.ContractID),
		TraderID:          o.TraderID,
		Side:              o.Side.String(),
		Type:              o.Type.String(),
		Price:             o.Price,
		Quantity:          o.Quantity,
		FilledQuantity:    o.FilledQuantity(),
		RemainingQuantity: o.RemainingQuantity,
		Status:            o.Status.String(),
		PlacedAt:          o.PlacedAt,
	}
}

type orderAckResponse struct {
	Order  orderResponse   `json:"order"`
	Trades []tradeResponse `json:"trades"`
}

func newOrderAckResponse(ack facade.OrderAck) orderAckResponse {
	trades := make([]tradeResponse, len(ack.Trades))
	for i, t := range ack.Trades {
		trades[i] = newTradeResponse(t)
	}
	return orderAckResponse{Order: newOrderResponse(ack.Order), Trades: trades}
}

type contractResponse struct {
	ID             string          `json:"id"`
	Commodity      string          `json:"commodity"`
	DeliveryPeriod string          `json:"delivery_period"`
	StartDate      time.Time       `json:"start_date"`
	EndDate        time.Time       `json:"end_date"`
	Location       string          `json:"location"`
	TickSize       decimal.Decimal `json:"tick_size"`
	ContractSize   decimal.Decimal `json:"contract_size"`
}

func newContractResponse(c models.Contract) contractResponse {
	return contractResponse{
		ID:             string(c.ID),
		Commodity:      string(c.Commodity),
		DeliveryPeriod: string(c.DeliveryPeriod),
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		Location:       c.Location,
		TickSize:       c.TickSize,
		ContractSize:   c.ContractSize,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status string `json:"status"`
}
