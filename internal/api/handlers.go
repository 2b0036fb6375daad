package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"ctenex/internal/facade"
	"ctenex/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	orderReq, err := req.toOrderRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if orderReq.Type == models.Limit {
		if contract, ok := s.contracts[orderReq.ContractID]; ok && !contract.ConformsToTick(orderReq.Price) {
			writeError(w, http.StatusBadRequest, fmt.Errorf("%w: price %s does not conform to tick size %s",
				models.ErrInvalidOrder, orderReq.Price, contract.TickSize))
			return
		}
	}

	ack, err := s.facade.PlaceOrder(r.Context(), orderReq)
	if err != nil {
		writeErrorForFacadeErr(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newOrderAckResponse(ack))
}

func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}
	contractID := models.ContractID(r.URL.Query().Get("contract_id"))
	if contractID == "" {
		writeError(w, http.StatusBadRequest, errors.New("contract_id is required"))
		return
	}

	order, err := s.facade.CancelOrder(r.Context(), contractID, orderID)
	if err != nil {
		writeErrorForFacadeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderResponse(order))
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	contractID := models.ContractID(q.Get("contract_id"))
	if contractID == "" {
		writeError(w, http.StatusBadRequest, errors.New("contract_id is required"))
		return
	}

	filter := facade.OrderFilter{SortBy: q.Get("sort_by")}
	if q.Get("sort_order") == "desc" {
		filter.SortOrder = facade.SortDescending
	}

	if v := q.Get("trader_id"); v != "" {
		traderID, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid trader_id"))
			return
		}
		filter.TraderID = &traderID
	}
	if v := q.Get("side"); v != "" {
		var side models.Side
		if err := (&side).UnmarshalJSON([]byte(`"` + v + `"`)); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		filter.Side = &side
	}
	if v := q.Get("type"); v != "" {
		var typ models.OrderType
		if err := (&typ).UnmarshalJSON([]byte(`"` + v + `"`)); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		filter.Type = &typ
	}
	if v := q.Get("status"); v != "" {
		var status models.OrderStatus
		if err := (&status).UnmarshalJSON([]byte(`"` + v + `"`)); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		filter.Status = &status
	}
	if v := q.Get("price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid price"))
			return
		}
		filter.Price = &price
	}
	if v := q.Get("quantity"); v != "" {
		quantity, err := decimal.NewFromString(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid quantity"))
			return
		}
		filter.Quantity = &quantity
	}
	if v := q.Get("placed_at_or_after"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid placed_at_or_after"))
			return
		}
		filter.PlacedAtOrAfter = &ts
	}
	if v := q.Get("placed_before"); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid placed_before"))
			return
		}
		filter.PlacedBefore = &ts
	}

	orders, err := s.facade.ListOrders(r.Context(), contractID, filter)
	if err != nil {
		writeErrorForFacadeErr(w, err)
		return
	}

	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = newOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	contractID := models.ContractID(q.Get("contract_id"))
	if contractID == "" {
		writeError(w, http.StatusBadRequest, errors.New("contract_id is required"))
		return
	}

	var filter facade.TradeFilter
	if v := q.Get("buy_order_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid buy_order_id"))
			return
		}
		filter.BuyOrderID = &id
	}
	if v := q.Get("sell_order_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid sell_order_id"))
			return
		}
		filter.SellOrderID = &id
	}

	trades, err := s.facade.ListTrades(r.Context(), contractID, filter)
	if err != nil {
		writeErrorForFacadeErr(w, err)
		return
	}

	out := make([]tradeResponse, len(trades))
	for i, t := range trades {
		out[i] = newTradeResponse(t)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleListContracts reports the contract universe the engine is
// actually serving (facade.ListContracts, backed by matching.Engine's
// fixed actor set), enriched with the tick_size/contract_size metadata
// loaded from configuration.
func (s *Server) handleListContracts(w http.ResponseWriter, r *http.Request) {
	ids := s.facade.ListContracts(r.Context())
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]contractResponse, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.contracts[id]; ok {
			out = append(out, newContractResponse(c))
			continue
		}
		out = append(out, contractResponse{ID: string(id)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if err := s.facade.Health(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, healthResponse{Status: status})
}

// writeErrorForFacadeErr maps the core error taxonomy (spec §7) onto HTTP
// status codes.
func writeErrorForFacadeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, models.ErrUnknownContract):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, models.ErrInvalidOrder), errors.Is(err, models.ErrInvalidFilter):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, models.ErrJournalUnavailable):
		writeError(w, http.StatusServiceUnavailable, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
