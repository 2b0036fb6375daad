package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ctenex/internal/facade"
	"ctenex/internal/journal"
	"ctenex/internal/matching"
	"ctenex/internal/metrics"
	"ctenex/internal/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testContract = "UK-BL-MAR-25"

func testContracts() []models.Contract {
	return []models.Contract{{
		ID:           testContract,
		Commodity:    models.CommodityPower,
		TickSize:     decimal.RequireFromString("0.01"),
		ContractSize: decimal.RequireFromString("1"),
	}}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	j := journal.NewMemoryJournal()
	m := metrics.New(prometheus.NewRegistry())
	engine := matching.NewEngine([]models.ContractID{testContract}, j, m)
	t.Cleanup(engine.Stop)
	return NewServer(":0", facade.New(engine, j), testContracts())
}

func (s *Server) testHandler() http.Handler { return s.httpServer.Handler }

func TestCreateOrderRejectsMissingFields(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	s.testHandler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderThenListAndCancel(t *testing.T) {
	s := newTestServer(t)
	traderID := uuid.New()

	body, err := json.Marshal(map[string]any{
		"contract_id": testContract,
		"trader_id":   traderID.String(),
		"side":        "buy",
		"type":        "limit",
		"price":       "50.00",
		"quantity":    "5",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.testHandler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var ack orderAckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
	assert.Equal(t, "open", ack.Order.Status)

	listReq := httptest.NewRequest(http.MethodGet, "/orders?contract_id="+testContract, nil)
	listRec := httptest.NewRecorder()
	s.testHandler().ServeHTTP(listRec, listReq)
	require.Equal(t, http.StatusOK, listRec.Code)

	var orders []orderResponse
	require.NoError(t, json.Unmarshal(listRec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)

	cancelReq := httptest.NewRequest(http.MethodDelete, "/orders/"+ack.Order.ID.String()+"?contract_id="+testContract, nil)
	cancelRec := httptest.NewRecorder()
	s.testHandler().ServeHTTP(cancelRec, cancelReq)
	require.Equal(t, http.StatusOK, cancelRec.Code)

	var cancelled orderResponse
	require.NoError(t, json.Unmarshal(cancelRec.Body.Bytes(), &cancelled))
	assert.Equal(t, "cancelled", cancelled.Status)
}

func TestCreateOrderRejectsNonConformingTickSize(t *testing.T) {
	s := newTestServer(t)

	body, err := json.Marshal(map[string]any{
		"contract_id": testContract,
		"trader_id":   uuid.New().String(),
		"side":        "buy",
		"type":        "limit",
		"price":       "50.005",
		"quantity":    "5",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.testHandler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListContractsReturnsConfiguredUniverse(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/contracts", nil)
	rec := httptest.NewRecorder()
	s.testHandler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var contracts []contractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contracts))
	require.Len(t, contracts, 1)
	assert.Equal(t, testContract, contracts[0].ID)
	assert.True(t, contracts[0].TickSize.Equal(decimal.RequireFromString("0.01")))
}

func TestCancelUnknownOrderReturnsNotFound(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodDelete, "/orders/"+uuid.New().String()+"?contract_id="+testContract, nil)
	rec := httptest.NewRecorder()
	s.testHandler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpointReportsHealthy(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.testHandler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}
