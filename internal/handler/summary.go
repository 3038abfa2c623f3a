package handler

import (
	"log/slog"
	"net/http"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/efreitasn/kipledger/internal/engine"
	"github.com/efreitasn/kipledger/internal/service"
)

// SummaryHandler serves the dashboard summary.
type SummaryHandler struct {
	summarySvc *service.SummaryService
	logger     *slog.Logger
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(summarySvc *service.SummaryService, logger *slog.Logger) *SummaryHandler {
	return &SummaryHandler{summarySvc: summarySvc, logger: logger}
}

type todayResponse struct {
	TotalLAK    float64 `json:"total_lak"`
	ProfitTotal float64 `json:"profit_total"`
	RateProfit  float64 `json:"rate_profit"`
	OtherProfit float64 `json:"other_profit"`
	OrdersCount int64   `json:"orders_count"`
}

type monthResponse struct {
	TotalLAK    float64 `json:"total_lak"`
	ProfitTotal float64 `json:"profit_total"`
	Period      string  `json:"period"`
}

type paymentsResponse struct {
	PaidOrders     int64   `json:"paid_orders"`
	UnpaidOrders   int64   `json:"unpaid_orders"`
	UnpaidValueLAK float64 `json:"unpaid_value_lak"`
}

type summaryResponse struct {
	Date           string           `json:"date"`
	Rate           float64          `json:"rate"`
	RateUpdated    *string          `json:"rate_updated"`
	Today          todayResponse    `json:"today"`
	Month          monthResponse    `json:"month"`
	Payments       paymentsResponse `json:"payments"`
	GrossValueLAK  float64          `json:"gross_value_lak"`
	AllOrdersCount int64            `json:"all_orders_count"`
}

func buildSummaryResponse(s *engine.Summary) summaryResponse {
	resp := summaryResponse{
		Date: s.Date,
		Rate: domain.ToFloat(s.Rate),
		Today: todayResponse{
			TotalLAK:    domain.ToFloat(s.Today.TotalLAK),
			ProfitTotal: domain.ToFloat(s.Today.ProfitTotal),
			RateProfit:  domain.ToFloat(s.Today.RateProfit),
			OtherProfit: domain.ToFloat(s.Today.OtherProfit),
			OrdersCount: s.Today.OrdersCount,
		},
		Month: monthResponse{
			TotalLAK:    domain.ToFloat(s.Month.TotalLAK),
			ProfitTotal: domain.ToFloat(s.Month.ProfitTotal),
			Period:      s.Month.Period,
		},
		Payments: paymentsResponse{
			PaidOrders:     s.Payments.PaidOrders,
			UnpaidOrders:   s.Payments.UnpaidOrders,
			UnpaidValueLAK: domain.ToFloat(s.Payments.UnpaidValueLAK),
		},
		GrossValueLAK:  domain.ToFloat(s.GrossValueLAK),
		AllOrdersCount: s.AllOrdersCount,
	}
	if s.RateUpdated != nil {
		resp.RateUpdated = formatTime(*s.RateUpdated)
	}
	return resp
}

// Get handles GET /api/summary?date=YYYY-MM-DD.
func (h *SummaryHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.summarySvc.Summary(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildSummaryResponse(s))
}
