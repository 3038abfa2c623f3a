package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/efreitasn/kipledger/internal/service"
	"github.com/go-chi/chi/v5"
)

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	orderSvc *service.OrderService
	logger   *slog.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc, logger: logger}
}

// orderRequest is the JSON request body for POST and PUT /api/orders.
// Every field is optional; derived fields sent by the client are ignored.
type orderRequest struct {
	OrderDate           flexString `json:"order_date"`
	CustomerName        flexString `json:"customer_name"`
	ProductLink         flexString `json:"product_link"`
	PriceTHB            flexAmount `json:"price_thb"`
	ShippingTHB         flexAmount `json:"shipping_thb"`
	ServiceFeeLAK       flexAmount `json:"service_fee_lak"`
	THToLAChargeLAK     flexAmount `json:"th_to_la_charge_lak"`
	ActualTHToLACostLAK flexAmount `json:"actual_th_to_la_cost_lak"`
	CustomerRate        flexAmount `json:"customer_rate"`
	PaymentStatus       flexString `json:"payment_status"`
	OrderStatus         flexString `json:"order_status"`
	TrackingNo          flexString `json:"tracking_no"`
	Carrier             flexString `json:"carrier"`
	TrackingLink        flexString `json:"tracking_link"`
}

func (req orderRequest) input() domain.OrderInput {
	return domain.OrderInput{
		OrderDate:           string(req.OrderDate),
		CustomerName:        string(req.CustomerName),
		ProductLink:         string(req.ProductLink),
		PriceTHB:            req.PriceTHB.Decimal(),
		ShippingTHB:         req.ShippingTHB.Decimal(),
		ServiceFeeLAK:       req.ServiceFeeLAK.Decimal(),
		THToLAChargeLAK:     req.THToLAChargeLAK.Decimal(),
		ActualTHToLACostLAK: req.ActualTHToLACostLAK.Decimal(),
		CustomerRate:        req.CustomerRate.Decimal(),
		PaymentStatus:       domain.ParsePaymentStatus(string(req.PaymentStatus)),
		OrderStatus:         domain.ParseOrderStatus(string(req.OrderStatus)),
		TrackingNo:          string(req.TrackingNo),
		Carrier:             string(req.Carrier),
		TrackingLink:        string(req.TrackingLink),
	}
}

// orderResponse is the JSON form of a stored order. Money is rendered as
// JSON numbers.
type orderResponse struct {
	ID                  int64   `json:"id"`
	OrderDate           string  `json:"order_date"`
	CustomerName        string  `json:"customer_name"`
	ProductLink         string  `json:"product_link"`
	PriceTHB            float64 `json:"price_thb"`
	ShippingTHB         float64 `json:"shipping_thb"`
	ServiceFeeLAK       float64 `json:"service_fee_lak"`
	THToLAChargeLAK     float64 `json:"th_to_la_charge_lak"`
	ActualTHToLACostLAK float64 `json:"actual_th_to_la_cost_lak"`
	CustomerRate        float64 `json:"customer_rate"`
	Rate                float64 `json:"rate"`
	PriceLAK            float64 `json:"price_lak"`
	ShippingLAK         float64 `json:"shipping_lak"`
	TotalLAK            float64 `json:"total_lak"`
	RateProfitLAK       float64 `json:"rate_profit_lak"`
	NetProfitLAK        float64 `json:"net_profit_lak"`
	PaymentStatus       string  `json:"payment_status"`
	OrderStatus         string  `json:"order_status"`
	TrackingNo          string  `json:"tracking_no"`
	Carrier             string  `json:"carrier"`
	TrackingLink        string  `json:"tracking_link"`
	CreatedAt           *string `json:"created_at"`
	UpdatedAt           *string `json:"updated_at"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Count  int             `json:"count"`
}

func buildOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:                  o.ID,
		OrderDate:           o.OrderDate,
		CustomerName:        o.CustomerName,
		ProductLink:         o.ProductLink,
		PriceTHB:            domain.ToFloat(o.PriceTHB),
		ShippingTHB:         domain.ToFloat(o.ShippingTHB),
		ServiceFeeLAK:       domain.ToFloat(o.ServiceFeeLAK),
		THToLAChargeLAK:     domain.ToFloat(o.THToLAChargeLAK),
		ActualTHToLACostLAK: domain.ToFloat(o.ActualTHToLACostLAK),
		CustomerRate:        domain.ToFloat(o.CustomerRate),
		Rate:                domain.ToFloat(o.Rate),
		PriceLAK:            domain.ToFloat(o.PriceLAK),
		ShippingLAK:         domain.ToFloat(o.ShippingLAK),
		TotalLAK:            domain.ToFloat(o.TotalLAK),
		RateProfitLAK:       domain.ToFloat(o.RateProfitLAK),
		NetProfitLAK:        domain.ToFloat(o.NetProfitLAK),
		PaymentStatus:       string(o.PaymentStatus),
		OrderStatus:         string(o.OrderStatus),
		TrackingNo:          o.TrackingNo,
		Carrier:             o.Carrier,
		TrackingLink:        o.TrackingLink,
		CreatedAt:           formatTime(o.CreatedAt),
		UpdatedAt:           formatTime(o.UpdatedAt),
	}
}

// orderID parses the {order_id} path parameter.
func orderID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "order_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// List handles GET /api/orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		var err error
		limit, err = strconv.Atoi(l)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error", "limit must be a valid integer")
			return
		}
	}

	orders, err := h.orderSvc.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	resp := orderListResponse{
		Orders: make([]orderResponse, 0, len(orders)),
		Count:  len(orders),
	}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, buildOrderResponse(o))
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.orderSvc.Create(r.Context(), req.input())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildOrderResponse(order))
}

// Get handles GET /api/orders/{order_id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "validation_error", "order_id must be a positive integer")
		return
	}

	order, err := h.orderSvc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// Update handles PUT /api/orders/{order_id}. The body replaces every input
// field; the order is re-priced at the current rate.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "validation_error", "order_id must be a positive integer")
		return
	}

	var req orderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	order, err := h.orderSvc.Update(r.Context(), id, req.input())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// Delete handles DELETE /api/orders/{order_id}.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		WriteError(w, http.StatusBadRequest, "validation_error", "order_id must be a positive integer")
		return
	}

	if err := h.orderSvc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
