package handler

import (
	"log/slog"
	"net/http"

	"github.com/efreitasn/kipledger/internal/domain"
	"github.com/efreitasn/kipledger/internal/service"
)

// SettingsHandler handles HTTP requests for the exchange rate settings.
type SettingsHandler struct {
	settingsSvc *service.SettingsService
	logger      *slog.Logger
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsSvc *service.SettingsService, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{settingsSvc: settingsSvc, logger: logger}
}

type settingsRequest struct {
	ExchangeRate flexAmount `json:"exchange_rate"`
}

type settingsResponse struct {
	ExchangeRate float64 `json:"exchange_rate"`
	UpdatedAt    *string `json:"updated_at"`
}

func buildSettingsResponse(st domain.Settings) settingsResponse {
	resp := settingsResponse{ExchangeRate: domain.ToFloat(st.ExchangeRate)}
	if st.UpdatedAt != nil {
		resp.UpdatedAt = formatTime(*st.UpdatedAt)
	}
	return resp
}

// Get handles GET /api/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, err := h.settingsSvc.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildSettingsResponse(st))
}

// Update handles PUT /api/settings.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	st, err := h.settingsSvc.SetRate(r.Context(), req.ExchangeRate.Decimal())
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}
	WriteJSON(w, http.StatusOK, buildSettingsResponse(st))
}
