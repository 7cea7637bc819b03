package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadpop/popup-service/internal/api/metrics"
	"github.com/leadpop/popup-service/internal/core/ports"
)

// VerifyHandler handles the public license verification endpoint called
// by the widget script.
type VerifyHandler struct {
	gate ports.GateService
}

func NewVerifyHandler(gate ports.GateService) *VerifyHandler {
	return &VerifyHandler{gate: gate}
}

type verifyResponse struct {
	OK         bool   `json:"ok"`
	Status     string `json:"status"`
	CouponCode string `json:"couponCode,omitempty"`
}

// Verify handles GET /api/verify.
//
// Business failures (unknown store, disabled client, bad key) are a 200
// with status "inactive"; only infrastructure failures become a 5xx.
//
// @Summary      Verify a store's license
// @Tags         widget
// @Produce      json
// @Param        store      query     string  false  "Storefront domain"
// @Param        key        query     string  false  "License key"
// @Param        client_id  query     string  false  "Client id (client_id resolution mode)"
// @Success      200        {object}  verifyResponse
// @Failure      500        {object}  map[string]string
// @Router       /api/verify [get]
func (h *VerifyHandler) Verify(c echo.Context) error {
	store := c.QueryParam("store")

	result, err := h.gate.Verify(c.Request().Context(), ports.VerifyInput{
		Ref:   ports.ClientRef{ID: c.QueryParam("client_id"), Store: store},
		Store: store,
		Key:   c.QueryParam("key"),
	})
	if err != nil {
		return err
	}

	metrics.VerifyTotal.WithLabelValues(result.Status).Inc()

	return c.JSON(http.StatusOK, verifyResponse{
		OK:         true,
		Status:     result.Status,
		CouponCode: result.CouponCode,
	})
}
