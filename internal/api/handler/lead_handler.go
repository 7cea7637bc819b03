package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/leadpop/popup-service/internal/api/metrics"
	"github.com/leadpop/popup-service/internal/core/ports"
)

// LeadHandler handles visitor email submissions from the widget.
type LeadHandler struct {
	gate ports.GateService
}

func NewLeadHandler(gate ports.GateService) *LeadHandler {
	return &LeadHandler{gate: gate}
}

type submitLeadRequest struct {
	Store    string `json:"store"`
	Email    string `json:"email"`
	Coupon   string `json:"coupon"`
	Page     string `json:"page"`
	ClientID string `json:"client_id"`
}

type submitLeadResponse struct {
	Accepted  bool   `json:"accepted"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// Submit handles POST /api/leads.
//
// Business rejections (missing fields, unknown client, domain mismatch,
// plan limit) come back as {"accepted":false,"reason":...} with a 200; a
// duplicate resubmission is an accepted outcome. Only malformed JSON is
// a 400 and only infrastructure failure a 5xx.
//
// @Summary      Submit a captured lead
// @Tags         widget
// @Accept       json
// @Produce      json
// @Param        body  body      submitLeadRequest  true  "Lead submission"
// @Success      200   {object}  submitLeadResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/leads [post]
func (h *LeadHandler) Submit(c echo.Context) error {
	start := time.Now()

	var req submitLeadRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.gate.SubmitLead(c.Request().Context(), ports.SubmitLeadInput{
		Ref:    ports.ClientRef{ID: req.ClientID, Store: req.Store},
		Store:  req.Store,
		Email:  req.Email,
		Coupon: req.Coupon,
		Page:   req.Page,
	})
	if err != nil {
		return err
	}

	metrics.LeadSubmitDuration.Observe(time.Since(start).Seconds())
	metrics.LeadsTotal.WithLabelValues(leadOutcome(result)).Inc()

	return c.JSON(http.StatusOK, submitLeadResponse{
		Accepted:  result.Accepted,
		Duplicate: result.Duplicate,
		Reason:    result.Reason,
	})
}

func leadOutcome(r *ports.SubmitLeadResult) string {
	switch {
	case r.Duplicate:
		return "duplicate"
	case r.Accepted:
		return "accepted"
	default:
		return r.Reason
	}
}
