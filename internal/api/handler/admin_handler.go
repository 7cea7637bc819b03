package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/leadpop/popup-service/internal/core/domain"
	"github.com/leadpop/popup-service/internal/core/ports"
)

const defaultLeadPageSize = 100

// AdminHandler exposes the tenant management surface. Client records are
// otherwise read-only from the server's perspective; every mutation here
// invalidates the directory snapshot.
type AdminHandler struct {
	clients   ports.ClientRepository
	leads     ports.LeadRepository
	directory ports.ClientDirectory
}

func NewAdminHandler(clients ports.ClientRepository, leads ports.LeadRepository, directory ports.ClientDirectory) *AdminHandler {
	return &AdminHandler{clients: clients, leads: leads, directory: directory}
}

type createClientRequest struct {
	StoreDomain string `json:"store_domain" validate:"required"`
	LicenseKey  string `json:"license_key"`
	CouponCode  string `json:"coupon_code" validate:"required"`
	Title       string `json:"title"`
	Text        string `json:"text"`
	Enabled     bool   `json:"enabled"`
	WebhookURL  string `json:"webhook_url" validate:"omitempty,url"`
	Plan        string `json:"plan" validate:"required,oneof=free pro"`
	LeadLimit   int    `json:"lead_limit" validate:"min=0"`
}

// ListClients handles GET /v1/admin/clients.
//
// @Summary      List all clients
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.ClientRecord
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /v1/admin/clients [get]
func (h *AdminHandler) ListClients(c echo.Context) error {
	records, err := h.clients.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, records)
}

// CreateClient handles POST /v1/admin/clients.
//
// @Summary      Create a client
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client record"
// @Success      201   {object}  domain.ClientRecord
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/admin/clients [post]
func (h *AdminHandler) CreateClient(c echo.Context) error {
	var req createClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec := &domain.ClientRecord{
		StoreDomain: domain.NormalizeDomain(req.StoreDomain),
		LicenseKey:  req.LicenseKey,
		CouponCode:  req.CouponCode,
		Title:       req.Title,
		Text:        req.Text,
		Enabled:     req.Enabled,
		WebhookURL:  req.WebhookURL,
		Plan:        domain.Plan(req.Plan),
		LeadLimit:   req.LeadLimit,
	}
	if rec.StoreDomain == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "store_domain does not normalize to a domain")
	}

	if err := h.clients.Insert(c.Request().Context(), rec); err != nil {
		return err
	}

	h.directory.Invalidate()
	return c.JSON(http.StatusCreated, rec)
}

// ListLeads handles GET /v1/admin/clients/:id/leads.
//
// @Summary      List a client's captured leads
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Client id"
// @Param        limit  query     int     false  "Max rows (default 100)"
// @Success      200    {array}   domain.Lead
// @Failure      401    {object}  map[string]string
// @Failure      403    {object}  map[string]string
// @Router       /v1/admin/clients/{id}/leads [get]
func (h *AdminHandler) ListLeads(c echo.Context) error {
	limit := defaultLeadPageSize
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		if n < limit {
			limit = n
		}
	}

	leads, err := h.leads.ListByClient(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return err
	}
	if leads == nil {
		leads = []*domain.Lead{}
	}
	return c.JSON(http.StatusOK, leads)
}
