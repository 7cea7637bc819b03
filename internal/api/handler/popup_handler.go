package handler

import (
	"encoding/json"
	"net/http"
	"text/template"

	"github.com/labstack/echo/v4"

	"github.com/leadpop/popup-service/internal/core/ports"
)

// PopupHandler serves the popup configuration and the generated browser
// script that renders it.
type PopupHandler struct {
	gate ports.GateService
}

func NewPopupHandler(gate ports.GateService) *PopupHandler {
	return &PopupHandler{gate: gate}
}

type popupConfigResponse struct {
	Active bool   `json:"active"`
	Title  string `json:"title,omitempty"`
	Text   string `json:"text,omitempty"`
	Coupon string `json:"coupon,omitempty"`
}

// Config handles GET /api/popup.
//
// The storefront domain may be supplied explicitly or inferred from the
// Origin/Referer/Host headers.
//
// @Summary      Get the popup configuration for a store
// @Tags         widget
// @Produce      json
// @Param        store      query     string  false  "Storefront domain (inferred from headers when absent)"
// @Param        client_id  query     string  false  "Client id (client_id resolution mode)"
// @Success      200        {object}  popupConfigResponse
// @Failure      500        {object}  map[string]string
// @Router       /api/popup [get]
func (h *PopupHandler) Config(c echo.Context) error {
	cfg, err := h.gate.PopupConfig(c.Request().Context(), ports.ClientRef{
		ID:    c.QueryParam("client_id"),
		Store: inferStore(c),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, popupConfigResponse{
		Active: cfg.Active,
		Title:  cfg.Title,
		Text:   cfg.Text,
		Coupon: cfg.Coupon,
	})
}

// widgetScript is the generated browser script. The popup configuration
// is embedded as a JSON literal; an inactive client gets a script that
// renders nothing.
var widgetScript = template.Must(template.New("widget").Parse(`(function () {
  "use strict";
  var cfg = {{.ConfigJSON}};
  if (!cfg.active || document.getElementById("leadpop-root")) return;

  var root = document.createElement("div");
  root.id = "leadpop-root";
  root.style.cssText = "position:fixed;bottom:24px;right:24px;max-width:320px;padding:20px;" +
    "background:#fff;border:1px solid #ddd;border-radius:8px;box-shadow:0 4px 16px rgba(0,0,0,.15);" +
    "font-family:sans-serif;z-index:99999";
  root.innerHTML =
    '<strong style="display:block;margin-bottom:8px"></strong>' +
    '<p style="margin:0 0 12px;font-size:14px"></p>' +
    '<form><input type="email" required placeholder="you@example.com" ' +
    'style="width:100%;box-sizing:border-box;padding:8px;margin-bottom:8px"/>' +
    '<button type="submit" style="width:100%;padding:8px">Get my coupon</button></form>';
  root.querySelector("strong").textContent = cfg.title;
  root.querySelector("p").textContent = cfg.text;

  root.querySelector("form").addEventListener("submit", function (ev) {
    ev.preventDefault();
    var email = root.querySelector("input").value;
    fetch({{.LeadsURL}}, {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({
        store: window.location.hostname,
        email: email,
        coupon: cfg.coupon,
        page: window.location.href,
        client_id: {{.ClientID}}
      })
    }).then(function () {
      root.innerHTML = '<p style="margin:0;font-size:14px">Thanks! Your coupon: <strong></strong></p>';
      root.querySelector("strong").textContent = cfg.coupon;
    });
  });

  document.body.appendChild(root);
})();
`))

type widgetData struct {
	ConfigJSON string
	LeadsURL   string
	ClientID   string
}

// Script handles GET /widget.js.
//
// @Summary      Get the embeddable widget script
// @Tags         widget
// @Produce      plain
// @Param        client_id  query  string  false  "Client id (client_id resolution mode)"
// @Param        store      query  string  false  "Storefront domain (inferred from headers when absent)"
// @Success      200
// @Router       /widget.js [get]
func (h *PopupHandler) Script(c echo.Context) error {
	clientID := c.QueryParam("client_id")
	cfg, err := h.gate.PopupConfig(c.Request().Context(), ports.ClientRef{
		ID:    clientID,
		Store: inferStore(c),
	})
	if err != nil {
		return err
	}

	cfgJSON, err := json.Marshal(popupConfigResponse{
		Active: cfg.Active,
		Title:  cfg.Title,
		Text:   cfg.Text,
		Coupon: cfg.Coupon,
	})
	if err != nil {
		return err
	}
	leadsURL, _ := json.Marshal("/api/leads")
	clientIDJSON, _ := json.Marshal(clientID)

	c.Response().Header().Set(echo.HeaderContentType, "application/javascript; charset=utf-8")
	c.Response().Header().Set("Cache-Control", "public, max-age=300")
	c.Response().WriteHeader(http.StatusOK)
	return widgetScript.Execute(c.Response(), widgetData{
		ConfigJSON: string(cfgJSON),
		LeadsURL:   string(leadsURL),
		ClientID:   string(clientIDJSON),
	})
}
