package handler

import "github.com/labstack/echo/v4"

// inferStore derives the candidate storefront domain for a request when
// none was supplied explicitly: the store query parameter wins, then the
// Origin, Referer, and Host headers in that order. Normalization happens
// in the directory, so raw header values are fine here.
func inferStore(c echo.Context) string {
	if v := c.QueryParam("store"); v != "" {
		return v
	}
	r := c.Request()
	for _, v := range []string{r.Header.Get("Origin"), r.Header.Get("Referer"), r.Host} {
		if v != "" {
			return v
		}
	}
	return ""
}
