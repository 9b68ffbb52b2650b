// Package proxy forwards the conversion API to an upstream service without touching payloads.
package proxy

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
)

// Handler forwards requests to the upstream conversion service
type Handler struct {
	proxy  *httputil.ReverseProxy
	logger *slog.Logger
}

// NewHandler builds a Handler for upstreamURL. Paths are kept as is.
func NewHandler(upstreamURL string, transport http.RoundTripper, logger *slog.Logger) (*Handler, error) {
	upstream, err := url.Parse(upstreamURL)
	if err != nil || upstream.Scheme == "" || upstream.Host == "" {
		return nil, fmt.Errorf("invalid upstream url %q", upstreamURL)
	}

	h := &Handler{logger: logger}
	h.proxy = &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			pr.SetXForwarded()
		},
		Transport:    transport,
		ErrorHandler: h.upstreamError,
	}
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.proxy.ServeHTTP(w, r)
}

func (h *Handler) upstreamError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("upstream request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	w.Write([]byte(`{"error":"upstream unavailable"}`))
}
