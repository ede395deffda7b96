// Thermalwatch - Thermal Frame Ingestion and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thermalwatch

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/thermalwatch/internal/config"
	"github.com/tomtom215/thermalwatch/internal/middleware"
)

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router using the security settings in cfg.
func NewRouter(handler *Handler, cfg *config.SecurityConfig) *Router {
	mwConfig := DefaultChiMiddlewareConfig()
	if len(cfg.CORSOrigins) > 0 {
		mwConfig.CORSAllowedOrigins = cfg.CORSOrigins
	}
	if cfg.QueryRateLimitRequests > 0 {
		mwConfig.RateLimitRequests = cfg.QueryRateLimitRequests
	}
	if cfg.QueryRateLimitWindow > 0 {
		mwConfig.RateLimitWindow = cfg.QueryRateLimitWindow
	}
	mwConfig.RateLimitDisabled = cfg.QueryRateLimitDisabled
	mwConfig.TrustedProxies = cfg.TrustedProxies

	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Applied to every route, in order.
	r.Use(middleware.RequestID)
	r.Use(router.chiMiddleware.RealIP())
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight is answered
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, msgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Ingestion. Auth and the per-source limiter run inside the pipeline.
	r.With(APISecurityHeaders()).Post("/upload", router.handler.Upload)

	// Viewer routes.
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitViewer())
		r.Use(APISecurityHeaders())

		r.Get("/status", router.handler.Status)
		r.Get("/history", router.handler.History)
		r.Get("/alerts", router.handler.Alerts)
		r.Get("/image", router.handler.Image)
		r.Get("/download/{id}", router.handler.Download)
	})

	r.Get("/health", router.handler.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/ws", router.handler.WebSocket)

	return r
}
