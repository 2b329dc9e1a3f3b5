package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appconfig "github.com/chuqudee-sand/feedback-summarizer/config"
	"github.com/chuqudee-sand/feedback-summarizer/internal/summarize"
	"github.com/chuqudee-sand/feedback-summarizer/provider"
)

// Run builds the service from config and serves until the process
// stops. The provider client is constructed once here and read-only
// afterwards.
func Run(cfg *appconfig.Config, addr string) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	// Unified HTTP error handler with structured JSON and logging
	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		requestErrorsTotal.WithLabelValues(fmt.Sprint(code)).Inc()
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}

	e.GET("/healthz", func(c echo.Context) error { return c.String(200, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	llm, err := provider.NewProvider(cfg.Provider)
	if err != nil {
		return err
	}
	invoker := summarize.NewInvoker(llm, cfg.Pipeline.MaxRetries, nil)
	pipeline, err := summarize.NewPipeline(invoker, cfg.Pipeline, nil)
	if err != nil {
		return err
	}

	h := &SummarizeHandler{Pipeline: pipeline, Logger: baseLogger}
	h.Register(e)

	if addr == "" {
		addr = cfg.Server.Listen
		if addr == "" {
			addr = ":8080"
		}
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}
