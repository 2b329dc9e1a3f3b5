package server

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/chuqudee-sand/feedback-summarizer/internal/summarize"
	"github.com/chuqudee-sand/feedback-summarizer/internal/survey"
)

// invalidDataMessage is the exact error body clients of the original
// service expect for malformed payloads.
const invalidDataMessage = "Invalid data format"

// SummarizeHandler serves POST /summarize.
type SummarizeHandler struct {
	Pipeline *summarize.Pipeline
	Logger   *log.Logger
}

// Register attaches the handler's routes.
func (h *SummarizeHandler) Register(e *echo.Echo) {
	e.POST("/summarize", h.summarize)
}

func (h *SummarizeHandler) summarize(c echo.Context) error {
	reqID := uuid.NewString()
	start := time.Now()

	var req SummarizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, invalidDataMessage)
	}
	if req.Headers == nil || req.Rows == nil {
		return echo.NewHTTPError(http.StatusBadRequest, invalidDataMessage)
	}

	table, err := survey.NewTable(req.Headers, req.StringRows())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, invalidDataMessage)
	}

	result, err := h.Pipeline.Run(c.Request().Context(), table, req.QuestionShortMap)
	if err != nil {
		if errors.Is(err, survey.ErrCohortColumnNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	h.Logger.Printf("request %s: %d rows, %d summary records, %d recommendations in %s",
		reqID, len(table.Rows), len(result.Summary), len(result.Recommendations), time.Since(start).Round(time.Millisecond))
	return c.JSON(http.StatusOK, result)
}
