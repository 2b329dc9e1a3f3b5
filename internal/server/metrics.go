package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var requestErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "summarizer_request_errors_total",
	Help: "HTTP error responses by status code.",
}, []string{"code"})
