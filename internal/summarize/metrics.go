package summarize

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	modelInvocationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "summarizer_model_invocations_total",
		Help: "Outbound model calls, including retries.",
	})
	modelRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "summarizer_model_retries_total",
		Help: "Retries triggered by rate-limit-class failures.",
	})
	parseFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "summarizer_parse_failures_total",
		Help: "Model responses that failed output normalization.",
	})
)
