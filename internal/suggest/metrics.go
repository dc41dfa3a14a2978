package suggest

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var suggestionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reviewlar_suggestions_total",
	Help: "Pros/cons suggestion requests by outcome.",
}, []string{"outcome"})
