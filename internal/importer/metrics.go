package importer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var importsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "reviewlar_imports_total",
	Help: "JSON imports into editor drafts by kind and outcome.",
}, []string{"kind", "outcome"})
