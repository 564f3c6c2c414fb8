package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Labels: kind (stochastic, routine)
	explorerCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reason",
		Subsystem: "explorer",
		Name:      "cycles_total",
		Help:      "Discovery cycles run, by kind",
	}, []string{"kind"})

	// Labels: outcome (discovery, rejected, skipped)
	explorerOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reason",
		Subsystem: "explorer",
		Name:      "outcomes_total",
		Help:      "Discovery cycle outcomes",
	}, []string{"outcome"})

	truthsLearned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "reason",
		Subsystem: "knowledge",
		Name:      "truths_learned_total",
		Help:      "Truths appended to any knowledge base",
	})

	// Labels: verdict (verified, rejected)
	verifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "reason",
		Subsystem: "verifier",
		Name:      "hypotheses_total",
		Help:      "Hypotheses checked, by verdict",
	}, []string{"verdict"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "reason",
		Subsystem: "sessions",
		Name:      "active",
		Help:      "Reasoning sessions held in memory",
	})
)
