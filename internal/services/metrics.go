package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	saveResultOK            = "ok"
	saveResultLoadFailed    = "load_failed"
	saveResultPersistFailed = "persist_failed"
)

var (
	symptomSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowlog_symptom_saves_total",
		Help: "Symptom attach operations by result.",
	}, []string{"result"})

	periodsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowlog_periods_created_total",
		Help: "Period records created because no active period matched.",
	})

	unreadableSymptomsReplaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowlog_unreadable_symptoms_replaced_total",
		Help: "Stored symptom sets that failed to decode and were replaced by a new selection.",
	})

	periodUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flowlog_period_updates_total",
		Help: "Flow and end date edits by result.",
	}, []string{"result"})
)

func observeSymptomSave(result string) {
	symptomSaves.WithLabelValues(result).Inc()
}
