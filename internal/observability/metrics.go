package observability

import "github.com/prometheus/client_golang/prometheus"

var (
	activitiesStopped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecomove",
		Subsystem: "activities",
		Name:      "stopped_total",
		Help:      "Number of activity stops committed, by activity type.",
	}, []string{"activity_type"})
	co2Saved = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ecomove",
		Subsystem: "activities",
		Name:      "co2_saved_kg_total",
		Help:      "Total CO2 savings credited across all stops.",
	})
	purchases = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "ecomove",
		Subsystem: "shop",
		Name:      "purchases_total",
		Help:      "Number of successful shop purchases.",
	})
)

func init() {
	prometheus.MustRegister(activitiesStopped, co2Saved, purchases)
}

// RecordActivityStopped counts one committed stop.
func RecordActivityStopped(activityType string, co2Kg float64) {
	activitiesStopped.WithLabelValues(activityType).Inc()
	if co2Kg > 0 {
		co2Saved.Add(co2Kg)
	}
}

// RecordPurchase counts one successful purchase.
func RecordPurchase() {
	purchases.Inc()
}
