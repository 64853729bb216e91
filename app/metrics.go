package app

import "github.com/prometheus/client_golang/prometheus"

// relayBuffer is the number of computed plans waiting for the relay before
// new ones are dropped.
const relayBuffer = 64

var droppedEvents = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "powerplan_relay_dropped_events_total",
	Help: "Computed plans dropped because the notification relay was not keeping up",
})

func init() {
	prometheus.MustRegister(droppedEvents)
}
