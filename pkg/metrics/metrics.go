package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	OrphanagesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "happymap", Name: "orphanages_created_total", Help: "Number of orphanage listings created."},
	)
	ImagesStored = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "happymap", Name: "images_stored_total", Help: "Number of listing images written to blob storage."},
	)
	ListingFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "happymap", Name: "listing_fetches_total", Help: "Number of listing reads by outcome."},
		[]string{"op", "outcome"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "happymap", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "happymap", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(OrphanagesCreated)
	reg.MustRegister(ImagesStored)
	reg.MustRegister(ListingFetches)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
