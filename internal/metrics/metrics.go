package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsCreated counts provider sessions created on registry misses.
	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rooms_sessions_created_total",
		Help: "Number of provider sessions created for new room names.",
	})

	// TokensIssued counts client tokens minted.
	TokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rooms_tokens_issued_total",
		Help: "Number of client tokens issued.",
	})

	// ArchivesStarted counts archive start requests accepted by the provider.
	ArchivesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "archives_started_total",
		Help: "Number of archives started.",
	})

	// ArchivesStopped counts archive stop requests accepted by the provider.
	ArchivesStopped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "archives_stopped_total",
		Help: "Number of archives stopped.",
	})

	// ResolverPolls counts status queries made by the media resolution loop.
	ResolverPolls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resolver_status_polls_total",
		Help: "Number of archive status polls performed while waiting for upload.",
	})

	// ResolverResolved counts download URLs successfully generated.
	ResolverResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resolver_urls_generated_total",
		Help: "Number of signed download URLs generated.",
	})
)
