package eventstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var archiveSyncTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rsvp_store_archive_sync_total",
		Help: "Background archive/unarchive syncs by result",
	},
	[]string{"op", "result"},
)
