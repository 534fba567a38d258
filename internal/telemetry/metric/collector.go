package metric

import "github.com/prometheus/client_golang/prometheus"

// ChannelStats is a point-in-time view of the shared channel.
type ChannelStats struct {
	Name     string
	State    string
	Capacity int
}

// ChannelCollector reports the shared channel on every scrape. The stats
// function is called from the scraping goroutine and must be safe for
// concurrent use.
type ChannelCollector struct {
	stats func() (ChannelStats, bool)

	capacity *prometheus.Desc
	open     *prometheus.Desc
}

// Channel states reported by ChannelCollector.
var channelStates = []string{"unopened", "created", "attached", "closed"}

// NewChannelCollector creates a collector that reads stats on demand.
// stats returns false when no channel exists.
func NewChannelCollector(stats func() (ChannelStats, bool)) *ChannelCollector {
	return &ChannelCollector{
		stats: stats,
		capacity: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "channel", "capacity_bytes"),
			"Size of the shared region.",
			[]string{"name"}, nil,
		),
		open: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "channel", "state"),
			"Lifecycle state of the shared channel, 1 for the current state.",
			[]string{"name", "state"}, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *ChannelCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.open
}

// Collect implements prometheus.Collector.
func (c *ChannelCollector) Collect(ch chan<- prometheus.Metric) {
	st, ok := c.stats()
	if !ok {
		return
	}
	ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue, float64(st.Capacity), st.Name)
	for _, s := range channelStates {
		v := 0.0
		if s == st.State {
			v = 1
		}
		ch <- prometheus.MustNewConstMetric(c.open, prometheus.GaugeValue, v, st.Name, s)
	}
}
