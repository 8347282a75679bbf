package metrics

import (
	"time"

	"github.com/cuemby/komodo-core/pkg/store"
)

// Collector periodically samples the document store and publishes gauge
// metrics for resource and server counts.
type Collector struct {
	db     *store.DB
	stopCh chan struct{}
}

// NewCollector creates a metrics collector bound to db.
func NewCollector(db *store.DB) *Collector {
	return &Collector{
		db:     db,
		stopCh: make(chan struct{}),
	}
}

// Start begins collecting metrics every 15s, after an immediate sample.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()
		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	c.collectResourceCounts()
	c.collectServerStates()
}

func (c *Collector) collectResourceCounts() {
	if deployments, err := c.db.ListDeployments(); err == nil {
		ResourcesTotal.WithLabelValues("deployment").Set(float64(len(deployments)))
	}
	if stacks, err := c.db.ListStacks(); err == nil {
		ResourcesTotal.WithLabelValues("stack").Set(float64(len(stacks)))
	}
	if procedures, err := c.db.ListProcedures(); err == nil {
		ResourcesTotal.WithLabelValues("procedure").Set(float64(len(procedures)))
	}
	if actions, err := c.db.ListActions(); err == nil {
		ResourcesTotal.WithLabelValues("action").Set(float64(len(actions)))
	}
}

func (c *Collector) collectServerStates() {
	servers, err := c.db.ListServers()
	if err != nil {
		return
	}
	counts := map[string]int{}
	for _, s := range servers {
		state := "disabled"
		if s.Config.Enabled {
			state = string(s.Info.State)
			if state == "" {
				state = "unknown"
			}
		}
		counts[state]++
	}
	for state, n := range counts {
		ServersTotal.WithLabelValues(state).Set(float64(n))
	}
}
