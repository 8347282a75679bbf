package statuscache

import (
	"sync"
	"time"

	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/log"
	"github.com/cuemby/komodo-core/pkg/periphery"
	"github.com/cuemby/komodo-core/pkg/sfcache"
	"github.com/cuemby/komodo-core/pkg/store"
)

// NormalInterval is the poll period for a server that answered its
// last check.
const NormalInterval = 15 * time.Second

// UnreachableInterval is the backed-off poll period applied after a
// server fails to answer.
const UnreachableInterval = 60 * time.Second

// CacheTTL is the freshness window of the SystemInformation and
// SystemProcesses single-flight caches.
const CacheTTL = 15 * time.Second

// syncInterval is how often the poller set is reconciled against the
// current list of enabled servers.
const syncInterval = 5 * time.Second

// Dialer builds a Periphery client for one server.
type Dialer func(server komodo.Server) *periphery.Client

// Cache maintains one ServerInfo snapshot per enabled server, refreshed
// by a background poller.
type Cache struct {
	store *store.DB
	dial  Dialer

	sysInfo *sfcache.Cache[periphery.SystemInfo]
	sysProc *sfcache.Cache[[]periphery.ProcessInfo]

	mu        sync.RWMutex
	snapshots map[string]komodo.ServerInfo
	cancels   map[string]func()

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func New(db *store.DB, dial Dialer) *Cache {
	return &Cache{
		store:     db,
		dial:      dial,
		sysInfo:   sfcache.New[periphery.SystemInfo](),
		sysProc:   sfcache.New[[]periphery.ProcessInfo](),
		snapshots: make(map[string]komodo.ServerInfo),
		cancels:   make(map[string]func()),
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background sync-and-poll loop.
func (c *Cache) Start() {
	c.wg.Add(1)
	go c.syncLoop()
}

// Stop halts the sync loop and every running per-server poller.
func (c *Cache) Stop() {
	close(c.stopCh)
	c.wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = make(map[string]func())
}

// Snapshot returns the last-known ServerInfo for a server, or false if
// no poll has completed for it yet.
func (c *Cache) Snapshot(serverID string) (komodo.ServerInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.snapshots[serverID]
	return info, ok
}

func (c *Cache) setSnapshot(serverID string, info komodo.ServerInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshots[serverID] = info
}

// syncLoop reconciles the set of running pollers against the current
// list of enabled servers, the way a health monitor's sync tick starts
// and stops per-task monitors as the underlying task set changes.
func (c *Cache) syncLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()

	c.sync()
	for {
		select {
		case <-ticker.C:
			c.sync()
		case <-c.stopCh:
			return
		}
	}
}

func (c *Cache) sync() {
	servers, err := c.store.Servers.List()
	if err != nil {
		log.WithComponent("statuscache").Error().Err(err).Msg("failed to list servers")
		return
	}

	current := make(map[string]komodo.Server, len(servers))
	for _, s := range servers {
		if s.Config.Enabled {
			current[s.ID] = s.Server
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for id, cancel := range c.cancels {
		if _, ok := current[id]; !ok {
			cancel()
			delete(c.cancels, id)
			delete(c.snapshots, id)
		}
	}

	for id, server := range current {
		if _, ok := c.cancels[id]; ok {
			continue
		}
		stop := make(chan struct{})
		c.cancels[id] = func() { close(stop) }
		c.wg.Add(1)
		go c.pollServer(server, stop)
	}
}
