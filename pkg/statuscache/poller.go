package statuscache

import (
	"context"
	"time"

	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/log"
	"github.com/cuemby/komodo-core/pkg/periphery"
)

// pollServer runs one server's poll loop until stop is closed, backing
// off to UnreachableInterval after a failed check and returning to
// NormalInterval as soon as one succeeds.
func (c *Cache) pollServer(server komodo.Server, stop chan struct{}) {
	defer c.wg.Done()

	interval := NormalInterval
	c.poll(server)

	for {
		select {
		case <-time.After(interval):
			if err := c.poll(server); err != nil {
				interval = UnreachableInterval
			} else {
				interval = NormalInterval
			}
		case <-stop:
			return
		case <-c.stopCh:
			return
		}
	}
}

// poll fetches SystemInformation and SystemProcesses for one server
// through the shared short-TTL caches and stores the resulting
// ServerInfo snapshot.
func (c *Cache) poll(server komodo.Server) error {
	client := c.dial(server)

	ctx, cancel := context.WithTimeout(context.Background(), NormalInterval)
	defer cancel()

	info, err := c.sysInfo.Get(server.ID, CacheTTL, func() (periphery.SystemInfo, error) {
		return client.GetSystemInformation(ctx)
	})
	if err != nil {
		c.markUnreachable(server.ID, err)
		return err
	}

	if _, err := c.sysProc.Get(server.ID, CacheTTL, func() ([]periphery.ProcessInfo, error) {
		return client.GetSystemProcesses(ctx)
	}); err != nil {
		c.markUnreachable(server.ID, err)
		return err
	}

	c.setSnapshot(server.ID, komodo.ServerInfo{
		State:            komodo.ServerStateOk,
		PeripheryVersion: info.Version,
		LastPolledAt:     time.Now(),
	})
	return nil
}

func (c *Cache) markUnreachable(serverID string, err error) {
	log.WithComponent("statuscache").Warn().Str("server_id", serverID).Err(err).Msg("server unreachable")
	c.setSnapshot(serverID, komodo.ServerInfo{
		State:        komodo.ServerStateNotOk,
		LastPolledAt: time.Now(),
	})
}

// Processes returns the cached process list for a server, refreshing
// it through the same single-flight cache the poller uses.
func (c *Cache) Processes(ctx context.Context, server komodo.Server) ([]periphery.ProcessInfo, error) {
	client := c.dial(server)
	return c.sysProc.Get(server.ID, CacheTTL, func() ([]periphery.ProcessInfo, error) {
		return client.GetSystemProcesses(ctx)
	})
}
