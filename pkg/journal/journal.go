package journal

import (
	"fmt"
	"time"

	"github.com/cuemby/komodo-core/pkg/events"
	"github.com/cuemby/komodo-core/pkg/komodo"
	"github.com/cuemby/komodo-core/pkg/log"
	"github.com/cuemby/komodo-core/pkg/store"
	"github.com/google/uuid"
)

// RestartLog is the synthetic log line the startup janitor writes onto
// any Update still InProgress from a prior process.
const RestartLog = "core restart while in-progress"

// Journal persists Updates through store.DB and broadcasts every
// lifecycle transition through events.Broker, following the
// Queued -> InProgress -> Complete protocol.
type Journal struct {
	store  *store.DB
	broker *events.Broker
}

func New(db *store.DB, broker *events.Broker) *Journal {
	return &Journal{store: db, broker: broker}
}

// Make constructs a Queued Update carrying an initial log line
// describing the request. It is not yet persisted; call Add to insert
// it and start broadcasting.
func (j *Journal) Make(target komodo.ResourceTarget, op komodo.Operation, userID string, requestLog string) *komodo.Update {
	u := &komodo.Update{
		ID:        uuid.New().String(),
		Target:    target,
		Operation: op,
		Status:    komodo.UpdateStatusQueued,
		UserID:    userID,
	}
	if requestLog != "" {
		u.PushSimpleLog("request", requestLog)
	}
	return u
}

// Add transitions u to InProgress, persists it, and broadcasts the
// transition.
func (j *Journal) Add(u *komodo.Update) error {
	u.InProgress()
	if err := j.persist(u); err != nil {
		return err
	}
	j.publish(u, nil)
	return nil
}

// Append appends l to u's log, persists the updated record, and
// broadcasts the incremental event.
func (j *Journal) Append(u *komodo.Update, l komodo.Log) error {
	u.PushLog(l)
	if err := j.persist(u); err != nil {
		return err
	}
	j.publish(u, &l)
	return nil
}

// Finalize transitions u to Complete with the given outcome, persists
// the terminal record, and broadcasts it.
func (j *Journal) Finalize(u *komodo.Update, success bool) error {
	u.Finalize(success)
	if err := j.persist(u); err != nil {
		return err
	}
	j.publish(u, nil)
	return nil
}

func (j *Journal) persist(u *komodo.Update) error {
	if err := j.store.PutUpdate(*u); err != nil {
		return fmt.Errorf("persist update %s: %w", u.ID, err)
	}
	return nil
}

func (j *Journal) publish(u *komodo.Update, l *komodo.Log) {
	if j.broker == nil {
		return
	}
	j.broker.Publish(&events.UpdateEvent{
		UpdateID:  u.ID,
		Target:    u.Target,
		Status:    u.Status,
		Log:       l,
		Timestamp: time.Now(),
	})
}

// SweepOrphaned finalizes every Update left InProgress by a prior
// process as success=false with a synthetic restart log line. Returns
// the number of records swept.
func (j *Journal) SweepOrphaned() (int, error) {
	all, err := j.store.ListUpdates()
	if err != nil {
		return 0, fmt.Errorf("list updates for sweep: %w", err)
	}

	swept := 0
	for _, u := range all {
		if u.Status != komodo.UpdateStatusInProgress {
			continue
		}
		u.PushErrorLog("restart", RestartLog)
		u.Finalize(false)
		if err := j.persist(&u); err != nil {
			return swept, err
		}
		j.publish(&u, nil)
		swept++
	}

	if swept > 0 {
		log.WithComponent("journal").Warn().Int("count", swept).Msg("swept orphaned in-progress updates")
	}
	return swept, nil
}
