package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

// Bucket names for every collection, one var per bucket.
var (
	bucketDeployments = []byte("deployments")
	bucketStacks      = []byte("stacks")
	bucketServers     = []byte("servers")
	bucketBuilds      = []byte("builds")
	bucketRepos       = []byte("repos")
	bucketProcedures  = []byte("procedures")
	bucketActions     = []byte("actions")
	bucketAlerters    = []byte("alerters")
	bucketSyncs       = []byte("syncs")
	bucketTags        = []byte("tags")
	bucketUpdates     = []byte("updates")
	bucketStats       = []byte("stats")
	bucketVariables   = []byte("variables")
)

var allBuckets = [][]byte{
	bucketDeployments, bucketStacks, bucketServers, bucketBuilds,
	bucketRepos, bucketProcedures, bucketActions, bucketAlerters,
	bucketSyncs, bucketTags, bucketUpdates, bucketStats, bucketVariables,
}

// DB is Komodo's bbolt-backed document store, holding one Collection
// per resource kind plus the Update journal and stats history.
type DB struct {
	db *bolt.DB

	Deployments Collection[storedDeployment]
	Stacks      Collection[storedStack]
	Servers     Collection[storedServer]
	Procedures  Collection[storedProcedure]
	Actions     Collection[storedAction]
	Variables   Collection[storedVariable]
	Updates     Collection[storedUpdate]
	Stats       Collection[storedStats]
}

// Open creates (or re-opens) the bbolt-backed store rooted at dataDir:
// a fixed db filename under a caller-supplied data directory, with
// every bucket created if missing.
func Open(dataDir string) (*DB, error) {
	dbPath := filepath.Join(dataDir, "komodo.db")

	bdb, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = bdb.Update(func(tx *bolt.Tx) error {
		for _, b := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		bdb.Close()
		return nil, err
	}

	return &DB{
		db:          bdb,
		Deployments: Collection[storedDeployment]{db: bdb, bucket: bucketDeployments},
		Stacks:      Collection[storedStack]{db: bdb, bucket: bucketStacks},
		Servers:     Collection[storedServer]{db: bdb, bucket: bucketServers},
		Procedures:  Collection[storedProcedure]{db: bdb, bucket: bucketProcedures},
		Actions:     Collection[storedAction]{db: bdb, bucket: bucketActions},
		Variables:   Collection[storedVariable]{db: bdb, bucket: bucketVariables},
		Updates:     Collection[storedUpdate]{db: bdb, bucket: bucketUpdates},
		Stats:       Collection[storedStats]{db: bdb, bucket: bucketStats},
	}, nil
}

func (d *DB) Close() error { return d.db.Close() }

// Keyed is implemented by every record type stored in a Collection, so
// the generic CRUD methods can read/write the record's own id.
type Keyed interface {
	Key() string
}

// Collection is a generic bbolt-backed CRUD surface for one document
// collection.
type Collection[T Keyed] struct {
	db     *bolt.DB
	bucket []byte
}

// ErrNotFound is returned by Get when no record has the key; GetByName
// reports a miss through its bool result instead.
type ErrNotFound struct {
	Bucket string
	Key    string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s: not found: %s", e.Bucket, e.Key)
}

func (c Collection[T]) Put(v T) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.bucket)
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return b.Put([]byte(v.Key()), data)
	})
}

func (c Collection[T]) Get(key string) (T, error) {
	var v T
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.bucket)
		data := b.Get([]byte(key))
		if data == nil {
			return &ErrNotFound{Bucket: string(c.bucket), Key: key}
		}
		return json.Unmarshal(data, &v)
	})
	return v, err
}

func (c Collection[T]) Delete(key string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(c.bucket).Delete([]byte(key))
	})
}

// List returns every record in the collection. Order is bbolt's sorted
// byte order over keys, not insertion order or any domain order;
// callers needing a specific order (e.g. Updates by start_ts desc) sort
// after calling List.
func (c Collection[T]) List() ([]T, error) {
	var out []T
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(c.bucket)
		return b.ForEach(func(_, v []byte) error {
			var rec T
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			out = append(out, rec)
			return nil
		})
	})
	return out, err
}

// Find returns the first record for which pred returns true.
func (c Collection[T]) Find(pred func(T) bool) (T, bool, error) {
	var zero T
	all, err := c.List()
	if err != nil {
		return zero, false, err
	}
	for _, rec := range all {
		if pred(rec) {
			return rec, true, nil
		}
	}
	return zero, false, nil
}

// Filter returns every record for which pred returns true.
func (c Collection[T]) Filter(pred func(T) bool) ([]T, error) {
	all, err := c.List()
	if err != nil {
		return nil, err
	}
	var out []T
	for _, rec := range all {
		if pred(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}
