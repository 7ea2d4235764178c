package lease

import (
	"encoding/json"
	"fmt"
	"sync"

	bolt "go.etcd.io/bbolt"
)

var bucketLeases = []byte("leases")

// Store persists leases in BoltDB, keyed by network id, with an
// in-memory copy for lock-free-on-disk reads. A client holds at most
// one lease per network.
type Store struct {
	db        *bolt.DB
	mu        sync.RWMutex
	byNetwork map[string]*Lease
}

// NewStore opens or creates the lease database and loads existing
// leases into memory.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{
		NoSync: false,
	})
	if err != nil {
		return nil, fmt.Errorf("opening lease database %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketLeases); err != nil {
			return fmt.Errorf("creating bucket %s: %w", bucketLeases, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing database buckets: %w", err)
	}

	s := &Store{
		db:        db,
		byNetwork: make(map[string]*Lease),
	}

	if err := s.loadAll(); err != nil {
		db.Close()
		return nil, fmt.Errorf("loading leases from database: %w", err)
	}

	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) loadAll() error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLeases)
		return b.ForEach(func(k, v []byte) error {
			l := &Lease{}
			if err := json.Unmarshal(v, l); err != nil {
				return fmt.Errorf("unmarshalling lease %s: %w", k, err)
			}
			s.byNetwork[l.NetworkID] = l
			return nil
		})
	})
}

// Put creates or updates the lease for its network.
func (s *Store) Put(l *Lease) error {
	if l.NetworkID == "" {
		return fmt.Errorf("lease for %s has no network id", l.IP)
	}

	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("marshalling lease for %s: %w", l.IP, err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLeases)
		if err := b.Put([]byte(l.NetworkID), data); err != nil {
			return fmt.Errorf("writing lease for network %s: %w", l.NetworkID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.byNetwork[l.NetworkID] = l.Clone()
	s.mu.Unlock()

	return nil
}

// Get returns the lease for a network, or nil if none is stored.
func (s *Store) Get(networkID string) *Lease {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.byNetwork[networkID]
	if !ok {
		return nil
	}
	return l.Clone()
}

// Delete removes the lease for a network.
func (s *Store) Delete(networkID string) error {
	s.mu.RLock()
	_, exists := s.byNetwork[networkID]
	s.mu.RUnlock()

	if !exists {
		return nil
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLeases)
		if err := b.Delete([]byte(networkID)); err != nil {
			return fmt.Errorf("deleting lease for network %s: %w", networkID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.byNetwork, networkID)
	s.mu.Unlock()

	return nil
}

// All returns all stored leases (cloned).
func (s *Store) All() []*Lease {
	s.mu.RLock()
	defer s.mu.RUnlock()
	leases := make([]*Lease, 0, len(s.byNetwork))
	for _, l := range s.byNetwork {
		leases = append(leases, l.Clone())
	}
	return leases
}

// Count returns the number of stored leases.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byNetwork)
}
