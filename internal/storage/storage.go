package storage

import "ChordDHT/internal/domain"

// LocalStore is the concurrent key/value store each node uses to hold
// the resources it is currently responsible for (primary or backup
// copies alike; the store itself does not distinguish the two).
type LocalStore interface {
	Put(resource domain.Resource)
	Get(id domain.ID) (domain.Resource, error)
	Delete(id domain.ID) error
	Between(from, to domain.ID) ([]domain.Resource, error)
	All() []domain.Resource
	DebugLog()
}

var _ LocalStore = (*Storage)(nil)
