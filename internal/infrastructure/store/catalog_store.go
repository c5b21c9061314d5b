package store

import (
	"sync"

	"github.com/openfx/currency-widget/internal/domain/entity"
)

// CatalogStore provides thread-safe access to the currently loaded currency
// catalog. The catalog is replaced wholesale on (re)load; there is no partial
// mutation and no expiry.
type CatalogStore struct {
	mutex   sync.RWMutex
	catalog *entity.CurrencyCatalog
}

// NewCatalogStore creates an empty catalog store
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{}
}

// Replace swaps in a freshly loaded catalog
func (s *CatalogStore) Replace(catalog *entity.CurrencyCatalog) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.catalog = catalog
}

// Get returns the current catalog, or false if none has been loaded yet
func (s *CatalogStore) Get() (*entity.CurrencyCatalog, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.catalog == nil {
		return nil, false
	}
	return s.catalog, true
}

// Loaded reports whether a catalog load has ever succeeded
func (s *CatalogStore) Loaded() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.catalog != nil
}

// Codes returns the catalog's currency codes, empty when nothing is loaded
func (s *CatalogStore) Codes() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.catalog == nil {
		return nil
	}
	return s.catalog.Codes()
}
