package dataset

import (
	"errors"

	"github.com/oeeboard/oeeboard/server/internal/store"
)

// ErrNotLoaded is returned by Provider.Dataset before the first load
// attempt has finished.
var ErrNotLoaded = errors.New("dataset not loaded")

// Provider serves one source's cached dataset to readers.
type Provider struct {
	Store  *store.Store
	Source Source
}

// Dataset returns the cached entry for the provider's source. When the
// source failed to load it returns that failure; when no load has been
// attempted yet it returns ErrNotLoaded.
func (p Provider) Dataset() (*store.Entry, error) {
	key := p.Source.Key()
	if e, ok := p.Store.Get(key); ok {
		return e, nil
	}
	if err := p.Store.Err(key); err != nil {
		return nil, err
	}
	return nil, ErrNotLoaded
}
