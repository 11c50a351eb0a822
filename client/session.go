package client

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strconv"
	"sync"

	"github.com/raynaldi/tabletap/models"
)

// tableStoreKey is where the bound table number lives in client-local storage.
const tableStoreKey = "tableNumber"

// ErrNoTable means no binding could be resolved and the caller should present
// the manual table-selection prompt.
var ErrNoTable = errors.New("no table binding resolved")

// Store is client-local persistent storage for the session.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// MemStore is an in-memory Store.
type MemStore struct {
	mu     sync.Mutex
	values map[string]string
}

func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]string)}
}

func (m *MemStore) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemStore) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

func (m *MemStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
}

// TableResolver binds a browsing session to a restaurant table.
type TableResolver struct {
	api   *API
	store Store
	state *AppState
}

func NewTableResolver(api *API, store Store, state *AppState) *TableResolver {
	return &TableResolver{api: api, store: store, state: state}
}

// Resolve works through the binding priority order: an explicit table number
// in the page URL's query, then the persisted value from the store, then
// none. Each candidate is validated against the server's active-table list;
// an invalid candidate is discarded (and the store cleared, for stored
// values) before falling through. Returns the rewritten page URL on success
// and ErrNoTable when manual selection is required.
func (r *TableResolver) Resolve(ctx context.Context, pageURL string) (*models.Table, string, error) {
	if number, ok := tableFromURL(pageURL); ok {
		table, rewritten, err := r.Bind(ctx, number, pageURL)
		if err == nil {
			return table, rewritten, nil
		}
		log.Printf("invalid table from URL: %v", err)
	}

	if stored, ok := r.store.Get(tableStoreKey); ok {
		if number, err := strconv.Atoi(stored); err == nil && number > 0 {
			table, rewritten, err := r.Bind(ctx, number, pageURL)
			if err == nil {
				return table, rewritten, nil
			}
			log.Printf("invalid stored table: %v", err)
		}
		// A stale value would re-fail on every load; drop it.
		r.store.Delete(tableStoreKey)
	}

	return nil, pageURL, ErrNoTable
}

// Bind validates the table number, persists the binding locally, updates the
// session state, best-effort reports it to the server side and rewrites the
// page URL so the binding survives refresh or share.
func (r *TableResolver) Bind(ctx context.Context, number int, pageURL string) (*models.Table, string, error) {
	table, err := r.api.GetTableByNumber(ctx, number)
	if err != nil {
		return nil, pageURL, err
	}

	r.store.Set(tableStoreKey, strconv.Itoa(number))
	r.state.SetTable(number)

	// Non-critical side channel; a failure here does not fail the bind.
	if key, err := r.api.BindSessionTable(ctx, number, r.state.SessionKey()); err != nil {
		log.Printf("failed to set session table: %v", err)
	} else {
		r.state.SetSessionKey(key)
	}

	return table, setTableInURL(pageURL, number), nil
}

// Clear drops the binding from store, state and the page URL.
func (r *TableResolver) Clear(pageURL string) string {
	r.store.Delete(tableStoreKey)
	r.state.ClearTable()
	return removeTableFromURL(pageURL)
}

func tableFromURL(pageURL string) (int, bool) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return 0, false
	}
	number, err := strconv.Atoi(u.Query().Get("table"))
	if err != nil || number <= 0 {
		return 0, false
	}
	return number, true
}

func setTableInURL(pageURL string, number int) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	q := u.Query()
	q.Set("table", strconv.Itoa(number))
	u.RawQuery = q.Encode()
	return u.String()
}

func removeTableFromURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	q := u.Query()
	q.Del("table")
	u.RawQuery = q.Encode()
	return u.String()
}
