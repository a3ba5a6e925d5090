// ABOUTME: Charm KV handle used as a repquest storage backend.
// ABOUTME: Wraps kv.KV with a lock, read-only detection, and optional cloud sync after writes.
package charm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/charmbracelet/charm/client"
	"github.com/charmbracelet/charm/kv"
	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/repquest/internal/storage"
)

const (
	dbName = "repquest"

	// DefaultHost is the Charm server used when none is configured.
	DefaultHost = "charm.2389.dev"
)

// kvStore is the subset of *kv.KV the client uses.
type kvStore interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
	Keys() ([][]byte, error)
	Sync() error
	IsReadOnly() bool
	Close() error
}

// Options configure Open.
type Options struct {
	// Host overrides CHARM_HOST. Empty keeps the environment value or DefaultHost.
	Host     string
	AutoSync bool
	Logger   *log.Logger
}

// Client is a storage.Repository backed by Charm KV.
type Client struct {
	mu       sync.RWMutex
	kv       kvStore
	autoSync bool
	logger   *log.Logger
}

var _ storage.Repository = (*Client)(nil)

// Open opens the repquest KV database and pulls remote changes once.
// If another process holds the database lock the client opens read-only.
func Open(opts Options) (*Client, error) {
	host := opts.Host
	if host == "" {
		host = os.Getenv("CHARM_HOST")
	}
	if host == "" {
		host = DefaultHost
	}
	if err := os.Setenv("CHARM_HOST", host); err != nil {
		return nil, fmt.Errorf("set charm host: %w", err)
	}

	db, err := kv.OpenWithDefaultsFallback(dbName)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	c := newClient(db, opts.AutoSync)
	if opts.Logger != nil {
		c.logger = opts.Logger
	}
	c.logger.Debug("charm kv opened", "host", host, "read_only", db.IsReadOnly())

	if !db.IsReadOnly() {
		if err := db.Sync(); err != nil {
			c.logger.Warn("initial charm sync failed", "err", err)
		}
	}
	return c, nil
}

func newClient(store kvStore, autoSync bool) *Client {
	return &Client{kv: store, autoSync: autoSync, logger: log.New(io.Discard)}
}

// Close closes the KV database.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kv == nil {
		return nil
	}
	err := c.kv.Close()
	c.kv = nil
	return err
}

// IsReadOnly reports whether another process (usually 'repquest mcp') holds the lock.
func (c *Client) IsReadOnly() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.kv.IsReadOnly()
}

// Sync pushes and pulls with Charm Cloud. A read-only client does nothing.
func (c *Client) Sync() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.kv.IsReadOnly() {
		return nil
	}
	return c.kv.Sync()
}

// SetAutoSync toggles the sync that follows every write.
func (c *Client) SetAutoSync(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoSync = enabled
}

// ID returns the Charm user ID for the linked account.
func (c *Client) ID() (string, error) {
	cc, err := client.NewClientWithDefaults()
	if err != nil {
		return "", fmt.Errorf("create charm client: %w", err)
	}
	return cc.ID()
}

// get returns the value for key, or nil if the key does not exist.
func (c *Client) get(key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.getLocked(key)
}

func (c *Client) getLocked(key string) ([]byte, error) {
	data, err := c.kv.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	return data, err
}

func (c *Client) set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.writable(); err != nil {
		return err
	}
	if err := c.kv.Set([]byte(key), data); err != nil {
		return err
	}
	c.afterWrite()
	return nil
}

func (c *Client) delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.writable(); err != nil {
		return err
	}
	if err := c.kv.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return err
	}
	c.afterWrite()
	return nil
}

// nextID increments the named counter and returns the new value.
// The read and write happen under one lock so concurrent enqueues get distinct ids.
func (c *Client) nextID(name string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.writable(); err != nil {
		return 0, err
	}

	key := CounterPrefix + name
	raw, err := c.getLocked(key)
	if err != nil {
		return 0, err
	}
	var current int64
	if raw != nil {
		if current, err = strconv.ParseInt(string(raw), 10, 64); err != nil {
			return 0, fmt.Errorf("parse counter %s: %w", name, err)
		}
	}
	next := current + 1
	if err := c.kv.Set([]byte(key), []byte(strconv.FormatInt(next, 10))); err != nil {
		return 0, err
	}
	return next, nil
}

func (c *Client) writable() error {
	if c.kv.IsReadOnly() {
		return fmt.Errorf("cannot write: database is locked by another process (repquest mcp?): %w", storage.ErrReadOnly)
	}
	return nil
}

// afterWrite runs with mu held.
func (c *Client) afterWrite() {
	if !c.autoSync {
		return
	}
	if err := c.kv.Sync(); err != nil {
		c.logger.Warn("charm sync after write failed", "err", err)
	}
}

// keysWithPrefix returns matching keys in ascending order.
func (c *Client) keysWithPrefix(prefix string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys, err := c.kv.Keys()
	if err != nil {
		return nil, err
	}
	p := []byte(prefix)
	var out []string
	for _, key := range keys {
		if bytes.HasPrefix(key, p) {
			out = append(out, string(key))
		}
	}
	sort.Strings(out)
	return out, nil
}

func decode[T any](data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
