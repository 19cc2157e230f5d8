package badger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/swiftgrasp/swiftgrasp/internal/common"
	"github.com/swiftgrasp/swiftgrasp/internal/interfaces"

	"github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"
)

// gcInterval is how often the value log garbage collector runs.
const gcInterval = 10 * time.Minute

// Connection wraps the BadgerDB store and exposes the typed storage
// backends built on top of it.
type Connection struct {
	store          *badgerhold.Store
	payloadStorage interfaces.PayloadStorage
	stopGC         chan struct{}
}

// NewConnection opens (or creates) the BadgerDB database at the configured
// path and wires up the payload storage backend.
func NewConnection(cfg *common.BadgerConfig) (*Connection, error) {
	logger := common.GetLogger()

	if cfg.ResetOnStartup {
		if _, err := os.Stat(cfg.Path); err == nil {
			logger.Warn().Str("path", cfg.Path).Msg("Deleting existing database (reset_on_startup=true)")
			if err := os.RemoveAll(cfg.Path); err != nil {
				return nil, fmt.Errorf("failed to reset storage at %s: %w", cfg.Path, err)
			}
		}
	}

	if err := os.MkdirAll(cfg.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", cfg.Path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = cfg.Path
	options.ValueDir = cfg.Path
	options.Logger = nil // arbor handles logging, silence badger's own output

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store at %s: %w", cfg.Path, err)
	}

	logger.Info().Str("path", filepath.Clean(cfg.Path)).Msg("Storage opened")

	conn := &Connection{
		store:  store,
		stopGC: make(chan struct{}),
	}
	conn.payloadStorage = NewPayloadStorage(store)

	go conn.runValueLogGC(store.Badger())

	return conn, nil
}

// runValueLogGC reclaims value log space periodically. Cached payloads
// (price series, figures) are large values, so the value log is where
// deleted entries actually free disk.
func (c *Connection) runValueLogGC(db *badger.DB) {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// repeat until a pass reclaims nothing
			for db.RunValueLogGC(0.7) == nil {
			}
		case <-c.stopGC:
			return
		}
	}
}

// PayloadStorage returns the payload storage backend.
func (c *Connection) PayloadStorage() interfaces.PayloadStorage {
	return c.payloadStorage
}

// Close shuts down the underlying BadgerDB store.
func (c *Connection) Close() error {
	if c.store == nil {
		return nil
	}
	close(c.stopGC)
	if err := c.store.Close(); err != nil {
		return fmt.Errorf("failed to close badger store: %w", err)
	}
	c.store = nil
	return nil
}
