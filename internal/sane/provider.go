package sane

import (
	"context"
	"encoding/json"
	"time"
)

// Retrieval sources reported to the refresh callback.
const (
	SourceScan  = "scanimage"
	SourceCache = "cache"
)

// CommandRunner executes the external scanner tool and returns its captured
// standard output. Timeout policy, if any, belongs to the implementation;
// execution errors are surfaced unchanged.
type CommandRunner interface {
	CapabilityListing(ctx context.Context) (string, error)
}

// Store persists one device snapshot at a fixed location.
type Store interface {
	Exists() bool
	Read() ([]byte, error)
	Save(data []byte) error
	Delete() error
}

// Logger defines the logging interface for the provider.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// RefreshFunc is invoked after each successful retrieval. Source reports
// whether the device came from the cache or a fresh scanimage run.
type RefreshFunc func(dev *Device, source string, elapsed time.Duration)

// Provider owns the cache decision around device retrieval.
//
// Retrievals are independent and uncoordinated: two simultaneous Get calls on
// a cold cache may both run the external tool and both write the snapshot,
// with the last write winning. That is an accepted gap, not a guarantee.
type Provider struct {
	runner    CommandRunner
	store     Store
	version   string
	logger    Logger
	onRefresh RefreshFunc
}

// NewProvider creates a provider around the given collaborators. version is
// the running application's version, used as the cache-validity token.
func NewProvider(runner CommandRunner, store Store, version string) *Provider {
	return &Provider{
		runner:  runner,
		store:   store,
		version: version,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the provider.
func (p *Provider) SetLogger(logger Logger) {
	p.logger = logger
}

// SetOnRefresh sets a callback invoked after each successful retrieval.
func (p *Provider) SetOnRefresh(fn RefreshFunc) {
	p.onRefresh = fn
}

// Get returns the device model, from the cached snapshot when one exists
// with a matching version token, otherwise from a fresh scanimage run whose
// result is persisted before returning.
//
// Failures abort the whole call; no partial model is ever returned.
func (p *Provider) Get(ctx context.Context) (*Device, error) {
	start := time.Now()

	if dev, ok := p.cached(); ok {
		p.notify(dev, SourceCache, time.Since(start))
		return dev, nil
	}

	return p.refresh(ctx, start)
}

// Refresh bypasses the cache and re-fetches the device from the external
// tool, overwriting the stored snapshot.
func (p *Provider) Refresh(ctx context.Context) (*Device, error) {
	return p.refresh(ctx, time.Now())
}

// Reset unconditionally deletes the cached snapshot. It is a no-op when no
// snapshot exists.
func (p *Provider) Reset() error {
	if !p.store.Exists() {
		return nil
	}
	return p.store.Delete()
}

// cached loads the stored snapshot if it is present, readable, and stamped
// with the current version token. Any other outcome is treated as a miss so
// retrieval falls through to a fresh scanimage run.
func (p *Provider) cached() (*Device, bool) {
	if !p.store.Exists() {
		return nil, false
	}

	data, err := p.store.Read()
	if err != nil {
		p.logger.Warn("cached device unreadable, re-fetching", "error", err)
		return nil, false
	}

	var dev Device
	if err := json.Unmarshal(data, &dev); err != nil {
		p.logger.Warn("cached device not parseable, re-fetching", "error", err)
		return nil, false
	}

	if dev.Version != p.version {
		p.logger.Debug("cache version token mismatch, re-fetching",
			"cached", dev.Version,
			"current", p.version,
		)
		return nil, false
	}

	return &dev, true
}

// refresh runs the external tool, builds the model, and persists it.
// All failures bubble unchanged to the caller; there is no retry here.
func (p *Provider) refresh(ctx context.Context, start time.Time) (*Device, error) {
	text, err := p.runner.CapabilityListing(ctx)
	if err != nil {
		return nil, err
	}

	dev, err := FromListing(text, p.version)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(dev, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := p.store.Save(data); err != nil {
		return nil, err
	}

	p.logger.Debug("device model refreshed",
		"device", dev.ID,
		"features", len(dev.Features),
	)
	p.notify(dev, SourceScan, time.Since(start))
	return dev, nil
}

func (p *Provider) notify(dev *Device, source string, elapsed time.Duration) {
	if p.onRefresh != nil {
		p.onRefresh(dev, source, elapsed)
	}
}
