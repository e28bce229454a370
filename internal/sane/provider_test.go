package sane

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"
)

// fakeRunner counts invocations and returns a canned listing.
type fakeRunner struct {
	listing string
	err     error
	calls   int
}

func (r *fakeRunner) CapabilityListing(_ context.Context) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return r.listing, nil
}

// memStore is an in-memory Store that counts writes and deletes.
type memStore struct {
	data    []byte
	saves   int
	deletes int
}

func (s *memStore) Exists() bool { return s.data != nil }

func (s *memStore) Read() ([]byte, error) {
	if s.data == nil {
		return nil, errors.New("no snapshot")
	}
	return s.data, nil
}

func (s *memStore) Save(data []byte) error {
	s.saves++
	s.data = data
	return nil
}

func (s *memStore) Delete() error {
	s.deletes++
	s.data = nil
	return nil
}

func TestProvider_GetColdThenWarm(t *testing.T) {
	runner := &fakeRunner{listing: testListing}
	store := &memStore{}
	provider := NewProvider(runner, store, "2.27.0")

	// Cold cache: exactly one external execution, exactly one cache write.
	dev, err := provider.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if runner.calls != 1 {
		t.Errorf("runner calls = %d, want 1", runner.calls)
	}
	if store.saves != 1 {
		t.Errorf("store saves = %d, want 1", store.saves)
	}
	if dev.ID != "plustek:libusb:001:003" {
		t.Errorf("ID = %q, want %q", dev.ID, "plustek:libusb:001:003")
	}

	// Warm cache, matching version: zero external executions.
	cached, err := provider.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if runner.calls != 1 {
		t.Errorf("runner calls after warm Get = %d, want 1", runner.calls)
	}
	if store.saves != 1 {
		t.Errorf("store saves after warm Get = %d, want 1", store.saves)
	}
	if cached.ID != dev.ID || len(cached.Features) != len(dev.Features) {
		t.Error("cached device differs from freshly built device")
	}
}

func TestProvider_VersionMismatchForcesRefetch(t *testing.T) {
	runner := &fakeRunner{listing: testListing}
	store := &memStore{}

	old := NewProvider(runner, store, "2.26.0")
	if _, err := old.Get(context.Background()); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	// Same store, newer application version: the stale token must force a
	// second external execution and overwrite the snapshot.
	current := NewProvider(runner, store, "2.27.0")
	dev, err := current.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if runner.calls != 2 {
		t.Errorf("runner calls = %d, want 2", runner.calls)
	}
	if store.saves != 2 {
		t.Errorf("store saves = %d, want 2", store.saves)
	}
	if dev.Version != "2.27.0" {
		t.Errorf("Version = %q, want %q", dev.Version, "2.27.0")
	}
}

func TestProvider_CorruptCacheFallsThrough(t *testing.T) {
	runner := &fakeRunner{listing: testListing}
	store := &memStore{data: []byte("{not json")}
	provider := NewProvider(runner, store, "2.27.0")

	if _, err := provider.Get(context.Background()); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if runner.calls != 1 {
		t.Errorf("runner calls = %d, want 1", runner.calls)
	}
}

func TestProvider_RunnerErrorSurfacedUnchanged(t *testing.T) {
	execErr := errors.New("scanimage: exit status 1")
	runner := &fakeRunner{err: execErr}
	store := &memStore{}
	provider := NewProvider(runner, store, "2.27.0")

	_, err := provider.Get(context.Background())
	if !errors.Is(err, execErr) {
		t.Errorf("Get() error = %v, want the execution error unchanged", err)
	}
	if store.saves != 0 {
		t.Errorf("store saves = %d, want 0 after failed retrieval", store.saves)
	}
}

func TestProvider_ParseErrorAbortsWithoutSave(t *testing.T) {
	runner := &fakeRunner{listing: "no banner here"}
	store := &memStore{}
	provider := NewProvider(runner, store, "2.27.0")

	_, err := provider.Get(context.Background())
	if !errors.Is(err, ErrNoDeviceIdentifier) {
		t.Errorf("Get() error = %v, want ErrNoDeviceIdentifier", err)
	}
	if store.saves != 0 {
		t.Errorf("store saves = %d, want 0", store.saves)
	}
}

func TestProvider_Refresh(t *testing.T) {
	runner := &fakeRunner{listing: testListing}
	store := &memStore{}
	provider := NewProvider(runner, store, "2.27.0")

	if _, err := provider.Get(context.Background()); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := provider.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if runner.calls != 2 {
		t.Errorf("runner calls = %d, want 2 (refresh bypasses cache)", runner.calls)
	}
}

func TestProvider_Reset(t *testing.T) {
	runner := &fakeRunner{listing: testListing}
	store := &memStore{}
	provider := NewProvider(runner, store, "2.27.0")

	// No snapshot yet: Reset is a no-op, not an error.
	if err := provider.Reset(); err != nil {
		t.Fatalf("Reset() on empty store error = %v", err)
	}
	if store.deletes != 0 {
		t.Errorf("deletes = %d, want 0", store.deletes)
	}

	if _, err := provider.Get(context.Background()); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if err := provider.Reset(); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if store.deletes != 1 {
		t.Errorf("deletes = %d, want 1", store.deletes)
	}
	if store.Exists() {
		t.Error("snapshot still present after Reset")
	}
}

func TestProvider_NonNumericDefaultStillPersists(t *testing.T) {
	// Some backends report textual defaults for numeric options. The
	// resulting NaN must not abort retrieval at the save step.
	listing := "All options specific to device `test:0':\n" +
		"    --resolution 75..1200dpi [auto]\n"
	runner := &fakeRunner{listing: listing}
	store := &memStore{}
	provider := NewProvider(runner, store, "2.27.0")

	dev, err := provider.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if store.saves != 1 {
		t.Errorf("store saves = %d, want 1", store.saves)
	}

	// The cached snapshot must read back with the NaN default intact.
	cached, err := provider.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() from cache error = %v", err)
	}
	if runner.calls != 1 {
		t.Errorf("runner calls = %d, want 1", runner.calls)
	}
	feature := cached.Features["--resolution"]
	if feature == nil {
		t.Fatal("--resolution missing from cached device")
	}
	if !math.IsNaN(feature.Value) {
		t.Errorf("Value = %v, want NaN", feature.Value)
	}
	if got, want := len(dev.Features["--resolution"].Values), 5; got != want {
		t.Errorf("got %d resolution values, want %d", got, want)
	}
}

func TestProvider_OnRefreshCallback(t *testing.T) {
	runner := &fakeRunner{listing: testListing}
	store := &memStore{}
	provider := NewProvider(runner, store, "2.27.0")

	var sources []string
	provider.SetOnRefresh(func(dev *Device, source string, _ time.Duration) {
		if dev == nil {
			t.Error("callback received nil device")
		}
		sources = append(sources, source)
	})

	if _, err := provider.Get(context.Background()); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if _, err := provider.Get(context.Background()); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	want := []string{SourceScan, SourceCache}
	if len(sources) != len(want) {
		t.Fatalf("sources = %v, want %v", sources, want)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Errorf("sources[%d] = %q, want %q", i, sources[i], want[i])
		}
	}
}
