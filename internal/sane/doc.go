// Package sane translates the free-text capability listing produced by
// `scanimage -A` into a typed device capability model.
//
// The listing is not a formal grammar: each option class uses its own
// syntactic convention (pipe-separated enumerations, `low..high` range
// expressions, unit-suffixed numbers, parenthetical step hints), so parsing
// is lenient at the option level. A single malformed option never aborts
// the parse; it produces a feature with unusable numeric fields instead, so
// the rest of the device description stays available.
//
// # Pipeline
//
//	raw listing ──▶ Parse ──▶ Listing ──▶ FromListing ──▶ Device
//	                                        │
//	                                        └─ Normalize (per option key)
//
// A previously cached snapshot re-enters through FromSnapshot (or Build),
// which copies the already-normalized data without re-running the
// dispatcher: cached features no longer carry the parameter text their
// normalization consumed.
//
// # Key Types
//
//   - Listing: device identifier plus raw key/parameters/default entries
//   - Feature: one option after normalization, shape selected by Class
//   - Device: the full capability model, stamped with the app version
//   - Provider: cache-aware retrieval around a CommandRunner and a Store
//
// # Usage
//
//	provider := sane.NewProvider(runner, store, version)
//	provider.SetLogger(log)
//
//	dev, err := provider.Get(ctx)   // cache-aware
//	err = provider.Reset()          // drop the cached snapshot
package sane
