// Package sqlite provides the SQLite-backed run history store. The
// database lives under the jirafetch data directory and is migrated on
// open from embedded SQL files.
package sqlite
