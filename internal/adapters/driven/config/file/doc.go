// Package file provides the TOML-backed configuration store for
// jirafetch. The config file holds the tracker endpoint and token, the
// issue query, and the export and exclusion settings.
package file
