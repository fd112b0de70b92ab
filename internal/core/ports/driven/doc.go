// Package driven defines the outbound ports: interfaces the core
// services need implemented by adapters (the tracker search API,
// artifact output, configuration and run-history storage).
package driven
