// Package services implements the export pipeline: the recursive field
// pruner, the page aggregator, the per-field ticket filter, the file
// splitter and the orchestrator that drives them against the tracker.
package services
