package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/halcyon-tools/jirafetch/internal/core/domain"
)

// Splitter partitions the filtered ticket sequence into fixed-size
// chunks and serializes each chunk as a self-contained document in the
// configured export format. Artifact i is named "<base>-<i>.<ext>".
type Splitter struct {
	format   string
	baseName string
}

// NewSplitter creates a splitter for the given format and artifact base
// name. Format must be one of the domain format constants.
func NewSplitter(format, baseName string) *Splitter {
	return &Splitter{
		format:   format,
		baseName: baseName,
	}
}

// Split partitions tickets into consecutive chunks of at most chunkSize.
// The last chunk may be shorter; an empty input produces zero batches.
// A non-positive chunkSize fails with domain.ErrChunkSize before any
// serialization happens.
func (s *Splitter) Split(tickets []domain.Ticket, chunkSize int) ([]domain.ExportBatch, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrChunkSize, chunkSize)
	}

	batches := make([]domain.ExportBatch, 0, (len(tickets)+chunkSize-1)/chunkSize)
	for start := 0; start < len(tickets); start += chunkSize {
		end := start + chunkSize
		if end > len(tickets) {
			end = len(tickets)
		}
		index := start / chunkSize
		batches = append(batches, domain.ExportBatch{
			Index:   index,
			Name:    s.ArtifactName(index),
			Tickets: tickets[start:end],
		})
	}

	return batches, nil
}

// Encode serializes one batch in the configured export format. Failures
// wrap domain.ErrSerialize; artifacts already written are unaffected.
func (s *Splitter) Encode(batch domain.ExportBatch) ([]byte, error) {
	switch s.format {
	case domain.FormatJSON:
		data, err := json.MarshalIndent(batch.Tickets, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("%w: artifact %s: %w", domain.ErrSerialize, batch.Name, err)
		}
		return append(data, '\n'), nil

	case domain.FormatNDJSON:
		var buf bytes.Buffer
		for _, ticket := range batch.Tickets {
			line, err := json.Marshal(ticket)
			if err != nil {
				return nil, fmt.Errorf("%w: artifact %s: %w", domain.ErrSerialize, batch.Name, err)
			}
			buf.Write(line)
			buf.WriteByte('\n')
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, s.format)
	}
}

// ArtifactName returns the deterministic artifact name for a 0-based
// chunk index.
func (s *Splitter) ArtifactName(index int) string {
	return fmt.Sprintf("%s-%d.%s", s.baseName, index, s.format)
}
