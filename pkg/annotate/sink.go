package annotate

import (
	"context"
	"encoding/json"
	"io"
)

// Sink receives the complete annotation set of one pass. Each pass
// replaces the previous one.
type Sink interface {
	Publish(ctx context.Context, anns []Annotation) error
}

// SinkFunc adapts a function to [Sink].
type SinkFunc func(ctx context.Context, anns []Annotation) error

// Publish calls f.
func (f SinkFunc) Publish(ctx context.Context, anns []Annotation) error { return f(ctx, anns) }

// JSONSink writes each pass as an indented JSON array.
type JSONSink struct {
	W io.Writer
}

// Publish encodes anns to the writer.
func (s JSONSink) Publish(_ context.Context, anns []Annotation) error {
	enc := json.NewEncoder(s.W)
	enc.SetIndent("", "  ")
	if anns == nil {
		anns = []Annotation{}
	}
	return enc.Encode(anns)
}
