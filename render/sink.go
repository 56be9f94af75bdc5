// Package render provides the render-result cache: it wraps an
// expensive, side-effecting render step so it can be replaced
// transparently by a previously stored artifact, including the case
// where rendering writes incrementally to a streaming destination.
package render

import (
	"io"
	"strings"
)

// Sink is the destination for produced text. Captured returns the full
// text written so far regardless of the sink shape, which is what the
// cache stores.
type Sink interface {
	io.StringWriter

	// Captured returns everything written to the sink so far.
	Captured() string
}

// BufferSink is a plain accumulating buffer.
type BufferSink struct {
	buf strings.Builder
}

// NewBufferSink returns an empty buffer sink.
func NewBufferSink() *BufferSink { return &BufferSink{} }

// WriteString appends s to the buffer. It never fails.
func (b *BufferSink) WriteString(s string) (int, error) {
	return b.buf.WriteString(s)
}

// Captured returns the accumulated output.
func (b *BufferSink) Captured() string { return b.buf.String() }

// StreamSink forwards writes to an externally supplied streaming
// destination while mirroring them into a side buffer. The destination
// may not be retrievable after rendering completes, so the mirror is
// what makes the output cache-able: it always equals the concatenation,
// in call order, of every fragment written.
type StreamSink struct {
	dst    io.StringWriter
	mirror strings.Builder
}

// NewStreamSink wraps a streaming destination with a mirror buffer.
func NewStreamSink(dst io.StringWriter) *StreamSink {
	return &StreamSink{dst: dst}
}

// WriteString appends s to the destination and to the mirror.
func (s *StreamSink) WriteString(str string) (int, error) {
	s.mirror.WriteString(str)
	return s.dst.WriteString(str)
}

// Captured returns the mirror buffer's contents.
func (s *StreamSink) Captured() string { return s.mirror.String() }
