package engine

import "strings"

// LineBuffer splits an incrementally arriving byte stream into lines.
//
// Every complete line is returned as soon as its newline arrives; the
// trailing fragment after the last newline is retained until a later chunk
// completes it or Flush is called at end of stream.
type LineBuffer struct {
	pending strings.Builder
}

// Feed appends a chunk and returns the lines it completed, without their
// line terminators
func (b *LineBuffer) Feed(chunk []byte) []string {
	if len(chunk) == 0 {
		return nil
	}
	b.pending.Write(chunk)

	buffered := b.pending.String()
	last := strings.LastIndexByte(buffered, '\n')
	if last < 0 {
		return nil
	}

	lines := strings.Split(buffered[:last], "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	rest := buffered[last+1:]
	b.pending.Reset()
	b.pending.WriteString(rest)
	return lines
}

// Pending returns the retained partial line
func (b *LineBuffer) Pending() string {
	return b.pending.String()
}

// Flush returns the retained fragment and empties the buffer
func (b *LineBuffer) Flush() string {
	rest := strings.TrimSuffix(b.pending.String(), "\r")
	b.pending.Reset()
	return rest
}
