package engine

// Decoder turns raw engine output into protocol events. Lines that are not
// events are handed to the diagnostic callback and otherwise ignored.
type Decoder struct {
	buf          LineBuffer
	onDiagnostic func(line string)
}

// NewDecoder creates a decoder; onDiagnostic may be nil
func NewDecoder(onDiagnostic func(line string)) *Decoder {
	return &Decoder{onDiagnostic: onDiagnostic}
}

// Write consumes a chunk and returns the events it completed, in order
func (d *Decoder) Write(chunk []byte) []Event {
	return d.parse(d.buf.Feed(chunk))
}

// Close parses the unterminated trailing fragment, if any
func (d *Decoder) Close() []Event {
	rest := d.buf.Flush()
	if rest == "" {
		return nil
	}
	return d.parse([]string{rest})
}

func (d *Decoder) parse(lines []string) []Event {
	var events []Event
	for _, line := range lines {
		ev, ok := ParseEvent(line)
		if !ok {
			if d.onDiagnostic != nil && line != "" {
				d.onDiagnostic(line)
			}
			continue
		}
		events = append(events, ev)
	}
	return events
}
