package console

import "strings"

// doneSentinel is the literal end-of-stream payload. It is consumed by the
// decoder and never surfaced as an event.
const doneSentinel = "[DONE]"

// frameDecoder reassembles wire frames from an arbitrarily chunked byte
// stream. Frames are blank-line delimited, with payload lines carrying a
// "data:" marker. A partial trailing frame is carried over between chunks
// and discarded if the stream ends before it completes.
type frameDecoder struct {
	carry      string
	terminated bool
}

// Feed consumes one chunk and returns the payloads of every frame completed
// by it. Chunks fed after the sentinel has been seen are ignored.
func (d *frameDecoder) Feed(chunk []byte) []string {
	if d.terminated {
		return nil
	}

	buf := d.carry + string(chunk)
	parts := strings.Split(buf, "\n\n")
	d.carry = parts[len(parts)-1]

	var payloads []string
	for _, frame := range parts[:len(parts)-1] {
		payload, ok := framePayload(frame)
		if !ok {
			continue
		}
		if payload == doneSentinel {
			d.terminated = true
			d.carry = ""
			break
		}
		payloads = append(payloads, payload)
	}
	return payloads
}

// Terminated reports whether the sentinel has been observed.
func (d *frameDecoder) Terminated() bool {
	return d.terminated
}

// Close marks the end of the stream. An incomplete carried-over fragment is
// not a valid frame and is dropped.
func (d *frameDecoder) Close() {
	d.carry = ""
	d.terminated = true
}

// framePayload extracts the data payload from one raw frame. Frames without
// a data line (comments, bare event names) carry no payload.
func framePayload(frame string) (string, bool) {
	var lines []string
	for _, line := range strings.Split(frame, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.HasPrefix(line, "data: ") {
			lines = append(lines, strings.TrimPrefix(line, "data: "))
		} else if strings.HasPrefix(line, "data:") {
			lines = append(lines, strings.TrimPrefix(line, "data:"))
		}
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}
