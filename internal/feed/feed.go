package feed

import (
	"bufio"
	"encoding/json"
	"io"
	"time"

	"github.com/veloroad/ridediag/internal/diag"
	"github.com/veloroad/ridediag/internal/errors"
)

// Message types accepted on the wire.
const (
	TypeHealth       = "health"
	TypePermissions  = "permissions"
	TypeCapabilities = "capabilities"
	TypeSample       = "sample"
	TypeSessionStart = "session_start"
	TypeSessionStop  = "session_stop"
	TypeSessionReset = "session_reset"
)

// Sample is a raw per-sample liveness notification.
type Sample struct {
	Sensor diag.SensorKind `json:"sensor"`
	At     time.Time       `json:"at"`
}

// Message is the newline-delimited JSON envelope the acquisition
// pipeline writes on the feed stream. Exactly one payload field is
// expected to match Type.
type Message struct {
	Type         string             `json:"type"`
	At           time.Time          `json:"at,omitempty"`
	Health       *diag.HealthReport `json:"health,omitempty"`
	Permissions  *diag.Permissions  `json:"permissions,omitempty"`
	Capabilities *diag.Capabilities `json:"capabilities,omitempty"`
	Sample       *Sample            `json:"sample,omitempty"`
}

// maxLineBytes bounds a single feed line; health reports are small.
const maxLineBytes = 64 * 1024

// Reader decodes feed messages from a stream.
type Reader struct {
	scanner *bufio.Scanner
}

func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	return &Reader{scanner: scanner}
}

// Next returns the next message on the stream, io.EOF when the stream
// ends, or a coded error for an undecodable line.
func (r *Reader) Next() (*Message, error) {
	for r.scanner.Scan() {
		line := r.scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		msg := &Message{}
		if err := json.Unmarshal(line, msg); err != nil {
			return nil, errors.New().Wrap(errors.ErrFeedRead, err)
		}
		return msg, nil
	}

	if err := r.scanner.Err(); err != nil {
		return nil, errors.New().Wrap(errors.ErrFeedRead, err)
	}
	return nil, io.EOF
}

// Apply dispatches a message to the manager. It reports whether the
// message triggered an evaluation, and if so returns the fresh
// snapshot. Messages without their matching payload are ignored.
func Apply(mgr *diag.Manager, msg *Message, now time.Time) (diag.Snapshot, bool) {
	if !msg.At.IsZero() {
		now = msg.At
	}

	switch msg.Type {
	case TypeHealth:
		if msg.Health == nil {
			return diag.Snapshot{}, false
		}
		report := *msg.Health
		if report.At.IsZero() {
			report.At = now
		}
		return mgr.UpdateHealth(report, now), true
	case TypePermissions:
		if msg.Permissions != nil {
			mgr.UpdatePermissions(*msg.Permissions)
		}
	case TypeCapabilities:
		if msg.Capabilities != nil {
			mgr.UpdateCapabilities(*msg.Capabilities)
		}
	case TypeSample:
		if msg.Sample != nil {
			at := msg.Sample.At
			if at.IsZero() {
				at = now
			}
			mgr.RecordSample(msg.Sample.Sensor, at)
		}
	case TypeSessionStart:
		return mgr.StartSession(now), true
	case TypeSessionStop:
		return mgr.StopSession(now), true
	case TypeSessionReset:
		return mgr.ResetAll(now), true
	}

	return diag.Snapshot{}, false
}
