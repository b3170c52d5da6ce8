package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
)

// Time is a backend timestamp. It decodes RFC 3339 values, plain dates and
// null, and encodes RFC 3339 (null when zero).
type Time struct {
	time.Time
}

// At wraps t.
func At(t time.Time) Time { return Time{Time: t} }

// Ptr wraps an optional timestamp.
func Ptr(t *time.Time) *Time {
	if t == nil {
		return nil
	}
	return &Time{Time: *t}
}

// Std unwraps an optional timestamp.
func (t *Time) Std() *time.Time {
	if t == nil || t.IsZero() {
		return nil
	}
	v := t.Time
	return &v
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, ok := domain.ParseDate(s)
	if !ok {
		return fmt.Errorf("unrecognized timestamp %q", s)
	}
	t.Time = parsed
	return nil
}
