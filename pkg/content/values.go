package content

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// List is an ordered list of short strings such as tech, skills or tags.
// It decodes from a JSON array or from one comma-separated string as typed in the admin form.
type List []string

// SplitList splits comma-separated input into trimmed, non-empty entries.
func SplitList(input string) (list List) {
	list = List{}
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			list = append(list, part)
		}
	}
	return list
}

// Clean trims entries and drops empty ones. A nil list becomes empty.
func (l List) Clean() (cleaned List) {
	cleaned = make(List, 0, len(l))
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return cleaned
}

// MarshalJSON writes nil as an empty array.
func (l List) MarshalJSON() (data []byte, err error) {
	if l == nil {
		data = []byte("[]")
		return data, err
	}
	data, err = json.Marshal([]string(l))
	return data, err
}

// UnmarshalJSON accepts an array of strings or a comma-separated string.
func (l *List) UnmarshalJSON(data []byte) (err error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*l = List{}
		return err
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		err = json.Unmarshal(trimmed, &s)
		if err != nil {
			err = errors.Wrap(err, "failed to decode list string")
			return err
		}
		*l = SplitList(s)
		return err
	}

	var items []string
	err = json.Unmarshal(trimmed, &items)
	if err != nil {
		err = errors.Wrap(err, "list must be an array of strings or a comma-separated string")
		return err
	}
	*l = List(items)

	return err
}

// isoLayout matches JavaScript's Date.toISOString output.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp is an ISO-8601 instant. The zero value is encoded as an empty string.
type Timestamp struct {
	time.Time
}

// At wraps t as a Timestamp, truncated to the millisecond precision it is stored with.
func At(t time.Time) (ts Timestamp) {
	ts = Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
	return ts
}

// MarshalJSON encodes the instant in UTC with millisecond precision.
func (t Timestamp) MarshalJSON() (data []byte, err error) {
	if t.IsZero() {
		data = []byte(`""`)
		return data, err
	}
	data, err = json.Marshal(t.UTC().Format(isoLayout))
	return data, err
}

// UnmarshalJSON accepts RFC 3339 strings, an empty string or null.
func (t *Timestamp) UnmarshalJSON(data []byte) (err error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*t = Timestamp{}
		return err
	}

	var s string
	err = json.Unmarshal(trimmed, &s)
	if err != nil {
		err = errors.Wrap(err, "timestamp must be a string")
		return err
	}

	if s == "" {
		*t = Timestamp{}
		return err
	}

	var parsed time.Time
	parsed, err = time.Parse(time.RFC3339Nano, s)
	if err != nil {
		err = errors.Wrapf(err, "invalid timestamp: %s", s)
		return err
	}
	*t = At(parsed)

	return err
}
