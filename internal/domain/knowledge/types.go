package knowledge

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strings"
)

// ErrNoMatch is returned by Match when no entry keyword occurs in the message.
var ErrNoMatch = errors.New("no knowledge entry matched")

// Entry is a single static knowledge record.
type Entry struct {
	ID       string
	Keywords []string
	Formula  string
	// Attributes holds every other field of the record verbatim.
	Attributes map[string]json.RawMessage
}

// HasFormula reports whether the entry carries a non-blank formula.
func (e Entry) HasFormula() bool {
	return strings.TrimSpace(e.Formula) != ""
}

// UnmarshalJSON splits the known fields from the free-form attributes.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var out Entry
	if raw, ok := fields["keywords"]; ok {
		if err := json.Unmarshal(raw, &out.Keywords); err != nil {
			return err
		}
		delete(fields, "keywords")
	}
	if raw, ok := fields["formula"]; ok {
		var formula *string
		if err := json.Unmarshal(raw, &formula); err != nil {
			return err
		}
		if formula != nil {
			out.Formula = *formula
		}
		delete(fields, "formula")
	}
	if len(fields) > 0 {
		out.Attributes = fields
	}
	out.ID = e.ID
	*e = out
	return nil
}

// MarshalJSON renders the entry the way it appears in the knowledge file.
func (e Entry) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(e.Attributes))
	for k := range e.Attributes {
		if k == "keywords" || k == "formula" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	keywords := e.Keywords
	if keywords == nil {
		keywords = []string{}
	}

	var buf bytes.Buffer
	buf.WriteString(`{"keywords":`)
	raw, err := json.Marshal(keywords)
	if err != nil {
		return nil, err
	}
	buf.Write(raw)
	if e.HasFormula() {
		buf.WriteString(`,"formula":`)
		raw, err = json.Marshal(e.Formula)
		if err != nil {
			return nil, err
		}
		buf.Write(raw)
	}
	for _, k := range keys {
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(e.Attributes[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Matches is the ordered subset of entries that matched a message.
type Matches []Entry

// FirstWithFormula returns the first matched entry that carries a formula.
func (m Matches) FirstWithFormula() (Entry, bool) {
	for _, e := range m {
		if e.HasFormula() {
			return e, true
		}
	}
	return Entry{}, false
}

// IDs lists the matched entry identifiers in order.
func (m Matches) IDs() []string {
	ids := make([]string, len(m))
	for i, e := range m {
		ids[i] = e.ID
	}
	return ids
}

// ContextJSON renders the matches as a JSON object keyed by entry ID,
// preserving match order.
func (m Matches) ContextJSON() (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		id, err := json.Marshal(e.ID)
		if err != nil {
			return "", err
		}
		body, err := json.Marshal(e)
		if err != nil {
			return "", err
		}
		buf.Write(id)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.String(), nil
}
