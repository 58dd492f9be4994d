package knowledge

import "strings"

// Base is the read-only knowledge store built once at startup. It is safe
// for concurrent use because nothing mutates it after construction.
type Base struct {
	entries []Entry
	index   map[string]int

	// ids that appeared more than once; the later entry won
	replaced []string
}

// NewBase copies entries keyed by their ID exactly as given. A repeated ID
// replaces the earlier entry but keeps its position, like a JSON object with a
// duplicate key.
func NewBase(entries []Entry) *Base {
	b := &Base{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		e.Keywords = append([]string(nil), e.Keywords...)
		if i, dup := b.index[e.ID]; dup {
			b.entries[i] = e
			b.replaced = append(b.replaced, e.ID)
			continue
		}
		b.index[e.ID] = len(b.entries)
		b.entries = append(b.entries, e)
	}
	return b
}

// Empty returns a base without entries.
func Empty() *Base {
	return &Base{index: map[string]int{}}
}

// Len returns the number of entries.
func (b *Base) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Match returns every entry with at least one keyword contained in the
// message, compared case-insensitively. It returns ErrNoMatch instead of an
// empty result.
func (b *Base) Match(message string) (Matches, error) {
	lowered := strings.ToLower(message)
	var out Matches
	if b != nil {
		for _, e := range b.entries {
			if containsAnyKeyword(lowered, e.Keywords) {
				out = append(out, e)
			}
		}
	}
	if len(out) == 0 {
		return nil, ErrNoMatch
	}
	return out, nil
}

func containsAnyKeyword(lowered string, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
