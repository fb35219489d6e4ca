package types

import (
	"encoding/json"
	"strings"
)

// TagList is an ordered sequence of tags with case-insensitive uniqueness.
//
// The backend is inconsistent about the wire shape: list endpoints return a
// JSON array while the detail endpoint may return a single comma-joined
// string. Both decode into a TagList; it always marshals as an array.
type TagList []string

// UnmarshalJSON accepts either ["a","b"] or "a, b".
func (t *TagList) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*t = arr
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*t = splitTags(joined)
	return nil
}

// Normalize trims whitespace, drops empties and removes case-insensitive
// duplicates while preserving first-seen order.
func (t TagList) Normalize() TagList {
	out := make(TagList, 0, len(t))
	seen := make(map[string]struct{}, len(t))
	for _, tag := range t {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		folded := strings.ToLower(tag)
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func splitTags(joined string) TagList {
	parts := strings.Split(joined, ",")
	out := make(TagList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
