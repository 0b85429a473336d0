package gateway

import (
	"encoding/json"
	"fmt"
	"sort"
)

type row = map[string]interface{}

// toRow flattens a struct or map into column/value pairs using its json tags.
func toRow(v interface{}) (row, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	var r row
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("row must be an object: %w", err)
	}
	return r, nil
}

// decodeRows converts generic rows into dest, a pointer to a slice.
func decodeRows(rows []row, dest interface{}) error {
	if rows == nil {
		rows = []row{}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode rows: %w", err)
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("decode rows: %w", err)
	}
	return nil
}

func matches(r row, filters []Filter) bool {
	for _, f := range filters {
		v := r[f.Column]
		switch {
		case v == nil && f.Value == nil:
			continue
		case v == nil || f.Value == nil:
			return false
		case fmt.Sprint(v) != fmt.Sprint(f.Value):
			return false
		}
	}
	return true
}

func project(r row, cols []string) row {
	if len(cols) == 0 {
		return copyRow(r)
	}
	out := make(row, len(cols))
	for _, c := range cols {
		out[c] = r[c]
	}
	return out
}

func copyRow(r row) row {
	out := make(row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func sortedKeys(r row) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func decodeJSONRows(raw []byte, dest interface{}) error {
	if len(raw) == 0 {
		raw = []byte("[]")
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode rows: %w", err)
	}
	return nil
}
