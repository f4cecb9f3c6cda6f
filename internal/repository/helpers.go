package repository

import "encoding/json"

// marshalStrings encodes a string list for a JSONB column. nil becomes [].
func marshalStrings(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

// unmarshalStrings decodes a JSONB string list. Columns holding anything
// other than an array decode to an empty list.
func unmarshalStrings(data []byte) ([]string, error) {
	if len(data) == 0 {
		return []string{}, nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	items, ok := raw.([]any)
	if !ok {
		return []string{}, nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}
