package assets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ID is an identifier the backend may encode as a JSON number or a string.
type ID string

func (i *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*i = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*i = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*i = ID(n.String())
	return nil
}

func (i ID) String() string { return string(i) }

// Text is a free-form attribute that arrives either as a string or as a list of
// strings. Lists are joined with ", ".
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	list, err := decodeStrings(data)
	if err != nil {
		return err
	}
	*t = Text(strings.Join(list, ", "))
	return nil
}

func (t Text) String() string { return string(t) }

// StringList is a list of strings that tolerates a single bare string.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	list, err := decodeStrings(data)
	if err != nil {
		return err
	}
	if list == nil {
		list = []string{}
	}
	*l = list
	return nil
}

func decodeStrings(data []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, err
		}
		if s == "" {
			return nil, nil
		}
		return []string{s}, nil
	case '[':
		var raw []any
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, err
		}
		out := make([]string, 0, len(raw))
		for _, v := range raw {
			if v == nil {
				continue
			}
			out = append(out, fmt.Sprint(v))
		}
		return out, nil
	default:
		var v any
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return nil, err
		}
		if _, isObject := v.(map[string]any); isObject {
			return nil, fmt.Errorf("expected string or list, got object")
		}
		return []string{fmt.Sprint(v)}, nil
	}
}
