package assets

import (
	"bytes"
	"encoding/json"
)

// Shape names the encoding a recommendations payload arrived in.
type Shape int

const (
	ShapeUnrecognized Shape = iota
	// ShapeString is a JSON document serialized into a string.
	ShapeString
	// ShapeList is a bare array of recommendations.
	ShapeList
	// ShapeWrapped is an object holding the array under "recommendations".
	ShapeWrapped
)

func (s Shape) String() string {
	switch s {
	case ShapeString:
		return "string"
	case ShapeList:
		return "list"
	case ShapeWrapped:
		return "wrapped"
	default:
		return "unrecognized"
	}
}

// RecommendationsPayload is the decoded form of a recommendations value.
// Items is never nil; an unrecognized payload yields an empty list.
type RecommendationsPayload struct {
	Shape Shape
	Items []InventoryRecommendation
	// Raw keeps the undecodable input for logging when Shape is ShapeUnrecognized.
	Raw json.RawMessage
}

// maxUnwrapDepth bounds string-in-object-in-string nesting.
const maxUnwrapDepth = 4

// DecodeRecommendations normalizes a recommendations value. The same logical
// list encoded as a string, an array or a wrapping object decodes to the same
// Items. It never returns an error.
func DecodeRecommendations(raw json.RawMessage) RecommendationsPayload {
	shape, items, ok := decodeRecommendations(raw, 0)
	if !ok {
		return RecommendationsPayload{Shape: ShapeUnrecognized, Items: []InventoryRecommendation{}, Raw: raw}
	}
	return RecommendationsPayload{Shape: shape, Items: items}
}

// DecodeStoredRecommendations decodes a backend response that carries its
// recommendations under a top-level "recommendations" key. The reported Shape
// is that of the inner value; a response without the key is decoded as is.
func DecodeStoredRecommendations(raw json.RawMessage) RecommendationsPayload {
	var envelope struct {
		Recommendations json.RawMessage `json:"recommendations"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Recommendations) > 0 {
		return DecodeRecommendations(envelope.Recommendations)
	}
	return DecodeRecommendations(raw)
}

func decodeRecommendations(raw json.RawMessage, depth int) (Shape, []InventoryRecommendation, bool) {
	trimmed := bytes.TrimSpace(raw)
	if depth > maxUnwrapDepth || len(trimmed) == 0 {
		return ShapeUnrecognized, nil, false
	}

	switch trimmed[0] {
	case '"':
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return ShapeUnrecognized, nil, false
		}
		if _, items, ok := decodeRecommendations(json.RawMessage(inner), depth+1); ok {
			return ShapeString, items, true
		}
	case '[':
		var items []InventoryRecommendation
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return ShapeUnrecognized, nil, false
		}
		if items == nil {
			items = []InventoryRecommendation{}
		}
		return ShapeList, items, true
	case '{':
		var wrapper struct {
			Recommendations json.RawMessage `json:"recommendations"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil || len(wrapper.Recommendations) == 0 {
			return ShapeUnrecognized, nil, false
		}
		if _, items, ok := decodeRecommendations(wrapper.Recommendations, depth+1); ok {
			return ShapeWrapped, items, true
		}
	}
	return ShapeUnrecognized, nil, false
}
