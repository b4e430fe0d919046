package assets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDAcceptsNumbersAndStrings(t *testing.T) {
	var v struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":42,"b":"abc","c":null}`), &v))
	assert.Equal(t, ID("42"), v.A)
	assert.Equal(t, ID("abc"), v.B)
	assert.Equal(t, ID(""), v.C)

	require.Error(t, json.Unmarshal([]byte(`{"a":{}}`), &v))
}

func TestTextAcceptsStringOrList(t *testing.T) {
	var v struct {
		A Text `json:"a"`
		B Text `json:"b"`
		C Text `json:"c"`
		D Text `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"red","b":["red","gold"],"c":null,"d":3}`), &v))
	assert.Equal(t, Text("red"), v.A)
	assert.Equal(t, Text("red, gold"), v.B)
	assert.Equal(t, Text(""), v.C)
	assert.Equal(t, Text("3"), v.D)

	require.Error(t, json.Unmarshal([]byte(`{"a":{"x":1}}`), &v))
}

func TestStringListAcceptsBareString(t *testing.T) {
	var v struct {
		Items StringList `json:"items"`
		Empty StringList `json:"empty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"items":"diyas","empty":null}`), &v))
	assert.Equal(t, StringList{"diyas"}, v.Items)
	assert.Equal(t, StringList{}, v.Empty)
}
