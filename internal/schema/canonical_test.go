package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nanValue() float64 { return math.NaN() }

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int", -100, "-100"},
		{"max uint64", uint64(math.MaxUint64), "18446744073709551615"},
		{"float", 1.5, "1.5"},
		{"float32", float32(0.1), "0.1"},
		{"bool true", true, "true"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"simple object", map[string]any{"a": 1}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	result, err := MarshalCanonical(map[string]any{
		"zebra": 1,
		"alpha": map[string]any{"b": 1, "a": 2},
		"beta":  3,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":{"a":2,"b":1},"beta":3,"zebra":1}`, string(result))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	result, err := MarshalCanonical("<a & b>")
	require.NoError(t, err)
	assert.Equal(t, `"<a & b>"`, string(result))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	decomposed := "e\u0301"
	result, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(result))
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	result, err := MarshalCanonical("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(result))

	// A literal backslash followed by "u2028" stays escaped.
	result, err = MarshalCanonical(`a\u2028b`)
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(result))
}

func TestMarshalCanonicalRejectsNull(t *testing.T) {
	_, err := MarshalCanonical(nil)
	require.Error(t, err)

	_, err = MarshalCanonical(map[string]any{"x": nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null")
}

func TestMarshalCanonicalSchemaTypes(t *testing.T) {
	n := &Node{ID: 2, Role: RoleButton, Attributes: Attributes{AttrName: String("OK")}}
	result, err := MarshalCanonical(n)
	require.NoError(t, err)
	assert.Equal(t, `{"attributes":{"name":"OK"},"id":2,"role":"button","state":{}}`, string(result))
}

func TestDigests(t *testing.T) {
	a := sampleUpdate()
	b := sampleUpdate()

	da, err := UpdateDigest(&a)
	require.NoError(t, err)
	db, err := UpdateDigest(&b)
	require.NoError(t, err)
	assert.Equal(t, da, db)
	assert.Len(t, da, 64)

	b.Nodes[2].Attributes[AttrName] = String("Other")
	db, err = UpdateDigest(&b)
	require.NoError(t, err)
	assert.NotEqual(t, da, db)

	n1 := &a.Nodes[0]
	assert.Equal(t, MustNodeDigest(n1), MustNodeDigest(n1.Clone()))
}

func TestSnapshotDigest_OrderIndependent(t *testing.T) {
	u := sampleUpdate()
	nodes := []*Node{&u.Nodes[0], &u.Nodes[1], &u.Nodes[2]}
	reversed := []*Node{&u.Nodes[2], &u.Nodes[1], &u.Nodes[0]}

	d1, err := SnapshotDigest(1, *u.Tree, nodes)
	require.NoError(t, err)
	d2, err := SnapshotDigest(1, *u.Tree, reversed)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}
