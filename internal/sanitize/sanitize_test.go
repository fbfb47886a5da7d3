package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "trims whitespace", in: "  hello  ", want: "hello"},
		{name: "strips null bytes", in: "he\x00llo", want: "hello"},
		{name: "both", in: " \x00 a\x00b \x00", want: "ab"},
		{name: "clean input unchanged", in: "hello", want: "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanString(tt.in))
		})
	}
}

func TestCleanWalksContainers(t *testing.T) {
	in := map[string]any{
		"name": "  Alice\x00 ",
		"tags": []any{" a ", "b\x00"},
		"nested": map[string]any{
			"email": " a@b.com ",
		},
		"age":  float64(30),
		"ok":   true,
		"none": nil,
	}

	got := Clean(in)

	want := map[string]any{
		"name": "Alice",
		"tags": []any{"a", "b"},
		"nested": map[string]any{
			"email": "a@b.com",
		},
		"age":  float64(30),
		"ok":   true,
		"none": nil,
	}
	assert.Equal(t, want, got)
}

func TestCleanDepthCap(t *testing.T) {
	// build a tree one level deeper than the cap
	leaf := map[string]any{"value": " deep "}
	tree := any(leaf)
	for i := 0; i < MaxDepth+1; i++ {
		tree = map[string]any{"child": tree}
	}

	got := Clean(tree)

	// maps at depths 0..MaxDepth survive; the sentinel replaces the level below
	cur := got
	for i := 0; i <= MaxDepth; i++ {
		m, ok := cur.(map[string]any)
		require.True(t, ok, "level %d should still be a map", i)
		cur = m["child"]
	}
	assert.Equal(t, DepthSentinel, cur)
}

func TestCleanIdempotent(t *testing.T) {
	in := map[string]any{
		"name": " Bob\x00 ",
		"list": []any{" x ", map[string]any{"k": " v "}},
	}

	once := Clean(in)
	twice := Clean(once)

	assert.Equal(t, once, twice)
}

func TestRedactSensitiveKeys(t *testing.T) {
	in := map[string]any{
		"password":      "hunter2",
		"Authorization": "Bearer abc",
		"api-key":       "k",
		"apiKey":        "k",
		"refresh_token": "r",
		"creditCardNo":  "4111",
		"email":         "a@b.com",
		"nested": map[string]any{
			"accessToken": "t",
			"name":        "Alice",
		},
	}

	got, ok := Redact(in).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, RedactedMarker, got["password"])
	assert.Equal(t, RedactedMarker, got["Authorization"])
	assert.Equal(t, RedactedMarker, got["api-key"])
	assert.Equal(t, RedactedMarker, got["apiKey"])
	assert.Equal(t, RedactedMarker, got["refresh_token"])
	assert.Equal(t, RedactedMarker, got["creditCardNo"])
	assert.Equal(t, "a@b.com", got["email"])

	nested, ok := got["nested"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, RedactedMarker, nested["accessToken"])
	assert.Equal(t, "Alice", nested["name"])
}

func TestRedactDepthCap(t *testing.T) {
	tree := any("leaf")
	for i := 0; i < MaxDepth+2; i++ {
		tree = map[string]any{"child": tree}
	}

	got := Redact(tree)

	cur := got
	for i := 0; i <= MaxDepth; i++ {
		m, ok := cur.(map[string]any)
		require.True(t, ok)
		cur = m["child"]
	}
	assert.Equal(t, DepthSentinel, cur)
}

func TestIsSensitiveKey(t *testing.T) {
	assert.True(t, IsSensitiveKey("password"))
	assert.True(t, IsSensitiveKey("PASSWORD"))
	assert.True(t, IsSensitiveKey("user_password"))
	assert.True(t, IsSensitiveKey("Set-Cookie"))
	assert.True(t, IsSensitiveKey("x-api-key"))
	assert.True(t, IsSensitiveKey("ssn"))
	assert.False(t, IsSensitiveKey("email"))
	assert.False(t, IsSensitiveKey("name"))
}
