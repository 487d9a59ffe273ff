package webconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	r := New("/v1/")
	cur := r.Current()

	assert.Equal(t, "/v1/", cur[KeyWebAPI])
	assert.Equal(t, map[string]any{}, cur[KeyWebAPIMap])
	assert.Len(t, cur, 2)
}

// TestConfigure_LastWriteWins merges twice with overlapping keys: the
// later value wins per key and untouched keys keep their prior values.
func TestConfigure_LastWriteWins(t *testing.T) {
	r := New("/v1/")

	r.Configure(Options{KeyWebAPI: "/v2/", "theme": "dark"})
	r.Configure(Options{"theme": "light", "locale": "zh-CN"})

	cur := r.Current()
	assert.Equal(t, "/v2/", cur[KeyWebAPI], "first call's value survives the second call")
	assert.Equal(t, "light", cur["theme"], "second call wins on overlap")
	assert.Equal(t, "zh-CN", cur["locale"])
	assert.Equal(t, map[string]any{}, cur[KeyWebAPIMap], "untouched default survives")
}

// TestConfigure_Shallow verifies nested values are replaced, not merged.
func TestConfigure_Shallow(t *testing.T) {
	r := New(nil)
	r.Configure(Options{KeyWebAPIMap: map[string]any{"user": "/api/user"}})
	r.Configure(Options{KeyWebAPIMap: map[string]any{"order": "/api/order"}})

	assert.Equal(t, map[string]any{"order": "/api/order"}, r.Current()[KeyWebAPIMap])
}

func TestConfigure_NilIsNoop(t *testing.T) {
	r := New("/v1/")
	r.Configure(nil)
	r.Configure(Options{})
	assert.Len(t, r.Current(), 2)
}

// TestCurrent_ByReference verifies Current exposes the live mapping.
func TestCurrent_ByReference(t *testing.T) {
	r := New("/v1/")
	live := r.Current()

	r.Configure(Options{"debug": true})
	assert.Equal(t, true, live["debug"])
}

// TestRegistries_Independent verifies two registries share no state.
func TestRegistries_Independent(t *testing.T) {
	a := New("/a/")
	b := New("/b/")
	a.Configure(Options{"x": 1})

	assert.NotContains(t, b.Current(), "x")
	assert.Equal(t, "/b/", b.Current()[KeyWebAPI])
}

func TestParseAssignments(t *testing.T) {
	opts, err := ParseAssignments([]string{"webapi=/v3/", "title=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, Options{"webapi": "/v3/", "title": "a=b", "empty": ""}, opts)

	_, err = ParseAssignments([]string{"novalue"})
	assert.Error(t, err)

	_, err = ParseAssignments([]string{"=x"})
	assert.Error(t, err)
}
