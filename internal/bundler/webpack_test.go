package bundler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/mk-command/internal/proc"
)

// cannedRunner returns a fixed stdout and error from Output.
type cannedRunner struct {
	out   string
	err   error
	calls []proc.Command
}

func (c *cannedRunner) Run(ctx context.Context, cmd proc.Command) error {
	c.calls = append(c.calls, cmd)
	return c.err
}

func (c *cannedRunner) Output(ctx context.Context, cmd proc.Command) (string, error) {
	c.calls = append(c.calls, cmd)
	return c.out, c.err
}

func exitErr(code int) error {
	return &proc.ExitError{Command: proc.Command{Name: "node"}, Code: code}
}

func TestWebpack_Success(t *testing.T) {
	r := &cannedRunner{out: `{"errors":[],"warnings":["big bundle"]}`}
	w := NewWebpack(r, "node", []string{"webpack.js", "--json"}, "/app", []string{"NODE_ENV=production"})

	res, err := w.Compile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"big bundle"}, res.Warnings)

	require.Len(t, r.calls, 1)
	assert.Equal(t, "node", r.calls[0].Name)
	assert.Equal(t, "/app", r.calls[0].Dir)
	assert.Equal(t, []string{"NODE_ENV=production"}, r.calls[0].Env)
}

// TestWebpack_OnlyFirstError verifies that two or more compilation errors
// are truncated to the first message.
func TestWebpack_OnlyFirstError(t *testing.T) {
	r := &cannedRunner{out: `{"errors":["first failure","second failure"]}`, err: exitErr(1)}
	w := NewWebpack(r, "node", nil, "", nil)

	_, err := w.Compile(context.Background())
	require.Error(t, err)
	assert.True(t, IsCompileError(err))

	var ce *CompileError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "first failure", ce.Message)
	assert.Equal(t, 2, ce.Total)
	assert.NotContains(t, err.Error(), "second failure")
}

func TestWebpack_CompilerLevelFailures(t *testing.T) {
	tests := []struct {
		name string
		out  string
		err  error
	}{
		{"binary missing", "", errors.New("failed to start node: executable file not found")},
		{"crash without stats", "", exitErr(2)},
		{"success without stats", "done", nil},
		{"non-zero exit with clean stats", `{"errors":[]}`, exitErr(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWebpack(&cannedRunner{out: tt.out, err: tt.err}, "node", nil, "", nil)
			_, err := w.Compile(context.Background())
			require.Error(t, err)
			assert.False(t, IsCompileError(err))
		})
	}
}
