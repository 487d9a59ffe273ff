package pkgmgr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/mk-command/internal/model"
	"github.com/shinji-kodama/mk-command/internal/proc"
)

const (
	testRegistry = "http://registry.test:4873"
	testDir      = "/work/app/src"
)

// recordingRunner records commands instead of running them.
type recordingRunner struct {
	calls []proc.Command
	err   error
}

func (r *recordingRunner) Run(ctx context.Context, cmd proc.Command) error {
	r.calls = append(r.calls, cmd)
	return r.err
}

func (r *recordingRunner) Output(ctx context.Context, cmd proc.Command) (string, error) {
	r.calls = append(r.calls, cmd)
	return "", r.err
}

type staticChecker struct {
	online bool
	calls  int
}

func (s *staticChecker) IsOnline(context.Context) bool {
	s.calls++
	return s.online
}

func newTestManager(r proc.Runner, c OnlineChecker) *Manager {
	return NewManager(r, c, "yarnpkg", testRegistry, testDir)
}

// TestRun_Online verifies the fixed flag set for each operation when the
// registry is reachable: registry URL and --cwd, never --offline.
func TestRun_Online(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want []string
	}{
		{
			name: "add",
			req:  Request{Op: model.OpAdd, Package: "login"},
			want: []string{"add", "login", "--registry", testRegistry, "--exact", "--cwd", testDir},
		},
		{
			name: "remove",
			req:  Request{Op: model.OpRemove, Package: "login"},
			want: []string{"remove", "login", "--registry", testRegistry, "--cwd", testDir},
		},
		{
			name: "upgrade",
			req:  Request{Op: model.OpUpgrade},
			want: []string{"upgrade", "--registry", testRegistry, "--cwd", testDir},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &recordingRunner{}
			m := newTestManager(r, &staticChecker{online: true})

			out, err := m.Run(context.Background(), tt.req)
			require.NoError(t, err)
			require.Len(t, r.calls, 1)
			assert.Equal(t, "yarnpkg", r.calls[0].Name)
			assert.Equal(t, tt.want, r.calls[0].Args)
			assert.NotContains(t, r.calls[0].Args, "--offline")
			assert.False(t, out.Offline)
		})
	}
}

// TestRun_Offline pins the asymmetry between add and remove/upgrade when
// the registry is unreachable: remove and upgrade go --offline, add runs
// online regardless and never consults the checker.
func TestRun_Offline(t *testing.T) {
	t.Run("remove goes offline", func(t *testing.T) {
		r := &recordingRunner{}
		c := &staticChecker{online: false}
		m := newTestManager(r, c)
		var warned []model.Operation
		m.OnOffline = func(op model.Operation) { warned = append(warned, op) }

		out, err := m.Run(context.Background(), Request{Op: model.OpRemove, Package: "login"})
		require.NoError(t, err)
		assert.True(t, out.Offline)
		require.Len(t, r.calls, 1, "the package manager still runs offline")
		assert.Equal(t, []string{"remove", "login", "--registry", testRegistry, "--offline", "--cwd", testDir}, r.calls[0].Args)
		assert.Equal(t, []model.Operation{model.OpRemove}, warned)
	})

	t.Run("upgrade goes offline", func(t *testing.T) {
		r := &recordingRunner{}
		m := newTestManager(r, &staticChecker{online: false})

		out, err := m.Run(context.Background(), Request{Op: model.OpUpgrade})
		require.NoError(t, err)
		assert.True(t, out.Offline)
		assert.Equal(t, []string{"upgrade", "--registry", testRegistry, "--offline", "--cwd", testDir}, r.calls[0].Args)
	})

	t.Run("add stays online", func(t *testing.T) {
		r := &recordingRunner{}
		c := &staticChecker{online: false}
		m := newTestManager(r, c)

		out, err := m.Run(context.Background(), Request{Op: model.OpAdd, Package: "login"})
		require.NoError(t, err)
		assert.False(t, out.Offline)
		assert.Equal(t, 0, c.calls, "add does not check reachability")
		assert.NotContains(t, r.calls[0].Args, "--offline")
	})
}

func TestRun_MissingPackage(t *testing.T) {
	for _, op := range []model.Operation{model.OpAdd, model.OpRemove} {
		t.Run(op.String(), func(t *testing.T) {
			r := &recordingRunner{}
			m := newTestManager(r, &staticChecker{online: true})

			_, err := m.Run(context.Background(), Request{Op: op})
			require.Error(t, err)
			var cliErr *model.CLIError
			require.True(t, errors.As(err, &cliErr))
			assert.Equal(t, model.ExitGeneralError, cliErr.Code)
			assert.Empty(t, r.calls, "no subprocess without a package name")
		})
	}
}

func TestRun_InvalidOperation(t *testing.T) {
	r := &recordingRunner{}
	m := newTestManager(r, nil)

	_, err := m.Run(context.Background(), Request{Op: "install", Package: "x"})
	assert.Error(t, err)
	assert.Empty(t, r.calls)
}

// TestRun_ChildExitCode verifies the child's exit status reaches the caller.
func TestRun_ChildExitCode(t *testing.T) {
	exitErr := &proc.ExitError{Command: proc.Command{Name: "yarnpkg"}, Code: 3}
	r := &recordingRunner{err: exitErr}
	m := newTestManager(r, &staticChecker{online: true})

	out, err := m.Run(context.Background(), Request{Op: model.OpAdd, Package: "login"})
	require.Error(t, err)
	code, ok := proc.ExitCodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, 3, code)
	assert.Equal(t, "yarnpkg", out.Command.Name)
}

func TestRun_NilCheckerAssumesOnline(t *testing.T) {
	r := &recordingRunner{}
	m := newTestManager(r, nil)

	out, err := m.Run(context.Background(), Request{Op: model.OpUpgrade})
	require.NoError(t, err)
	assert.False(t, out.Offline)
}
