package source

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrivileged_WritableTargetSkipsElevation(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hosts")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	called := false
	p := Privileged{
		Path:   path,
		Method: ElevateSudo,
		Run: func(context.Context, string, ...string) error {
			called = true
			return nil
		},
	}
	require.NoError(t, p.Write(context.Background(), "new"))
	require.False(t, called)

	got, err := p.Read(context.Background())
	require.NoError(t, err)
	require.Equal(t, "new", got)
	require.Nil(t, p.AuthorizeCommand())
}

func TestPrivileged_CopyCommand(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		p        Privileged
		wantName string
		wantArgs []string
	}{
		{"sudo", Privileged{Path: "/etc/hosts", Method: ElevateSudo}, "sudo", []string{"cp", "/tmp/x", "/etc/hosts"}},
		{"sudo non-interactive", Privileged{Path: "/etc/hosts", Method: ElevateSudo, NonInteractive: true}, "sudo", []string{"-n", "cp", "/tmp/x", "/etc/hosts"}},
		{"pkexec", Privileged{Path: "/etc/hosts", Method: ElevatePkexec}, "pkexec", []string{"cp", "/tmp/x", "/etc/hosts"}},
		{"osascript", Privileged{Path: "/etc/hosts", Method: ElevateOsascript}, "osascript", []string{"-e", `do shell script "cp '/tmp/x' '/etc/hosts'" with administrator privileges`}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			name, args, err := tc.p.copyCommand("/tmp/x")
			require.NoError(t, err)
			require.Equal(t, tc.wantName, name)
			require.Equal(t, tc.wantArgs, args)
		})
	}

	_, _, err := Privileged{Path: "/etc/hosts", Method: "doas"}.copyCommand("/tmp/x")
	require.Error(t, err)
}

func TestShellQuote(t *testing.T) {
	t.Parallel()

	require.Equal(t, `'/a b'`, shellQuote("/a b"))
	require.Equal(t, `'it'\\''s'`, shellQuote("it's"))
	require.True(t, strings.HasPrefix(shellQuote(`x"y`), `'x\"y`))
}

func TestPrivileged_Describe(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/etc/hosts (pkexec)", Privileged{Path: "/etc/hosts", Method: "pkexec"}.Describe())
	require.Contains(t, Privileged{Path: "/etc/hosts"}.Describe(), DefaultElevation())
}

func TestNeedsElevation(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "hosts")
	require.False(t, NeedsElevation(path), "missing file in a writable dir")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	require.False(t, NeedsElevation(path))

	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced")
	}
	ro := filepath.Join(t.TempDir(), "ro")
	require.NoError(t, os.Mkdir(ro, 0o555))
	t.Cleanup(func() { _ = os.Chmod(ro, 0o755) })
	require.True(t, NeedsElevation(filepath.Join(ro, "hosts")))
}
