package main

import (
	"os"
	"strings"

	"hosts-editor/internal/cli"
)

func isHostsPath(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	// Subcommand names never contain a separator or start with a dot.
	return strings.ContainsAny(s, `/\`) || strings.HasPrefix(s, ".") || strings.HasPrefix(s, "~")
}

func rewriteDirectFileArgs(argv []string) []string {
	// Convenience: `hosts-editor ./hosts` works like `hosts-editor --file ./hosts`.
	//
	// Cobra treats the first non-flag token as a subcommand, so we rewrite argv before parsing.
	// Persistent flags may come first (e.g. `hosts-editor --source privileged /etc/hosts`),
	// so we look for the first positional token, not just argv[1].
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--file":      true,
		"--source":    true,
		"--format":    true,
		"--config":    true,
		"--log-level": true,
		"--namespace": true,
		"--configmap": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
		"--yes":    true,
		"-y":       true,
	}

	rewrite := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "--file")
		out = append(out, argv[i:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isHostsPath(argv[i+1]) {
				out := make([]string, 0, len(argv))
				out = append(out, argv[:i]...)
				out = append(out, "--file")
				out = append(out, argv[i+1:]...)
				return out
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if isHostsPath(a) {
			return rewrite(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectFileArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
