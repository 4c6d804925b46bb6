package cli

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// linerConfirm asks question on the terminal. Without a terminal the answer
// is no.
func linerConfirm(cmd *cobra.Command, question string) (bool, error) {
	if !stdinIsTerminal() {
		return false, nil
	}
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	ans, err := line.Prompt(question + " [y/N] ")
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(ans)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
