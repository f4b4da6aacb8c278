package cli

import (
	"bufio"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/mattn/go-isatty"
)

// MainLoop reads lines from stdin until EOF. Terminal gets line editing and
// completion, pipe input is executed line by line.
func MainLoop(tag string, execP func(line string), complete func(d prompt.Document) []prompt.Suggest) error {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		prompt.New(execP, complete,
			prompt.OptionPrefix(tag+"> "),
			prompt.OptionTitle(tag),
		).Run()
		// prompt leaves terminal without echo sometimes
		rawModeOff := exec.Command("/bin/stty", "-raw", "echo")
		rawModeOff.Stdin = os.Stdin
		_ = rawModeOff.Run()
		return nil
	}
	return ReadLines(os.Stdin, execP)
}

// ReadLines calls execP for each line with surrounding space trimmed, empty lines included.
func ReadLines(r io.Reader, execP func(line string)) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		execP(strings.TrimSpace(scanner.Text()))
	}
	return scanner.Err()
}

// Completer suggests commands only at line start, text is free form.
func Completer(suggests []prompt.Suggest) func(d prompt.Document) []prompt.Suggest {
	return func(d prompt.Document) []prompt.Suggest {
		before := d.TextBeforeCursor()
		if !strings.HasPrefix(before, ":") || strings.Contains(before, " ") {
			return nil
		}
		return prompt.FilterHasPrefix(suggests, d.GetWordBeforeCursor(), true)
	}
}
