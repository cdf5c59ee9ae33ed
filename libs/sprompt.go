package libs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh/terminal"
)

func GetHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "rwdpool")
	}
	return home
}

// IsTerminal reports whether stdin is a terminal.
func IsTerminal() bool {
	return terminal.IsTerminal(int(os.Stdin.Fd()))
}

// Confirm asks a yes/no question on the terminal.
// It returns false without asking if stdin is not a terminal.
func Confirm(prompt string) bool {
	if !IsTerminal() {
		return false
	}
	return confirmFrom(bufio.NewReader(os.Stdin), prompt)
}

func confirmFrom(r *bufio.Reader, prompt string) bool {
	fmt.Print(prompt + " [y/N]: ")
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
