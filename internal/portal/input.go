package portal

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// prompt prints label and reads one trimmed line. A final line without a
// newline is still returned.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a secret without echo when a terminal reader is
// configured.
func (a *App) promptPassword(label string) (string, error) {
	if a.readPassword == nil {
		return a.prompt(label)
	}
	fmt.Fprintf(a.out, "%s: ", label)
	pw, err := a.readPassword()
	fmt.Fprintln(a.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
