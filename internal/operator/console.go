package operator

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

// Console is the real terminal implementation of Port, built on
// chzyer/readline for line editing and fatih/color for the same
// highlight-by-role convention the pack's other interactive tool uses:
// cyan prompts, yellow notices, red errors.
type Console struct {
	rl *readline.Instance

	cyan   func(a ...interface{}) string
	yellow func(a ...interface{}) string
	red    func(a ...interface{}) string
}

// NewConsole builds a Console reading from the process's controlling
// terminal. Callers must call Close when the interactive session ends.
func NewConsole() (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "",
		InterruptPrompt:   "^C",
		EOFPrompt:         "done",
		HistoryLimit:      -1,
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, fmt.Errorf("operator: init console: %w", err)
	}

	return &Console{
		rl:     rl,
		cyan:   color.New(color.FgCyan).SprintFunc(),
		yellow: color.New(color.FgYellow).SprintFunc(),
		red:    color.New(color.FgRed).SprintFunc(),
	}, nil
}

// Close releases the underlying terminal handle.
func (c *Console) Close() error {
	return c.rl.Close()
}

func (c *Console) Prompt(line string) {
	fmt.Fprintf(c.rl.Stdout(), "%s ", c.cyan(line))
}

func (c *Console) PromptYesNo(question string, def bool) bool {
	suffix := "y/N"
	if def {
		suffix = "Y/n"
	}
	c.Prompt(fmt.Sprintf("%s [%s]:", question, suffix))

	line, ok := c.ReadLine()
	if !ok || strings.TrimSpace(line) == "" {
		return def
	}
	first := strings.ToLower(strings.TrimSpace(line))[0]
	return first == 'y'
}

func (c *Console) ReadLine() (string, bool) {
	line, err := c.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", true
		}
		if err == io.EOF {
			return "", false
		}
		return "", false
	}
	return line, true
}

func (c *Console) Emit(line string) {
	fmt.Fprintln(c.rl.Stdout(), line)
}

func (c *Console) EmitError(line string) {
	fmt.Fprintln(c.rl.Stderr(), c.red(line))
}

// Noticef is a small helper kept for symmetry with the pack's yellow
// "Note:" convention: it writes a highlighted notice to stdout without
// going through EmitError. Nothing in this repository calls it.
func (c *Console) Noticef(format string, args ...interface{}) {
	fmt.Fprintf(c.rl.Stdout(), "%s %s\n", c.yellow("Note:"), fmt.Sprintf(format, args...))
}
