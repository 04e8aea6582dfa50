package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// ErrCancelled is returned when the user aborts a prompt (ctrl-c).
var ErrCancelled = errors.New("ui: cancelled by user")

// Gateway abstracts "ask the user". The fallback argument is the safe
// default answer used when no interactive input is available; callers
// pass the non-destructive choice.
type Gateway interface {
	// Confirm asks a yes/no question.
	Confirm(prompt string, fallback bool) (bool, error)

	// Select asks the user to pick one of options. Empty input and
	// headless mode both yield fallback.
	Select(title string, options []string, fallback string) (string, error)
}

// NewGateway picks a backend once at startup: huh forms when stdin is a
// terminal, a plain line-based prompt on the controlling terminal when
// stdin is a pipe but a tty exists, and safe defaults otherwise.
func NewGateway(hm *HeadlessManager, out io.Writer) Gateway {
	if !hm.IsHeadless() {
		return &formGateway{}
	}
	if tty := openControllingTTY(); tty != nil {
		return &ttyGateway{tty: tty}
	}
	return &defaultGateway{out: out}
}

// openControllingTTY opens the controlling terminal device when one is
// attached even though stdin is redirected.
func openControllingTTY() *os.File {
	if runtime.GOOS == "windows" {
		return nil
	}
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil
	}
	if !isatty.IsTerminal(tty.Fd()) {
		_ = tty.Close()
		return nil
	}
	return tty
}

// formGateway prompts through huh forms on the attached terminal.
type formGateway struct{}

func (g *formGateway) Confirm(prompt string, fallback bool) (bool, error) {
	answer := fallback
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(prompt).Value(&answer),
	))
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrCancelled
		}
		return false, fmt.Errorf("confirm prompt: %w", err)
	}
	return answer, nil
}

func (g *formGateway) Select(title string, options []string, fallback string) (string, error) {
	selected := fallback
	opts := make([]huh.Option[string], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, o)
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().Title(title).Options(opts...).Value(&selected),
	))
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("select prompt: %w", err)
	}
	return selected, nil
}

// ttyGateway reads plain-text answers from the controlling terminal
// device. Used when stdin is consumed by a pipe (remote install).
type ttyGateway struct {
	tty *os.File
}

func (g *ttyGateway) Confirm(prompt string, fallback bool) (bool, error) {
	hint := "y/N"
	if fallback {
		hint = "Y/n"
	}
	_, _ = fmt.Fprintf(g.tty, "%s [%s] ", prompt, hint)

	line, err := bufio.NewReader(g.tty).ReadString('\n')
	if err != nil && line == "" {
		return fallback, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return fallback, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (g *ttyGateway) Select(title string, options []string, fallback string) (string, error) {
	_, _ = fmt.Fprintf(g.tty, "%s (%s) [%s]: ", title, strings.Join(options, "/"), fallback)

	line, err := bufio.NewReader(g.tty).ReadString('\n')
	if err != nil && line == "" {
		return fallback, nil
	}
	answer := strings.TrimSpace(line)
	if answer == "" {
		return fallback, nil
	}
	for _, o := range options {
		if strings.EqualFold(o, answer) {
			return o, nil
		}
	}
	return fallback, nil
}

// defaultGateway answers every prompt with the caller-provided safe
// default and notes the substitution for the log.
type defaultGateway struct {
	out io.Writer
}

func (g *defaultGateway) Confirm(prompt string, fallback bool) (bool, error) {
	answer := "no"
	if fallback {
		answer = "yes"
	}
	_, _ = fmt.Fprintf(g.out, "%s -> %s (no terminal attached)\n", prompt, answer)
	return fallback, nil
}

func (g *defaultGateway) Select(title string, options []string, fallback string) (string, error) {
	_, _ = fmt.Fprintf(g.out, "%s -> %s (no terminal attached)\n", title, fallback)
	return fallback, nil
}
