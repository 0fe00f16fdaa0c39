// Package snake holds the interactive prompts used by the CLI.
package snake

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"tableflip.dev/livedex/pkg/dex"
)

// Confirm asks a yes/no question on in/out. An empty answer is no.
func Confirm(in io.Reader, out io.Writer, label string) (bool, error) {
	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} [y/N] ",
		Valid:   "{{ . | yellow }} [y/N] ",
		Invalid: "{{ . | red }} [y/N] ",
		Success: "{{ . | bold }} ",
	}
	prompt := promptui.Prompt{
		Label:     label,
		Templates: templates,
		Validate: func(input string) error {
			if input == "" {
				return nil
			}
			_, err := ParseBool(input)
			return err
		},
		Stdin:  io.NopCloser(in),
		Stdout: NopCloser(out),
	}
	result, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return false, nil
		}
		return false, err
	}
	if result == "" {
		return false, nil
	}
	return ParseBool(result)
}

// SelectGame lets the user pick a game from the catalog and returns its id.
func SelectGame(in io.Reader, out io.Writer, c *dex.Catalog) (string, error) {
	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}?",
		Active:   "➜  {{ .ID | bold }} {{ .Title | green }}",
		Inactive: "   {{ .ID }} {{ .Title | cyan }}",
		Selected: "{{ .Title | bold }}",
	}
	searcher := func(input string, index int) bool {
		g := c.Games[index]
		name := strings.ToLower(g.ID + g.Title)
		return strings.Contains(name, strings.ToLower(strings.TrimSpace(input)))
	}
	prompt := promptui.Select{
		HideHelp:  true,
		Label:     "Game",
		Items:     c.Games,
		Templates: templates,
		Size:      10,
		Searcher:  searcher,
		Stdin:     io.NopCloser(in),
		Stdout:    NopCloser(out),
	}
	i, _, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("select game: %w", err)
	}
	return c.Games[i].ID, nil
}

// ParseBool is strconv.ParseBool with the addition of Yes/No parsing.
func ParseBool(str string) (bool, error) {
	switch strings.TrimSpace(str) {
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "YES", "Yes":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "no", "NO", "No":
		return false, nil
	}
	return false, &strconv.NumError{Func: "ParseBool", Num: str, Err: strconv.ErrSyntax}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// NopCloser returns a WriteCloser with a no-op Close method wrapping w.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}
