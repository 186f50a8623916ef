// Package console is the interactive terminal surface: it asks the mirror
// question, reads program names, collects judgments and weights, and prints
// rankings.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/okian/resirank/internal/domain/ranking"
	"github.com/okian/resirank/internal/domain/rating"
	"github.com/okian/resirank/internal/domain/types"
)

// WeightsCommand opens the weight editor instead of adding a program.
const WeightsCommand = ":weights"

// CommandKind tells what the user asked for at the program prompt.
type CommandKind int

// Command kinds.
const (
	CommandAdd CommandKind = iota
	CommandWeights
	CommandDone
)

// Command is one answer to the program prompt.
type Command struct {
	Kind CommandKind
	Name string
}

// Console reads answers from in and writes prompts to out.
type Console struct {
	in       *bufio.Scanner
	out      io.Writer
	sentinel string
}

// New creates a console. sentinel ends the entry loop, compared
// case-insensitively.
func New(in io.Reader, out io.Writer, sentinel string) *Console {
	return &Console{in: bufio.NewScanner(in), out: out, sentinel: sentinel}
}

// readLine prints prompt and returns the next line without its newline.
// Returns io.EOF when input is exhausted.
func (c *Console) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.in.Text(), nil
}

// ConfirmMirror asks whether this session updates the global scores.
// Only "yes" or "y" enables it; end of input means no.
func (c *Console) ConfirmMirror(ctx context.Context) (bool, error) {
	line, err := c.readLine(ctx, "Would you like to update the current global scores (yes or no)?: ")
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "yes", "y":
		return true, nil
	}
	return false, nil
}

// Next reads the next command. Blank names are asked again; end of input
// counts as the sentinel.
func (c *Console) Next(ctx context.Context) (Command, error) {
	prompt := fmt.Sprintf("Enter the name of a new program (%q to change weights, or %q if finished adding programs): ", WeightsCommand, c.sentinel)
	for {
		line, err := c.readLine(ctx, prompt)
		if errors.Is(err, io.EOF) {
			return Command{Kind: CommandDone}, nil
		}
		if err != nil {
			return Command{}, err
		}
		name := strings.TrimSpace(strings.ToValidUTF8(line, string(utf8.RuneError)))
		switch {
		case name == "":
			fmt.Fprintln(c.out, "Program name cannot be empty.")
			continue
		case strings.EqualFold(name, c.sentinel):
			return Command{Kind: CommandDone}, nil
		case strings.EqualFold(name, WeightsCommand):
			return Command{Kind: CommandWeights}, nil
		}
		return Command{Kind: CommandAdd, Name: name}, nil
	}
}

// Judge asks which of two programs is better on dim and returns the trimmed
// answer as typed.
func (c *Console) Judge(ctx context.Context, dim rating.Dimension, challenger, incumbent string) (string, error) {
	fmt.Fprintf(c.out, "Which program has better %s? %s or %s\n", dim, challenger, incumbent)
	line, err := c.readLine(ctx, fmt.Sprintf("Enter your choice ('%s' or '%s'): ", challenger, incumbent))
	if err != nil {
		return "", err
	}
	answer := strings.TrimSpace(line)
	if answer != challenger && answer != incumbent {
		fmt.Fprintln(c.out, "Not one of the two programs; skipping this comparison.")
	}
	return answer, nil
}

// AskWeights asks for a new weight on every dimension. A blank answer keeps
// the current value; malformed, negative or non-finite numbers are asked again.
func (c *Console) AskWeights(ctx context.Context, dims rating.Dimensions, current ranking.Weights) (ranking.Weights, error) {
	next := current
	for _, d := range dims {
		cur, _ := current.Get(d)
		for {
			line, err := c.readLine(ctx, fmt.Sprintf("Weight for %s [%g]: ", d, cur))
			if err != nil {
				return current, err
			}
			line = strings.TrimSpace(line)
			if line == "" {
				break
			}
			v, err := strconv.ParseFloat(line, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				fmt.Fprintf(c.out, "%q is not a non-negative number.\n", line)
				continue
			}
			if next, err = next.With(d, v); err != nil {
				return current, err
			}
			break
		}
	}
	return next, nil
}

// PrintRanking writes entries as a numbered list under title.
func (c *Console) PrintRanking(title string, entries []types.Entry) {
	fmt.Fprintf(c.out, "\n%s:\n", title)
	for _, e := range entries {
		fmt.Fprintln(c.out, e.String())
	}
}

// Println writes a line of free text.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}
