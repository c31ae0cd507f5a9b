package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Answer is the classification of one line of user input.
type Answer int

const (
	Reprompt Answer = iota
	Confirmed
	Declined
)

func (a Answer) String() string {
	switch a {
	case Confirmed:
		return "confirmed"
	case Declined:
		return "declined"
	default:
		return "reprompt"
	}
}

const (
	UsageReminder = "Enter y(es) or N(o)"
	ClosePrompt   = "Enter something to close this window"
)

// ErrNoInput is returned when the input ends before a recognised answer.
var ErrNoInput = errors.New("no answer: input closed")

// Classify maps a raw input line to an Answer. Surrounding whitespace is
// ignored and both letter cases are accepted.
func Classify(line string) Answer {
	switch strings.TrimSpace(line) {
	case "y", "Y":
		return Confirmed
	case "n", "N":
		return Declined
	default:
		return Reprompt
	}
}

// Confirmer asks yes/no questions over a line source until it gets a
// recognised answer.
type Confirmer struct {
	in   *bufio.Scanner
	out  io.Writer
	hint func(string) string
}

// NewConfirmer reads answers from in and writes questions to out. hint styles
// the usage reminder and may be nil.
func NewConfirmer(in io.Reader, out io.Writer, hint func(string) string) *Confirmer {
	if hint == nil {
		hint = func(s string) string { return s }
	}
	return &Confirmer{
		in:   bufio.NewScanner(in),
		out:  out,
		hint: hint,
	}
}

// Ask prints question and blocks until the answer is y or n. There is no
// retry limit.
func (c *Confirmer) Ask(question string) (bool, error) {
	for {
		fmt.Fprintln(c.out, question)

		line, err := c.readLine()
		if err != nil {
			return false, err
		}

		switch Classify(line) {
		case Confirmed:
			return true, nil
		case Declined:
			return false, nil
		default:
			fmt.Fprintln(c.out, c.hint(UsageReminder))
		}
	}
}

// Wait blocks until one line (or end of input) is read.
func (c *Confirmer) Wait() {
	fmt.Fprintln(c.out, ClosePrompt)
	_, _ = c.readLine()
}

func (c *Confirmer) readLine() (string, error) {
	if c.in.Scan() {
		return c.in.Text(), nil
	}
	if err := c.in.Err(); err != nil {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return "", ErrNoInput
}
