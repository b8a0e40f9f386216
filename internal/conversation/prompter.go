package conversation

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter reads console replies line by line. Input exhaustion is an
// expected condition, not an error: once the underlying reader runs dry,
// every prompt resolves to its per-prompt default value.
type Prompter struct {
	scanner   *bufio.Scanner
	out       io.Writer
	exhausted bool
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// Prompt writes the prompt text and returns the trimmed reply, or the
// default when input is exhausted.
func (p *Prompter) Prompt(prompt, defaultValue string) string {
	fmt.Fprint(p.out, prompt)

	if p.exhausted || !p.scanner.Scan() {
		p.exhausted = true
		return defaultValue
	}

	return strings.TrimSpace(p.scanner.Text())
}

// Exhausted reports whether the input stream has ended. The loop uses this
// to stop re-prompting states that could otherwise retry forever on a
// default reply that never validates.
func (p *Prompter) Exhausted() bool {
	return p.exhausted
}
