package posts

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
)

const DefaultConfirmToken = "si"

// LineConfirmer reads one line and accepts only the affirmative token,
// ignoring letter case.
type LineConfirmer struct {
	in    *bufio.Reader
	out   io.Writer
	token string
	fold  cases.Caser
}

func NewLineConfirmer(in io.Reader, out io.Writer, token string) *LineConfirmer {
	if strings.TrimSpace(token) == "" {
		token = DefaultConfirmToken
	}
	fold := cases.Fold()
	return &LineConfirmer{
		in:    bufio.NewReader(in),
		out:   out,
		token: fold.String(strings.TrimSpace(token)),
		fold:  fold,
	}
}

func (c *LineConfirmer) Confirm(count int) (bool, error) {
	fmt.Fprintf(c.out, "%d post(s) will have their content replaced by '%s'. This cannot be undone.\n", count, Sentinel)
	fmt.Fprintf(c.out, "Type '%s' to continue: ", c.token)

	line, err := c.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	answer := c.fold.String(strings.TrimRight(line, "\r\n"))
	if answer != c.token {
		fmt.Fprintln(c.out, "Operation cancelled.")
		return false, nil
	}
	return true, nil
}
