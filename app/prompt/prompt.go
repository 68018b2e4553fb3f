package prompt

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/lysyi3m/post-redactor/app/posts"
)

// Answers holds the values that may be supplied by flags or asked for
// interactively.
type Answers struct {
	Username string
	Password string
	Years    int
}

func (a Answers) missing() []string {
	var names []string
	if strings.TrimSpace(a.Username) == "" {
		names = append(names, "username")
	}
	if a.Password == "" {
		names = append(names, "password")
	}
	if a.Years <= 0 {
		names = append(names, "years")
	}
	return names
}

type Prompter struct {
	interactive bool
	run         func(form *huh.Form) error
}

func NewPrompter() *Prompter {
	return &Prompter{
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
		run:         func(form *huh.Form) error { return form.Run() },
	}
}

// Complete asks for every value left empty in answers. Without a terminal
// on stdin missing values are reported as an error instead.
func (p *Prompter) Complete(answers *Answers) error {
	missing := answers.missing()
	if len(missing) == 0 {
		return nil
	}
	if !p.interactive {
		return fmt.Errorf("missing %s and no terminal to prompt on", strings.Join(missing, ", "))
	}

	var fields []huh.Field
	if strings.TrimSpace(answers.Username) == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(&answers.Username).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("username is required")
				}
				return nil
			}))
	}
	if answers.Password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&answers.Password).
			Validate(func(s string) error {
				if s == "" {
					return fmt.Errorf("password is required")
				}
				return nil
			}))
	}

	var yearsInput string
	if answers.Years <= 0 {
		fields = append(fields, huh.NewInput().
			Title("Years").
			Description("Posts older than this many years will be redacted").
			Placeholder("e.g., 5").
			Value(&yearsInput).
			Validate(ValidateYears))
	}

	if err := p.run(huh.NewForm(huh.NewGroup(fields...))); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("prompt cancelled: %w", posts.ErrAborted)
		}
		return fmt.Errorf("failed to read answers: %w", err)
	}

	answers.Username = strings.TrimSpace(answers.Username)
	if yearsInput != "" {
		years, err := ParseYears(yearsInput)
		if err != nil {
			return err
		}
		answers.Years = years
	}

	if missing := answers.missing(); len(missing) > 0 {
		return fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func ParseYears(s string) (int, error) {
	years, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || years <= 0 {
		return 0, fmt.Errorf("enter a positive whole number of years, got %q", s)
	}
	return years, nil
}

// ValidateYears is the huh validator for the years input.
func ValidateYears(s string) error {
	_, err := ParseYears(s)
	return err
}
