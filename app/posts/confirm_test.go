package posts

import (
	"bytes"
	"strings"
	"testing"
)

func TestLineConfirmer(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		token    string
		expected bool
	}{
		{"exact token", "si\n", "si", true},
		{"surrounding whitespace", "  si  \n", "si", false},
		{"trailing space", "si \n", "si", false},
		{"windows line ending", "si\r\n", "si", true},
		{"different case", "SI\n", "si", true},
		{"no trailing newline", "si", "si", true},
		{"custom token", "yes\n", "yes", true},
		{"default token", "si\n", "", true},
		{"negative", "no\n", "si", false},
		{"prefix only", "s\n", "si", false},
		{"longer answer", "si please\n", "si", false},
		{"empty line", "\n", "si", false},
		{"eof", "", "si", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			confirmer := NewLineConfirmer(strings.NewReader(tt.input), &out, tt.token)

			ok, err := confirmer.Confirm(3)
			if err != nil {
				t.Fatal(err)
			}
			if ok != tt.expected {
				t.Errorf("Expected %v for input %q, got %v", tt.expected, tt.input, ok)
			}
			if !strings.Contains(out.String(), "3 post(s)") {
				t.Errorf("Expected prompt to mention the queue size, got %q", out.String())
			}
		})
	}
}
