package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func scan(s string) *bufio.Scanner {
	return bufio.NewScanner(strings.NewReader(s))
}

func TestGetSecret(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return []byte(" c2VjcmV0\n"), nil }

	var out bytes.Buffer
	got, err := GetSecret(&out)
	require.NoError(t, err)
	require.Equal(t, "c2VjcmV0", got)
}

func TestGetSecret_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	_, err := GetSecret(&out)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestGetMultiline(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "dot ends input",
			input:    "# Title\n\nbody\n.\nignored\n",
			expected: "# Title\n\nbody",
		},
		{
			name:     "Windows CRLF",
			input:    "a\r\nb\r\n.\r\n",
			expected: "a\nb",
		},
		{
			name:     "EOF without terminator",
			input:    "a\nb",
			expected: "a\nb",
		},
		{
			name:     "immediate terminator gives empty text",
			input:    ".\n",
			expected: "",
		},
		{
			name:     "indentation is kept",
			input:    "  - item\n.\n",
			expected: "  - item",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := GetMultiline(scan(tc.input), "Enter text", &out)
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}
