package cli

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// readPromptLine reads up to the first newline. A final line without a
// newline is accepted.
func readPromptLine(input io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(input).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
