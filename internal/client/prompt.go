package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompt asks for a single line of input, e.g. a password that was not
// given on the command line. in must be shared between consecutive
// prompts so buffered input is not lost.
func Prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)

	line, err := in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", errors.New("no input")
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
