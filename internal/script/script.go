// Package script reads newline separated command files for batch replay.
package script

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/finnychat/internal/encoding"
)

// maxLine bounds one command; longer lines are an error rather than a silent cut.
const maxLine = 64 * 1024

type Command struct {
	Line int
	Text string
}

// Parse returns the commands in r in order. Blank lines and lines starting
// with '#' are skipped. Input in any common encoding is decoded to UTF-8.
func Parse(r io.Reader) ([]Command, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting encoding: %w", err)
	}

	sc := bufio.NewScanner(utf8r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)

	var (
		cmds []Command
		line int
	)

	for sc.Scan() {
		line++

		text := strings.TrimSpace(strings.TrimSuffix(sc.Text(), "\r"))
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		cmds = append(cmds, Command{Line: line, Text: text})
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading line %d: %w", line+1, err)
	}

	return cmds, nil
}
