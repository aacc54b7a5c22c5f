package integrity

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// CountLines returns the number of lines of path that are not empty once the
// line ending ("\n" or "\r\n") is stripped. Whitespace-only lines count.
// Lines of any length are accepted.
func CountLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64*1024)

	var (
		n      int
		size   int  // bytes of the current line seen so far
		lastCR bool // the last byte of the current line was '\r'
	)
	endLine := func() {
		if lastCR {
			size--
		}
		if size > 0 {
			n++
		}
		size, lastCR = 0, false
	}

	for {
		chunk, err := r.ReadSlice('\n')
		if len(chunk) > 0 {
			body := chunk
			terminated := body[len(body)-1] == '\n'
			if terminated {
				body = body[:len(body)-1]
			}
			if len(body) > 0 {
				size += len(body)
				lastCR = body[len(body)-1] == '\r'
			}
			if terminated {
				endLine()
			}
		}

		switch {
		case err == nil, errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			endLine()
			return n, nil
		default:
			return 0, fmt.Errorf("failed to count lines of %s: %w", path, err)
		}
	}
}
