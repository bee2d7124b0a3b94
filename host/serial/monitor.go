package serial

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"
)

// Monitor reads debug console lines from r and passes each one, without its
// line ending, to handle. It returns when r is exhausted or ctx is done.
// Read timeouts on the port are not errors.
func Monitor(ctx context.Context, r io.Reader, handle func(line string)) error {
	reader := bufio.NewReader(r)
	var partial strings.Builder

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		chunk, err := reader.ReadString('\n')
		partial.WriteString(chunk)
		if err == nil {
			handle(strings.TrimRight(partial.String(), "\r\n"))
			partial.Reset()
			continue
		}

		switch {
		case errors.Is(err, io.EOF):
			// tarm/serial reports a read timeout as 0, io.EOF
			if _, ok := r.(*NativePort); ok {
				continue
			}
			if partial.Len() > 0 {
				handle(strings.TrimRight(partial.String(), "\r\n"))
			}
			return nil
		case errors.Is(err, os.ErrDeadlineExceeded):
			continue
		default:
			return err
		}
	}
}
