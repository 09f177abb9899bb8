// Package report turns a finished trial's outputs into console text: a
// throughput banner computed from the transfer log, and the monitor's
// captured output rendered verbatim.
package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// CountLines counts newline-terminated records in the file at path,
// the way wc -l does: a trailing fragment without a newline does not
// count.
func CountLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening transfer log: %w", err)
	}
	defer f.Close()

	count := 0
	buf := make([]byte, 64*1024)

	for {
		n, err := f.Read(buf)
		count += bytes.Count(buf[:n], []byte{'\n'})
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return 0, fmt.Errorf("reading transfer log: %w", err)
		}
	}
}

// Rate computes whole messages per second: the line count divided by
// the elapsed window, floored. The window spans warmup plus
// measurement, matching the period the transfer log accumulated over.
func Rate(count int, elapsed time.Duration) int {
	return int(float64(count) / elapsed.Seconds())
}

// Summarize prints the throughput banner for the transfer log at path
// over the elapsed window. It must run only after teardown, once the
// log has stopped growing. A missing or unreadable log is an error.
func Summarize(w io.Writer, path string, elapsed time.Duration) error {
	count, err := CountLines(path)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "\n>> %s messages per second <<\n\n", groupDigits(Rate(count, elapsed)))
	return err
}

// Render writes a monitor's captured output for display. The text is
// opaque; it passes through untouched.
func Render(w io.Writer, artifact string) error {
	_, err := fmt.Fprintln(w, artifact)
	return err
}

// groupDigits formats n with comma separators (1234567 -> "1,234,567").
func groupDigits(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return s
	}

	var out []byte
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return string(out)
}
