package automount

import (
	"bufio"
	"io"
	"strings"
)

// record is a logical configuration line split into fields.
type record struct {
	line   int // physical line number where the record starts
	text   string
	fields []string
}

// scanRecords splits autofs-style text into records. A '#' starts a comment
// that runs to the end of the line, and a trailing backslash continues the
// record on the next line. Blank records are dropped.
func scanRecords(r io.Reader) ([]record, error) {
	var (
		records []record
		pending strings.Builder
		start   int
		lineNo  int
	)

	flush := func() {
		text := strings.TrimSpace(pending.String())
		pending.Reset()
		if text == "" {
			return
		}
		records = append(records, record{line: start, text: text, fields: strings.Fields(text)})
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if pending.Len() == 0 {
			start = lineNo
		}

		trimmed := strings.TrimRight(line, " \t")
		if strings.HasSuffix(trimmed, "\\") {
			pending.WriteString(strings.TrimSuffix(trimmed, "\\"))
			pending.WriteByte(' ')
			continue
		}
		pending.WriteString(line)
		flush()
	}
	flush()

	return records, scanner.Err()
}
