// Package diskusage reports filesystem usage of mount directories by
// running "df -P" locally or on a remote host.
package diskusage

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/mountviz/pkg/errors"
)

// blockSize is the unit of the size columns with "df -P -k".
const blockSize = 1024

// Runner executes a shell command line and returns its standard output.
// On failure implementations should still return whatever output was
// produced, since df exits non-zero when only some paths fail.
type Runner interface {
	Run(ctx context.Context, command string) ([]byte, error)
}

// Usage is one row of POSIX df output, sizes in bytes.
type Usage struct {
	Filesystem string `json:"filesystem"`
	Size       uint64 `json:"size"`
	Used       uint64 `json:"used"`
	Avail      uint64 `json:"avail"`
	Capacity   int    `json:"capacity"` // Percent used as reported by df
	MountedOn  string `json:"mounted_on"`
}

// Probe runs df for dirs through r and returns usage keyed by directory.
//
// Directories df could not stat are missing from the result. If df failed
// for some paths the partial result is returned together with the error.
func Probe(ctx context.Context, r Runner, dirs []string) (map[string]Usage, error) {
	if len(dirs) == 0 {
		return map[string]Usage{}, nil
	}

	out, runErr := r.Run(ctx, Command(dirs))
	if runErr != nil && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	rows, err := Parse(bytes.NewReader(out))
	if err != nil {
		return nil, stderrors.Join(runErr, err)
	}
	return match(dirs, rows), runErr
}

// Command builds the df command line for dirs with each path shell-quoted.
func Command(dirs []string) string {
	var b strings.Builder
	b.WriteString("df -P -k --")
	for _, d := range dirs {
		b.WriteByte(' ')
		b.WriteString(shellQuote(d))
	}
	return b.String()
}

// Parse reads "df -P" output. The header line is skipped; mount points
// containing spaces are kept intact.
func Parse(r io.Reader) ([]Usage, error) {
	var rows []Usage
	scanner := bufio.NewScanner(r)
	header := true
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if header {
			header = false
			if fields[0] == "Filesystem" {
				continue
			}
		}
		if len(fields) < 6 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "df line %d: %d fields, want at least 6", lineNo, len(fields))
		}

		u := Usage{Filesystem: fields[0], MountedOn: strings.Join(fields[5:], " ")}
		var err error
		if u.Size, err = blocks(fields[1]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "df line %d: size", lineNo)
		}
		if u.Used, err = blocks(fields[2]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "df line %d: used", lineNo)
		}
		if u.Avail, err = blocks(fields[3]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "df line %d: available", lineNo)
		}
		if u.Capacity, err = strconv.Atoi(strings.TrimSuffix(fields[4], "%")); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "df line %d: capacity", lineNo)
		}
		rows = append(rows, u)
	}
	return rows, scanner.Err()
}

// match pairs rows with the queried directories. df prints one row per
// argument in order unless some argument failed; then rows are matched by
// mount point.
func match(dirs []string, rows []Usage) map[string]Usage {
	result := make(map[string]Usage, len(rows))
	if len(rows) == len(dirs) {
		for i, d := range dirs {
			result[d] = rows[i]
		}
		return result
	}
	for _, row := range rows {
		for _, d := range dirs {
			if row.MountedOn == d {
				result[d] = row
			}
		}
	}
	return result
}

func blocks(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return n * blockSize, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
