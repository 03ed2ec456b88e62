package automount

import (
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/mountviz/pkg/errors"
)

// locationMarker identifies the "server:/path" field on lines that carry
// mount options between the key and the location.
const locationMarker = ":/"

// ReadMap parses an automount map from r. The source name is recorded on
// every entry and used in error messages.
//
// Each entry's MountDir is the key as written; [Loader] rewrites it for
// indirect maps. An empty map returns no entries and no error.
func ReadMap(r io.Reader, source string) ([]MountEntry, error) {
	records, err := scanRecords(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	entries := make([]MountEntry, 0, len(records))
	for _, rec := range records {
		location, err := mapLocation(rec)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidMapLine, &errors.LineError{
				File: source, Line: rec.line, Text: rec.text,
			}, "%s", err)
		}

		server, localDir, _ := strings.Cut(location, ":")
		entries = append(entries, MountEntry{
			MountDir: rec.fields[0],
			Key:      rec.fields[0],
			Server:   server,
			LocalDir: localDir,
			Source:   source,
		})
	}
	return entries, nil
}

// ParseMap opens path through src and parses it with [ReadMap].
func ParseMap(src Source, path string) ([]MountEntry, error) {
	rc, err := src.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadMap(rc, path)
}

// mapLocation picks the location field of a map record. Two fields are
// taken as key and location; longer records use the first field after the
// key containing ":/".
func mapLocation(rec record) (string, error) {
	switch n := len(rec.fields); {
	case n < 2:
		return "", fmt.Errorf("missing location")
	case n == 2:
		return rec.fields[1], nil
	}
	for _, f := range rec.fields[1:] {
		if strings.Contains(f, locationMarker) {
			return f, nil
		}
	}
	return "", fmt.Errorf("no field contains %q", locationMarker)
}
