package automount

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/matzehuels/mountviz/pkg/errors"
)

// Map source types recognised in master map entries.
const (
	MapTypeFile    = "file"
	MapTypeBuiltin = "builtin"
)

// mapTypes lists the "type:" prefixes autofs accepts in front of a map name.
var mapTypes = map[string]string{
	"file":    MapTypeFile,
	"files":   MapTypeFile,
	"program": "program",
	"yp":      "yp",
	"nis":     "yp",
	"nisplus": "nisplus",
	"ldap":    "ldap",
	"ldaps":   "ldap",
	"hesiod":  "hesiod",
	"sss":     "sss",
	"dir":     "dir",
	"multi":   "multi",
}

// ReadMaster parses a master map from r. Relative map names are resolved
// against the directory of source.
//
// Include lines ("+auto.master") are skipped. Lines with fewer than two
// fields return an error with code [errors.ErrCodeInvalidMasterLine].
func ReadMaster(r io.Reader, source string) ([]MasterEntry, error) {
	records, err := scanRecords(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	var entries []MasterEntry
	for _, rec := range records {
		if strings.HasPrefix(rec.fields[0], "+") {
			continue
		}
		if len(rec.fields) < 2 {
			return nil, errors.Wrap(errors.ErrCodeInvalidMasterLine, &errors.LineError{
				File: source, Line: rec.line, Text: rec.text,
			}, "missing map name")
		}

		mapType, name := splitMapType(rec.fields[1])
		e := MasterEntry{
			MountDir: rec.fields[0],
			MapFile:  name,
			Path:     name,
			Type:     mapType,
			Options:  rec.fields[2:],
			Direct:   rec.fields[0] == DirectMount,
		}
		if e.Local() && !strings.Contains(name, "/") {
			e.Path = path.Join(path.Dir(source), name)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ParseMaster opens path through src and parses it with [ReadMaster].
func ParseMaster(src Source, path string) ([]MasterEntry, error) {
	rc, err := src.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ReadMaster(rc, path)
}

// splitMapType separates an optional "type[,format]:" prefix from a map name.
// Names starting with '-' ("-hosts", "-null") are built-in maps.
func splitMapType(name string) (string, string) {
	if strings.HasPrefix(name, "-") {
		return MapTypeBuiltin, name
	}
	prefix, rest, ok := strings.Cut(name, ":")
	if !ok {
		return MapTypeFile, name
	}
	kind, _, _ := strings.Cut(prefix, ",")
	if t, known := mapTypes[kind]; known {
		return t, rest
	}
	return MapTypeFile, name
}
