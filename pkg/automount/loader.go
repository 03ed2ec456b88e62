package automount

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Loader reads a master map and every local map it references into one
// table of mount entries.
//
// The zero value is not usable; Source must be set.
type Loader struct {
	// Source opens the master map and the maps it references.
	Source Source
	// Exclude lists map files that are never read. Entries are compared
	// with both the map name as written and its resolved path.
	Exclude []string
	// Logger receives skip notices. Nil uses log.Default().
	Logger *log.Logger
}

// Load parses the master map at masterPath and returns the combined mount
// table in master map order.
//
// For indirect maps every entry's MountDir is replaced by the master mount
// point, which resolves "*" wildcard keys; direct map entries keep their
// absolute keys. Empty maps and non-file map sources are skipped. Any other
// failure aborts the load.
func (l *Loader) Load(masterPath string) ([]MountEntry, error) {
	logger := l.logger()

	master, err := ParseMaster(l.Source, masterPath)
	if err != nil {
		return nil, fmt.Errorf("parse master %s: %w", masterPath, err)
	}
	logger.Debug("parsed master map", "path", masterPath, "entries", len(master))

	excluded := make(map[string]bool, len(l.Exclude))
	for _, x := range l.Exclude {
		excluded[x] = true
	}

	var all []MountEntry
	for _, me := range master {
		if excluded[me.MapFile] || excluded[me.Path] {
			logger.Debug("excluded map", "map", me.Path)
			continue
		}
		if !me.Local() {
			logger.Warn("skipping non-file map", "mount", me.MountDir, "map", me.MapFile, "type", me.Type)
			continue
		}

		entries, err := ParseMap(l.Source, me.Path)
		if err != nil {
			return nil, fmt.Errorf("parse map %s: %w", me.Path, err)
		}
		if len(entries) == 0 {
			logger.Debug("empty map", "map", me.Path)
			continue
		}

		if !me.Direct {
			for i := range entries {
				entries[i].MountDir = me.MountDir
			}
		}
		logger.Debug("parsed map", "map", me.Path, "mount", me.MountDir, "entries", len(entries))
		all = append(all, entries...)
	}
	return all, nil
}

func (l *Loader) logger() *log.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return log.Default()
}

// ParseDir is a convenience wrapper that loads masterPath from the local
// filesystem, skipping the maps named in exclude.
func ParseDir(masterPath string, exclude ...string) ([]MountEntry, error) {
	l := Loader{Source: OSSource{}, Exclude: exclude}
	return l.Load(masterPath)
}
