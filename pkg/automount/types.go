package automount

import (
	"io"
	"os"

	"github.com/matzehuels/mountviz/pkg/errors"
)

// DirectMount is the master map mount point that marks a direct map.
const DirectMount = "/-"

// MountEntry is one line of an automount map.
type MountEntry struct {
	MountDir string `json:"mount_dir"`           // Resolved local mount directory
	Key      string `json:"key"`                 // First column as written in the map
	Server   string `json:"server"`              // Host part of the location
	LocalDir string `json:"local_dir,omitempty"` // Exported path on the server
	Source   string `json:"source"`              // Map file the entry came from
}

// MasterEntry is one line of the master map.
type MasterEntry struct {
	MountDir string   // Mount point, or DirectMount
	MapFile  string   // Map name as written, without a source prefix
	Path     string   // Map path resolved against the master map directory
	Type     string   // Map source: "file", "program", "yp", "ldap", "builtin", ...
	Options  []string // Remaining columns (mount options, timeouts)
	Direct   bool     // MountDir == DirectMount
}

// Local reports whether the map is a plain file the loader can read.
func (e MasterEntry) Local() bool { return e.Type == MapTypeFile }

// Source opens configuration files by path. [OSSource] reads the local
// filesystem; remote.Client reads over SFTP.
type Source interface {
	Open(name string) (io.ReadCloser, error)
}

// OSSource opens files on the local filesystem.
type OSSource struct{}

// Open implements [Source].
func (OSSource) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", name)
		}
		return nil, err
	}
	return f, nil
}
