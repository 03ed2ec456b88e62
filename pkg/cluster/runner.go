package cluster

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/matzehuels/mountviz/pkg/errors"
)

// Runner executes a shell command line and returns its standard output.
type Runner interface {
	Run(ctx context.Context, command string) ([]byte, error)
}

// ShellRunner runs commands locally through "sh -c".
type ShellRunner struct {
	// Shell overrides the interpreter; empty means "sh".
	Shell string
}

// Run implements [Runner]. A non-zero exit returns an error with code
// [errors.ErrCodeCommandFailed] carrying the command's stderr.
func (r ShellRunner) Run(ctx context.Context, command string) ([]byte, error) {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}

	cmd := exec.CommandContext(ctx, shell, "-c", command)
	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return out.Bytes(), errors.Wrap(errors.ErrCodeCommandFailed, err, "%s: %s", command, strings.TrimSpace(errBuf.String()))
	}
	return out.Bytes(), nil
}
