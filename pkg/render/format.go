package render

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/mountviz/pkg/errors"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatDOT, FormatJSON}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
	return nil
}

// FormatFromPath infers the output format from a file extension.
// ".gv" is accepted as DOT. Unknown or missing extensions return an error.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "gv" {
		ext = FormatDOT
	}
	if err := ValidateFormat(ext); err != nil {
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format from %q; use --format", path)
	}
	return ext, nil
}
