package config

import (
	stderrors "errors"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/mountviz/pkg/errors"
)

var validate = validator.New()

// Validate checks struct tags and the rules that span fields.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}

	if c.Remote.Files && c.Remote.Host == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "remote.files requires remote.host (use --host)")
	}
	if c.Remote.Cluster && c.Remote.Host == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "remote.cluster requires remote.host (use --host)")
	}
	return nil
}

// formatValidationError reports the first failing field.
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		return errors.New(errors.ErrCodeInvalidConfig, "%s: validation failed on '%s' tag (value: %v)",
			e.Namespace(), e.Tag(), e.Value())
	}
	return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate config")
}
