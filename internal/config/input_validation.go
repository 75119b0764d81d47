package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	// MaxNameLength is the maximum allowed length for method and target names
	MaxNameLength = 100

	// MaxArgTemplateSize is the maximum allowed size for a single argument template
	MaxArgTemplateSize = 4 * 1024 // 4KB
)

// Method and target names become path components under the results tree, so
// they are restricted to a safe character set.
var nameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateInputs performs additional security validation on user-controllable
// fields. Method and target names are joined into filesystem paths, so this
// prevents path traversal (CWE-22) and related injection issues.
func (c *Config) ValidateInputs() error {
	if err := validateName("screening.method", c.Screening.Method); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Screening.Targets))
	for _, target := range c.Screening.Targets {
		if err := validateName("screening.targets", target); err != nil {
			return err
		}
		if seen[target] {
			return fmt.Errorf("screening.targets contains duplicate entry %q", target)
		}
		seen[target] = true
	}

	for _, arg := range c.Predictor.Args {
		if len(arg) > MaxArgTemplateSize {
			return fmt.Errorf("predictor.args entry exceeds %d bytes", MaxArgTemplateSize)
		}
	}

	return nil
}

// validateName checks a single path-component name for traversal attempts
func validateName(field, name string) error {
	if name == "" {
		return fmt.Errorf("%s: name cannot be empty", field)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%s: name exceeds %d characters", field, MaxNameLength)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("%s: invalid name %q: contains '..' (path traversal attempt)", field, name)
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("%s: invalid name %q: must not be an absolute path", field, name)
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%s: invalid name %q: must not contain path separators", field, name)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("%s: invalid name %q: only letters, digits, '_' and '-' are allowed", field, name)
	}
	return nil
}
