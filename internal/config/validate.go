package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := validateBareFilename("journal.filename", c.Journal.Filename); err != nil {
		return err
	}
	if err := validateBareFilename("run.lock_filename", c.Run.LockFilename); err != nil {
		return err
	}
	if c.Journal.Filename == c.Run.LockFilename {
		return fmt.Errorf("journal.filename and run.lock_filename must differ (both %q)", c.Journal.Filename)
	}
	for _, ext := range c.Listing.OpaqueExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("listing.opaque_extensions entries must look like %q, got %q", ".app", ext)
		}
	}
	if !strings.HasPrefix(c.Listing.PromptSuffix, ".") {
		return fmt.Errorf("listing.prompt_suffix must start with a dot, got %q", c.Listing.PromptSuffix)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

// validateBareFilename rejects names that could place run artifacts outside
// the root boundary.
func validateBareFilename(key, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%s must be set", key)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%s must be a filename, got %q", key, name)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%s must not contain path separators, got %q", key, name)
	}
	return nil
}
