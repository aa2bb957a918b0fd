package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Errors name the offending
// field.
func (c *Config) Validate() error {
	if err := c.validateExiftool(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateValidation(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateExiftool() error {
	if c.Exiftool.ReadTimeout < 0 {
		return errors.New("exiftool.read_timeout must be zero or positive")
	}
	if c.Exiftool.WriteTimeout < 0 {
		return errors.New("exiftool.write_timeout must be zero or positive")
	}
	for _, arg := range c.Exiftool.ExtraArgs {
		switch arg {
		case "--", "-j", "-json", "-G", "-s":
			return fmt.Errorf("exiftool.extra_args must not include %q; it is set by exifdeck", arg)
		}
	}
	return nil
}

func (c *Config) validateBatch() error {
	if c.Batch.Concurrency < 1 || c.Batch.Concurrency > maxConcurrency {
		return fmt.Errorf("batch.concurrency must be between 1 and %d", maxConcurrency)
	}
	return nil
}

func (c *Config) validateValidation() error {
	if c.Validation.Strict && c.Validation.TagDictionary == "" {
		return errors.New("validation.strict requires validation.tag_dictionary")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
