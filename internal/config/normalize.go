package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeExiftool(); err != nil {
		return err
	}
	c.normalizeBatch()
	if err := c.normalizeValidation(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TemplatesFile) == "" {
		c.Paths.TemplatesFile = defaultTemplatesFile
	}
	if c.Paths.TemplatesFile, err = expandPath(c.Paths.TemplatesFile); err != nil {
		return fmt.Errorf("paths.templates_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeExiftool() error {
	if value, ok := os.LookupEnv(EnvExiftool); ok && strings.TrimSpace(value) != "" {
		c.Exiftool.Binary = value
	}
	c.Exiftool.Binary = strings.TrimSpace(c.Exiftool.Binary)
	if strings.ContainsAny(c.Exiftool.Binary, `/\`) || strings.HasPrefix(c.Exiftool.Binary, "~") {
		expanded, err := expandPath(c.Exiftool.Binary)
		if err != nil {
			return fmt.Errorf("exiftool.binary: %w", err)
		}
		c.Exiftool.Binary = expanded
	}
	args := c.Exiftool.ExtraArgs[:0]
	for _, arg := range c.Exiftool.ExtraArgs {
		if arg = strings.TrimSpace(arg); arg != "" {
			args = append(args, arg)
		}
	}
	c.Exiftool.ExtraArgs = args
	return nil
}

func (c *Config) normalizeBatch() {
	exts := make([]string, 0, len(c.Batch.Extensions))
	seen := make(map[string]struct{}, len(c.Batch.Extensions))
	for _, ext := range c.Batch.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, dup := seen[ext]; dup {
			continue
		}
		seen[ext] = struct{}{}
		exts = append(exts, ext)
	}
	c.Batch.Extensions = exts
}

func (c *Config) normalizeValidation() error {
	if strings.TrimSpace(c.Validation.TagDictionary) == "" {
		c.Validation.TagDictionary = ""
		return nil
	}
	var err error
	if c.Validation.TagDictionary, err = expandPath(strings.TrimSpace(c.Validation.TagDictionary)); err != nil {
		return fmt.Errorf("validation.tag_dictionary: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.History.RetentionDays < 0 {
		c.History.RetentionDays = 0
	}
}
