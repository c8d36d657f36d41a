package config

import (
	"errors"
	"fmt"
	"sort"

	"cuekit/internal/captions"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePauses(); err != nil {
		return err
	}
	if err := c.validateLimits(); err != nil {
		return err
	}
	if err := c.validateSynth(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePauses() error {
	if c.Pauses.DescriptorThresholdMs < 0 {
		return errors.New("pauses.descriptor_threshold_ms must not be negative")
	}
	if c.Pauses.DescriptorThresholdMs > maxDescriptorThresholdMs {
		return fmt.Errorf("pauses.descriptor_threshold_ms must be at most %d", maxDescriptorThresholdMs)
	}
	return nil
}

func (c *Config) validateLimits() error {
	if c.Paths.CacheDir == "" {
		return errors.New("paths.cache_dir must be set")
	}
	return ensurePositiveMap(map[string]int{
		"batch.max_concurrent":  c.Batch.MaxConcurrent,
		"cache.max_entries":     c.Cache.MaxEntries,
		"synth.timeout_seconds": c.Synth.TimeoutSeconds,
	})
}

func (c *Config) validateSynth() error {
	if _, err := captions.ParseFormat(c.Synth.CaptionFormat); err != nil {
		return fmt.Errorf("synth.caption_format: %w", err)
	}
	if c.Synth.RequestsPerMinute < 0 {
		return errors.New("synth.requests_per_minute must not be negative")
	}
	if c.Synth.MinAgreement < 0 || c.Synth.MinAgreement > 1 {
		return errors.New("synth.min_agreement must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
