package config

import "cuekit/internal/normalize"

const (
	defaultCacheDirFallback      = "~/.cache/cuekit"
	defaultCacheMaxEntries       = 500
	defaultBatchMaxConcurrent    = 4
	defaultSynthTimeoutSeconds   = 120
	defaultSynthCaptionFormat    = "vtt"
	defaultSynthMinAgreement     = 0.6
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultMCPServerName         = "cuekit"
	defaultMCPServerVersion      = "dev"
	envShowPauseDescriptors      = "CUEKIT_SHOW_PAUSE_DESCRIPTORS"
	envPauseThresholdMs          = "CUEKIT_PAUSE_THRESHOLD_MS"
	maxDescriptorThresholdMs     = 10 * 60 * 1000
	defaultDescriptorThresholdMs = normalize.DefaultThresholdMs
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Pauses: Pauses{
			DescriptorThresholdMs: defaultDescriptorThresholdMs,
		},
		Paths: Paths{
			CacheDir: defaultCacheDir(),
		},
		Cache: Cache{
			MaxEntries: defaultCacheMaxEntries,
		},
		Batch: Batch{
			MaxConcurrent: defaultBatchMaxConcurrent,
		},
		Synth: Synth{
			TimeoutSeconds: defaultSynthTimeoutSeconds,
			CaptionFormat:  defaultSynthCaptionFormat,
			MinAgreement:   defaultSynthMinAgreement,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		MCP: MCP{
			ServerName:    defaultMCPServerName,
			ServerVersion: defaultMCPServerVersion,
		},
	}
}
