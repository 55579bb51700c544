// Package config defines the tunable parameters of vbl.
// These types are pure data structures; loading lives in yaml.go.
package config

import (
	"errors"
	"fmt"
)

// MaxFileSize is the largest file vbl supports: 256 TiB.
// Offsets are signed 64-bit, so this is a policy cap, not a type limit.
const MaxFileSize int64 = 1 << 48

// Display geometry constants. The hex layout is built around a fixed
// 32-byte line; the screen width requirement follows from it.
const (
	LineWidth    = 32  // bytes displayed per line
	MinWidth     = 140 // minimum terminal columns
	MinHeight    = 24  // minimum terminal rows
	PromptHeight = 3   // rows reserved for the prompt area
)

// Config is the root configuration for vbl.
type Config struct {
	// SearchIndentLines is the number of context lines shown above a
	// search match after the view repositions.
	SearchIndentLines int `yaml:"search_indent_lines"`

	// SearchBlockSize is the read block for forward pattern scans.
	SearchBlockSize int `yaml:"search_block_size"`

	// SearchBackBlockSize is the read block for backward pattern scans.
	SearchBackBlockSize int `yaml:"search_back_block_size"`

	// DiffSkipBlockSize is the bulk-equality block used to jump over
	// long identical regions during diff navigation.
	DiffSkipBlockSize int `yaml:"diff_skip_block_size"`

	// ShiftChunkSize is the staging buffer for the grow/shrink file
	// shift during an edit commit.
	ShiftChunkSize int `yaml:"shift_chunk_size"`

	// ConfirmShiftBytes is the shift size above which a commit demands
	// explicit confirmation before starting the non-interruptible phase.
	ConfirmShiftBytes int64 `yaml:"confirm_shift_bytes"`

	// SkipForwardPercent and SkipBackPercent are the +/- jump sizes.
	SkipForwardPercent int `yaml:"skip_forward_percent"`
	SkipBackPercent    int `yaml:"skip_back_percent"`

	// HistorySize caps the find/goto input histories.
	HistorySize int `yaml:"history_size"`

	// ShowRaster enables the column raster marks at startup.
	ShowRaster bool `yaml:"show_raster"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		SearchIndentLines:   3,
		SearchBlockSize:     1 << 20,  // 1 MiB
		SearchBackBlockSize: 8 << 20,  // 8 MiB
		DiffSkipBlockSize:   32 << 20, // 32 MiB
		ShiftChunkSize:      8 << 20,  // 8 MiB
		ConfirmShiftBytes:   256 << 20,
		SkipForwardPercent:  5,
		SkipBackPercent:     1,
		HistorySize:         2000,
		ShowRaster:          false,
	}
}

// SearchIndent returns the indent in bytes.
func (c *Config) SearchIndent() int64 {
	return int64(c.SearchIndentLines) * LineWidth
}

// ErrInvalidConfig is the base error for configuration validation.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks that all sizes are usable.
func (c *Config) Validate() error {
	if c.SearchIndentLines < 0 {
		return fmt.Errorf("%w: search_indent_lines must be >= 0", ErrInvalidConfig)
	}
	if c.SearchBlockSize < LineWidth {
		return fmt.Errorf("%w: search_block_size must be at least %d", ErrInvalidConfig, LineWidth)
	}
	if c.SearchBackBlockSize < LineWidth {
		return fmt.Errorf("%w: search_back_block_size must be at least %d", ErrInvalidConfig, LineWidth)
	}
	if c.DiffSkipBlockSize < LineWidth {
		return fmt.Errorf("%w: diff_skip_block_size must be at least %d", ErrInvalidConfig, LineWidth)
	}
	if c.ShiftChunkSize < 1 {
		return fmt.Errorf("%w: shift_chunk_size must be positive", ErrInvalidConfig)
	}
	if c.ConfirmShiftBytes < 0 {
		return fmt.Errorf("%w: confirm_shift_bytes must be >= 0", ErrInvalidConfig)
	}
	if c.SkipForwardPercent < 1 || c.SkipForwardPercent > 99 {
		return fmt.Errorf("%w: skip_forward_percent must be in 1..99", ErrInvalidConfig)
	}
	if c.SkipBackPercent < 1 || c.SkipBackPercent > 99 {
		return fmt.Errorf("%w: skip_back_percent must be in 1..99", ErrInvalidConfig)
	}
	if c.HistorySize < 0 {
		return fmt.Errorf("%w: history_size must be >= 0", ErrInvalidConfig)
	}
	return nil
}
