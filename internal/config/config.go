// ABOUTME: Environment defaults for the clipscope binary
// ABOUTME: CLIPSCOPE_* variables seed the command line flag defaults
package config

import (
	"os"
	"strconv"
)

// Config holds the settings a user can set from the environment or flags
type Config struct {
	// Waveform
	Width       int
	Height      int
	Scale       float64
	Color       string // #RRGGBB or #RRGGBBAA
	Mode        string // peak or average
	CursorWidth int

	// Playback
	FPS    int
	Loop   bool
	Volume int // 0-100

	// Event feed
	FeedPort int // 0 disables the feed
	NoMDNS   bool
	Name     string

	// Output
	LogFile string
	NoTUI   bool
}

// Load reads configuration from environment variables with sane defaults.
func Load() Config {
	return Config{
		Width:       envInt("CLIPSCOPE_WIDTH", 512),
		Height:      envInt("CLIPSCOPE_HEIGHT", 128),
		Scale:       envFloat("CLIPSCOPE_SCALE", 1.0),
		Color:       envStr("CLIPSCOPE_COLOR", "#FFFFFF"),
		Mode:        envStr("CLIPSCOPE_MODE", "peak"),
		CursorWidth: envInt("CLIPSCOPE_CURSOR_WIDTH", 2),

		FPS:    envInt("CLIPSCOPE_FPS", 60),
		Loop:   envBool("CLIPSCOPE_LOOP", false),
		Volume: envInt("CLIPSCOPE_VOLUME", 100),

		FeedPort: envInt("CLIPSCOPE_FEED_PORT", 8928),
		NoMDNS:   envBool("CLIPSCOPE_NO_MDNS", false),
		Name:     envStr("CLIPSCOPE_NAME", ""),

		LogFile: envStr("CLIPSCOPE_LOG_FILE", "clipscope.log"),
		NoTUI:   envBool("CLIPSCOPE_NO_TUI", false),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
