package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ColorMode is the palette renderers draw with.
type ColorMode string

const (
	ColorModeLight ColorMode = "light"
	ColorModeDark  ColorMode = "dark"
)

// ParseColorMode parses "light" or "dark", case-insensitively.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(s))) {
	case ColorModeLight:
		return ColorModeLight, nil
	case ColorModeDark:
		return ColorModeDark, nil
	default:
		return "", fmt.Errorf("invalid color mode %q, expected light or dark", s)
	}
}

// Toggle returns the other mode.
func (m ColorMode) Toggle() ColorMode {
	if m == ColorModeLight {
		return ColorModeDark
	}
	return ColorModeLight
}

const (
	ProviderMock       = "mock"
	ProviderClickHouse = "clickhouse"
)

// ClickHouse locates the table the clickhouse provider reads.
type ClickHouse struct {
	Addr     string `json:"addr,omitempty" envconfig:"ADDR"`
	Database string `json:"database,omitempty" envconfig:"DATABASE"`
	Table    string `json:"table,omitempty" envconfig:"TABLE"`
	Username string `json:"username,omitempty" envconfig:"USERNAME"`
	Password string `json:"password,omitempty" envconfig:"PASSWORD"`
}

type Config interface {
	ColorMode() ColorMode
	DefaultSector() string
	// Location is the time zone calendar days are built in.
	Location() *time.Location
	Provider() string
	MockDelay() time.Duration
	// RefreshSchedule is a cron expression; empty disables refreshing.
	RefreshSchedule() string
	ClickHouse() ClickHouse
	AllowNonRootAccess() bool
	HTTPAddr() string

	// Setters write the file layer and drop the matching environment
	// override, so the new value takes effect at once.
	SetColorMode(ColorMode)
	SetDefaultSector(string)
	SetRefreshSchedule(string)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error

	LogrusFields() logrus.Fields
}
