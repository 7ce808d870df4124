package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/seasonx/seasonx/pkg/market"
	"github.com/seasonx/seasonx/pkg/utils/ptr"
)

// EnvPrefix prefixes every environment override, e.g. SEASONX_COLOR_MODE.
const EnvPrefix = "SEASONX"

var (
	defaultFileConfig = &RawFileConfig{
		ColorMode:          ptr.To(ColorModeDark),
		DefaultSector:      ptr.To(market.DefaultSector),
		Timezone:           ptr.To("Local"),
		Provider:           ptr.To(ProviderMock),
		MockDelayMs:        ptr.To(0),
		RefreshSchedule:    ptr.To("@every 15m"),
		AllowNonRootAccess: ptr.To(false),
		HTTPAddr:           ptr.To(""),
		ClickHouse: &ClickHouse{
			Addr:     "localhost:9000",
			Database: "default",
			Table:    "seasonality",
			Username: "default",
		},
	}
)

var _ Config = &File{}

// File is a Config backed by a JSON file. Environment variables override
// values from the file but are never written back by Save.
type File struct {
	c        *RawFileConfig
	env      *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string) (*File, error) {
	f := &File{
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// NewFileFromConfig wraps an already decoded config, e.g. one received from
// the daemon. Environment overrides are not applied.
func NewFileFromConfig(c *RawFileConfig, configPath string) *File {
	if c == nil {
		c = defaultFileConfig
	}

	f := &File{
		c:        c,
		env:      &RawFileConfig{},
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

type RawFileConfig struct {
	ColorMode          *ColorMode  `json:"colorMode,omitempty" envconfig:"COLOR_MODE"`
	DefaultSector      *string     `json:"defaultSector,omitempty" envconfig:"DEFAULT_SECTOR"`
	Timezone           *string     `json:"timezone,omitempty" envconfig:"TIMEZONE"`
	Provider           *string     `json:"provider,omitempty" envconfig:"PROVIDER"`
	MockDelayMs        *int        `json:"mockDelayMs,omitempty" envconfig:"MOCK_DELAY_MS"`
	RefreshSchedule    *string     `json:"refreshSchedule,omitempty" envconfig:"REFRESH_SCHEDULE"`
	AllowNonRootAccess *bool       `json:"allowNonRootAccess,omitempty" envconfig:"ALLOW_NON_ROOT_ACCESS"`
	HTTPAddr           *string     `json:"httpAddr,omitempty" envconfig:"HTTP_ADDR"`
	ClickHouse         *ClickHouse `json:"clickhouse,omitempty" envconfig:"CLICKHOUSE"`
}

func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	ch := c.ClickHouse()
	// Never hand the password to clients.
	ch.Password = ""

	rawConfig := &RawFileConfig{
		ColorMode:          ptr.To(c.ColorMode()),
		DefaultSector:      ptr.To(c.DefaultSector()),
		Timezone:           ptr.To(c.Location().String()),
		Provider:           ptr.To(c.Provider()),
		MockDelayMs:        ptr.To(int(c.MockDelay() / time.Millisecond)),
		RefreshSchedule:    ptr.To(c.RefreshSchedule()),
		AllowNonRootAccess: ptr.To(c.AllowNonRootAccess()),
		HTTPAddr:           ptr.To(c.HTTPAddr()),
		ClickHouse:         &ch,
	}

	return rawConfig, nil
}

// pick returns the first non-nil of env, file and def.
func pick[T any](env, file, def *T) T {
	if env != nil {
		return *env
	}
	if file != nil {
		return *file
	}
	return *def
}

func (f *File) ColorMode() ColorMode {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return pick(f.env.ColorMode, f.c.ColorMode, defaultFileConfig.ColorMode)
}

func (f *File) DefaultSector() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return pick(f.env.DefaultSector, f.c.DefaultSector, defaultFileConfig.DefaultSector)
}

func (f *File) Location() *time.Location {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	name := pick(f.env.Timezone, f.c.Timezone, defaultFileConfig.Timezone)
	f.mu.RUnlock()

	if name == "" || name == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logrus.Warnf("unknown timezone %q, falling back to local time: %v", name, err)
		return time.Local
	}
	return loc
}

func (f *File) Provider() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return pick(f.env.Provider, f.c.Provider, defaultFileConfig.Provider)
}

func (f *File) MockDelay() time.Duration {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	ms := pick(f.env.MockDelayMs, f.c.MockDelayMs, defaultFileConfig.MockDelayMs)
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond
}

func (f *File) RefreshSchedule() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return pick(f.env.RefreshSchedule, f.c.RefreshSchedule, defaultFileConfig.RefreshSchedule)
}

// ClickHouse merges the table location field by field: env, then file, then
// defaults.
func (f *File) ClickHouse() ClickHouse {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	ch := *defaultFileConfig.ClickHouse
	for _, layer := range []*ClickHouse{f.c.ClickHouse, f.env.ClickHouse} {
		if layer == nil {
			continue
		}
		if layer.Addr != "" {
			ch.Addr = layer.Addr
		}
		if layer.Database != "" {
			ch.Database = layer.Database
		}
		if layer.Table != "" {
			ch.Table = layer.Table
		}
		if layer.Username != "" {
			ch.Username = layer.Username
		}
		if layer.Password != "" {
			ch.Password = layer.Password
		}
	}
	return ch
}

func (f *File) AllowNonRootAccess() bool {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return pick(f.env.AllowNonRootAccess, f.c.AllowNonRootAccess, defaultFileConfig.AllowNonRootAccess)
}

func (f *File) HTTPAddr() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return pick(f.env.HTTPAddr, f.c.HTTPAddr, defaultFileConfig.HTTPAddr)
}

func (f *File) SetColorMode(m ColorMode) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.c.ColorMode = &m
	// A runtime change outranks the environment until the next Load.
	f.env.ColorMode = nil
}

func (f *File) SetDefaultSector(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.c.DefaultSector = &s
	f.env.DefaultSector = nil
}

func (f *File) SetRefreshSchedule(s string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.c.RefreshSchedule = &s
	f.env.RefreshSchedule = nil
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	env, err := loadEnv()
	if err != nil {
		return err
	}
	f.env = env

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, return the empty config.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal config from file %s", f.filepath)
	}

	if conf.ColorMode != nil {
		if _, err := ParseColorMode(string(*conf.ColorMode)); err != nil {
			return pkgerrors.Wrapf(err, "invalid config file %s", f.filepath)
		}
	}

	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode config to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	return logrus.Fields{
		"colorMode":          f.ColorMode(),
		"defaultSector":      f.DefaultSector(),
		"timezone":           f.Location().String(),
		"provider":           f.Provider(),
		"mockDelay":          f.MockDelay().String(),
		"refreshSchedule":    f.RefreshSchedule(),
		"allowNonRootAccess": f.AllowNonRootAccess(),
		"httpAddr":           f.HTTPAddr(),
	}
}

func loadEnv() (*RawFileConfig, error) {
	env := &RawFileConfig{}
	if err := envconfig.Process(EnvPrefix, env); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to read environment overrides")
	}
	// envconfig allocates nested structs even when nothing is set.
	if env.ClickHouse != nil && *env.ClickHouse == (ClickHouse{}) {
		env.ClickHouse = nil
	}
	if env.ColorMode != nil {
		m, err := ParseColorMode(string(*env.ColorMode))
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "invalid %s_COLOR_MODE", EnvPrefix)
		}
		env.ColorMode = &m
	}
	return env, nil
}
