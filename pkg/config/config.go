package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFilename = ".bridgelaunch.yaml"

const DefaultLauncher = "ros2"

// File is the optional on-disk override file. Arguments holds launch
// argument overrides keyed by option name.
type File struct {
	Arguments    map[string]any `yaml:"arguments" toml:"arguments"`
	Launcher     string         `yaml:"launcher,omitempty" toml:"launcher,omitempty"`
	ReadyTimeout string         `yaml:"ready_timeout,omitempty" toml:"ready_timeout,omitempty"`
}

func DefaultPath(root string) string {
	return filepath.Join(root, DefaultConfigFilename)
}

func LoadFromFile(path string) (*File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var cfg File
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return nil, errors.Wrap(err, "parse config toml")
		}
		return &cfg, nil
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, errors.Wrap(err, "parse config yaml")
	}
	return &cfg, nil
}

func LoadOptional(path string) (*File, error) {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, errors.Wrap(err, "stat config")
	}
	return LoadFromFile(path)
}

// Overrides returns the file's argument overrides as launch-argument text.
func (f *File) Overrides() (map[string]string, error) {
	out := map[string]string{}
	if f == nil {
		return out, nil
	}
	for k, v := range f.Arguments {
		s, err := stringify(v)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %q", k)
		}
		out[k] = s
	}
	return out, nil
}

func (f *File) LauncherOrDefault() string {
	if f == nil || f.Launcher == "" {
		return DefaultLauncher
	}
	return f.Launcher
}

// ReadyTimeoutOr parses ready_timeout, falling back to def when unset.
func (f *File) ReadyTimeoutOr(def time.Duration) (time.Duration, error) {
	if f == nil || f.ReadyTimeout == "" {
		return def, nil
	}
	d, err := time.ParseDuration(f.ReadyTimeout)
	if err != nil {
		return 0, errors.Wrap(err, "parse ready_timeout")
	}
	if d <= 0 {
		return 0, errors.New("ready_timeout must be > 0")
	}
	return d, nil
}
