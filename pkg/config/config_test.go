package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadOptional_Missing(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), DefaultConfigFilename))
	require.NoError(t, err)
	ov, err := cfg.Overrides()
	require.NoError(t, err)
	require.Empty(t, ov)
	require.Equal(t, DefaultLauncher, cfg.LauncherOrDefault())
}

func TestLoadFromFile_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte(`
arguments:
  ssl: true
  port: 9443
  retry_startup_delay: 2.5
  unregister_timeout: 10.0
  delay_between_messages: 0.0
  certfile: /etc/ssl/bridge.pem
  address: ""
launcher: /opt/ros/bin/ros2
ready_timeout: 45s
`), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	ov, err := cfg.Overrides()
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"ssl":                    "true",
		"port":                   "9443",
		"retry_startup_delay":    "2.5",
		"unregister_timeout":     "10.0",
		"delay_between_messages": "0.0",
		"certfile":               "/etc/ssl/bridge.pem",
		"address":                "",
	}, ov)
	require.Equal(t, "/opt/ros/bin/ros2", cfg.LauncherOrDefault())
	d, err := cfg.ReadyTimeoutOr(time.Second)
	require.NoError(t, err)
	require.Equal(t, 45*time.Second, d)
}

func TestLoadFromFile_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".bridgelaunch.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
launcher = "ros2"

[arguments]
ssl = false
max_message_size = 2000000
topics_glob = "/foo/*"
retry_startup_delay = 5.0
`), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	ov, err := cfg.Overrides()
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"ssl":                 "false",
		"max_message_size":    "2000000",
		"topics_glob":         "/foo/*",
		"retry_startup_delay": "5.0",
	}, ov)
}

func TestOverrides_RejectsNested(t *testing.T) {
	cfg := &File{Arguments: map[string]any{"port": map[string]any{"a": 1}}}
	_, err := cfg.Overrides()
	require.Error(t, err)
}

func TestReadyTimeoutOr_Invalid(t *testing.T) {
	_, err := (&File{ReadyTimeout: "soon"}).ReadyTimeoutOr(time.Second)
	require.Error(t, err)
	_, err = (&File{ReadyTimeout: "-1s"}).ReadyTimeoutOr(time.Second)
	require.Error(t, err)
}

func TestParseArguments(t *testing.T) {
	out, err := ParseArguments([]string{"ssl:=True", "certfile:=/a.pem", "address:=", "topics_glob:=[/a, /b]"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"ssl":         "True",
		"certfile":    "/a.pem",
		"address":     "",
		"topics_glob": "[/a, /b]",
	}, out)

	_, err = ParseArguments([]string{"port=9090"})
	require.Error(t, err)
	_, err = ParseArguments([]string{":=1"})
	require.Error(t, err)
}

func TestMerge_LaterWins(t *testing.T) {
	out := Merge(
		map[string]string{"port": "1", "ssl": "false"},
		nil,
		map[string]string{"port": "2"},
	)
	require.Equal(t, map[string]string{"port": "2", "ssl": "false"}, out)
}

func TestFormatFloat_KeepsDecimalPoint(t *testing.T) {
	require.Equal(t, "5.0", formatFloat(5))
	require.Equal(t, "10000000.0", formatFloat(1e7))
	require.Equal(t, "2.5", formatFloat(2.5))
	require.Equal(t, "0.0", formatFloat(0))
	require.Equal(t, "-3.0", formatFloat(-3))
}
