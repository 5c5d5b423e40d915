package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playvdk/vdk/av"
)

func TestLoadRejectsMissingFileAndDefaultsApply(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err) // SetConfigFile to a missing explicit path is a hard error

	v := viper.New()
	SetDefaults(v)
	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.EqualValues(t, defaultSyncToleranceTicks, cfg.Sync.ToleranceTicks)
	assert.EqualValues(t, defaultFarFutureThresholdTicks, cfg.Sync.FarFutureThresholdTicks)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "playdump.yaml")
	yaml := []byte("sync:\n  tolerance_ticks: 25\n  disabled_codecs:\n    - \"vorb\"\nlogging:\n  level: debug\n  format: json\n")
	require.NoError(t, os.WriteFile(path, yaml, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.EqualValues(t, 25, cfg.Sync.ToleranceTicks)
	assert.EqualValues(t, defaultFarFutureThresholdTicks, cfg.Sync.FarFutureThresholdTicks)
	assert.Equal(t, []string{"vorb"}, cfg.Sync.DisabledCodecs)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadHonorsEnvironmentOverride(t *testing.T) {
	t.Setenv("PLAYDUMP_LOGGING_LEVEL", "error")

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("PLAYDUMP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := &Config{
		Sync:    SyncConfig{ToleranceTicks: 5, FarFutureThresholdTicks: 1000},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
	require.NoError(t, cfg.Validate())

	bad := *cfg
	bad.Sync.FarFutureThresholdTicks = 0
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Logging.Level = "verbose"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Logging.Format = "xml"
	assert.Error(t, bad.Validate())

	bad = *cfg
	bad.Sync.DisabledCodecs = []string{"abc"}
	assert.Error(t, bad.Validate())
}

func TestAVConfigConvertsFourCCsAndCopiesSlices(t *testing.T) {
	cfg := &Config{
		Sync: SyncConfig{
			ToleranceTicks:          5,
			FarFutureThresholdTicks: 1000,
			DisabledCodecs:          []string{"vorb"},
			DisabledContainers:      []string{"video/mp4"},
		},
	}
	avCfg := cfg.AVConfig()
	assert.Equal(t, av.FourCCVorb, avCfg.DisabledCodecs[0])
	assert.Equal(t, []string{"video/mp4"}, avCfg.DisabledContainers)

	// Mutating the source config must not retroactively change a
	// previously-converted av.Config.
	cfg.Sync.DisabledContainers[0] = "mutated"
	assert.Equal(t, "video/mp4", avCfg.DisabledContainers[0])
}

func TestBindPFlagsSkipsUnregisteredFlags(t *testing.T) {
	v := viper.New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	assert.NotPanics(t, func() { BindPFlags(v, flags) })
}

func TestBindPFlagsBindsRegisteredFlags(t *testing.T) {
	v := viper.New()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	flags.String("log-format", "text", "")
	require.NoError(t, flags.Set("log-level", "debug"))

	BindPFlags(v, flags)
	assert.Equal(t, "debug", v.GetString("logging.level"))
}
