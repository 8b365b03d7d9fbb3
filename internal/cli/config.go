package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tradestate/internal/paths"
	"github.com/mesh-intelligence/tradestate/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeySyncWrites = "sync_writes"
)

// configFile is the on-disk shape of config.yaml.
type configFile struct {
	Backend    string `yaml:"backend"`
	DataDir    string `yaml:"data_dir,omitempty"`
	SyncWrites bool   `yaml:"sync_writes"`
}

// defaultConfigFile is the content written to config.yaml on first run.
func defaultConfigFile() configFile {
	return configFile{Backend: types.BackendSQLite, SyncWrites: true}
}

func writeConfigFile(path string, cfg configFile) error {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// loadConfig reads config.yaml from configDir using Viper. It creates the
// config directory and a default config.yaml on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeySyncWrites, true)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, paths.ConfigFileName)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return writeConfigFile(path, defaultConfigFile())
}

// recordDataDir writes dataDir into config.yaml when the file does not name
// one yet, so later runs resolve the same directory. Other keys are kept.
func recordDataDir(configDir, dataDir string) error {
	path := filepath.Join(configDir, paths.ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	cfg := defaultConfigFile()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if cfg.DataDir != "" {
		return nil
	}
	cfg.DataDir = dataDir
	return writeConfigFile(path, cfg)
}

// resolveConfig builds the medium Config from flags, environment and
// config.yaml.
func (a *app) resolveConfig() (types.Config, error) {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return types.Config{}, err
	}

	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend:    v.GetString(cfgKeyBackend),
		DataDir:    dataDir,
		SyncWrites: v.GetBool(cfgKeySyncWrites),
	}
	if a.flags.backend != "" {
		cfg.Backend = a.flags.backend
	}
	return cfg, nil
}
