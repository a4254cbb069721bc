package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	defaultDBName        = "calclog.db"
	defaultLocalCurrency = "RUB"

	envDataDir       = "CALCLOG_DATA_DIR"
	envDBPath        = "CALCLOG_DB_PATH"
	envLocalCurrency = "CALCLOG_LOCAL_CURRENCY"
)

// UserConfig is persisted as config.json in the application config directory.
type UserConfig struct {
	DBName        string `json:"db_name"`
	DataDir       string `json:"data_dir"`
	LocalCurrency string `json:"local_currency"`
}

var runtimeDataDir string

func SetRuntimeDataDir(dir string) {
	runtimeDataDir = dir
}

func appConfigDir() (string, error) {
	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "CalcLog"), nil
		}
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", "calclog"), nil
	}
	return filepath.Join(configDir, "calclog"), nil
}

func appConfigPath() (string, error) {
	dir, err := appConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func defaultUserConfig() UserConfig {
	return UserConfig{
		DBName:        defaultDBName,
		LocalCurrency: defaultLocalCurrency,
	}
}

// LoadUserConfig reads the saved config, falling back to defaults for
// anything missing or unreadable.
func LoadUserConfig() UserConfig {
	cfg := defaultUserConfig()
	path, err := appConfigPath()
	if err != nil {
		return cfg
	}
	file, err := os.Open(path)
	if err != nil {
		return cfg
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return defaultUserConfig()
	}
	if strings.TrimSpace(cfg.DBName) == "" {
		cfg.DBName = defaultDBName
	}
	if strings.TrimSpace(cfg.LocalCurrency) == "" {
		cfg.LocalCurrency = defaultLocalCurrency
	}
	return cfg
}

func SaveUserConfig(cfg UserConfig) error {
	path, err := appConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// GetDataDir resolves the data directory: runtime flag, then environment,
// then saved config, then the application config directory. It is created
// if missing.
func GetDataDir() (string, error) {
	dir := runtimeDataDir
	if dir == "" {
		dir = os.Getenv(envDataDir)
	}
	if dir == "" {
		dir = LoadUserConfig().DataDir
	}
	if dir == "" {
		defaultDir, err := appConfigDir()
		if err != nil {
			return "", err
		}
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func GetDBPath() (string, error) {
	if envPath := os.Getenv(envDBPath); envPath != "" {
		return envPath, nil
	}
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, LoadUserConfig().DBName), nil
}

// GetLocalCurrency returns the upper-cased currency quoted assets convert into.
func GetLocalCurrency() string {
	if env := strings.TrimSpace(os.Getenv(envLocalCurrency)); env != "" {
		return strings.ToUpper(env)
	}
	return strings.ToUpper(strings.TrimSpace(LoadUserConfig().LocalCurrency))
}
