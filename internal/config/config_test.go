package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolateConfig points every config location at a fresh temp dir.
func isolateConfig(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	t.Setenv(envDataDir, "")
	t.Setenv(envDBPath, "")
	t.Setenv(envLocalCurrency, "")
	SetRuntimeDataDir("")
	t.Cleanup(func() { SetRuntimeDataDir("") })
	return home
}

func TestRuntimeDataDirAndEnv(t *testing.T) {
	isolateConfig(t)

	tmp := t.TempDir()
	SetRuntimeDataDir(tmp)
	dir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir: %v", err)
	}
	if dir != tmp {
		t.Fatalf("expected runtime dir %q, got %q", tmp, dir)
	}

	SetRuntimeDataDir("")
	tmpEnv := filepath.Join(t.TempDir(), "data")
	t.Setenv(envDataDir, tmpEnv)
	dir, err = GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir env: %v", err)
	}
	if dir != tmpEnv {
		t.Fatalf("expected env dir %q, got %q", tmpEnv, dir)
	}
	if _, err := os.Stat(tmpEnv); err != nil {
		t.Fatalf("expected env dir to be created: %v", err)
	}
}

func TestGetDBPathEnv(t *testing.T) {
	isolateConfig(t)
	path := filepath.Join(t.TempDir(), "db.sqlite")
	t.Setenv(envDBPath, path)
	got, err := GetDBPath()
	if err != nil {
		t.Fatalf("GetDBPath: %v", err)
	}
	if got != path {
		t.Fatalf("expected %q, got %q", path, got)
	}
}

func TestLoadSaveConfig(t *testing.T) {
	home := isolateConfig(t)

	defaults := LoadUserConfig()
	if defaults.DBName != defaultDBName || defaults.LocalCurrency != defaultLocalCurrency {
		t.Fatalf("unexpected defaults: %+v", defaults)
	}

	cfg := UserConfig{
		DBName:        "my.db",
		DataDir:       filepath.Join(home, "data"),
		LocalCurrency: "EUR",
	}
	if err := SaveUserConfig(cfg); err != nil {
		t.Fatalf("SaveUserConfig: %v", err)
	}
	if loaded := LoadUserConfig(); loaded != cfg {
		t.Fatalf("loaded config mismatch: %+v", loaded)
	}
}

func TestLoadUserConfigFillsBlanks(t *testing.T) {
	isolateConfig(t)
	if err := SaveUserConfig(UserConfig{DataDir: "/tmp/x"}); err != nil {
		t.Fatalf("SaveUserConfig: %v", err)
	}
	loaded := LoadUserConfig()
	if loaded.DBName != defaultDBName || loaded.LocalCurrency != defaultLocalCurrency || loaded.DataDir != "/tmp/x" {
		t.Fatalf("expected blanks filled, got %+v", loaded)
	}
}

func TestLoadUserConfigCorrupt(t *testing.T) {
	isolateConfig(t)
	path, err := appConfigPath()
	if err != nil {
		t.Fatalf("appConfigPath: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if loaded := LoadUserConfig(); loaded != defaultUserConfig() {
		t.Fatalf("expected defaults for corrupt file, got %+v", loaded)
	}
}

func TestGetDataDirFromConfig(t *testing.T) {
	isolateConfig(t)

	customDir := filepath.Join(t.TempDir(), "data")
	if err := SaveUserConfig(UserConfig{DBName: "db.db", DataDir: customDir}); err != nil {
		t.Fatalf("SaveUserConfig: %v", err)
	}
	dir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir: %v", err)
	}
	if dir != customDir {
		t.Fatalf("expected data dir %q, got %q", customDir, dir)
	}
}

func TestGetDataDirDefault(t *testing.T) {
	isolateConfig(t)
	dir, err := GetDataDir()
	if err != nil {
		t.Fatalf("GetDataDir: %v", err)
	}
	expected, err := appConfigDir()
	if err != nil {
		t.Fatalf("appConfigDir: %v", err)
	}
	if dir != expected {
		t.Fatalf("expected default dir %q, got %q", expected, dir)
	}
}

func TestGetDBPathFromConfig(t *testing.T) {
	home := isolateConfig(t)

	cfg := UserConfig{DBName: "config.db", DataDir: filepath.Join(home, "data")}
	if err := SaveUserConfig(cfg); err != nil {
		t.Fatalf("SaveUserConfig: %v", err)
	}
	path, err := GetDBPath()
	if err != nil {
		t.Fatalf("GetDBPath: %v", err)
	}
	if path != filepath.Join(cfg.DataDir, cfg.DBName) {
		t.Fatalf("expected db path %q, got %q", filepath.Join(cfg.DataDir, cfg.DBName), path)
	}
}

func TestGetLocalCurrency(t *testing.T) {
	isolateConfig(t)
	if got := GetLocalCurrency(); got != "RUB" {
		t.Fatalf("expected RUB default, got %q", got)
	}

	if err := SaveUserConfig(UserConfig{LocalCurrency: "eur"}); err != nil {
		t.Fatalf("SaveUserConfig: %v", err)
	}
	if got := GetLocalCurrency(); got != "EUR" {
		t.Fatalf("expected EUR from config, got %q", got)
	}

	t.Setenv(envLocalCurrency, " kzt ")
	if got := GetLocalCurrency(); got != "KZT" {
		t.Fatalf("expected KZT from env, got %q", got)
	}
}
