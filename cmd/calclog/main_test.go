package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calclog/internal/config"
	"calclog/pkg/calclog"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("CALCLOG_LOCAL_CURRENCY", "RUB")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunDefaultPackages(t *testing.T) {
	code, stdout, stderr := runCLI(t)
	require.Equal(t, 0, code, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Тип тренировки: Swimming; Длительность: 1.000 ч.; Дистанция: 0.994 км; Ср. скорость: 1.000 км/ч; Потрачено ккал: 336.000.", lines[0])
	assert.Equal(t, "Тип тренировки: Running; Длительность: 1.000 ч.; Дистанция: 9.750 км; Ср. скорость: 9.750 км/ч; Потрачено ккал: 699.750.", lines[1])
	assert.Equal(t, "Тип тренировки: SportsWalking; Длительность: 1.000 ч.; Дистанция: 5.850 км; Ср. скорость: 5.850 км/ч; Потрачено ккал: 157.500.", lines[2])
	assert.Equal(t, "SBER: (1000, 1)", lines[3])
	assert.Empty(t, stderr)
}

func TestRunQuotedAsset(t *testing.T) {
	code, stdout, stderr := runCLI(t, "-usd-rate", "92.5")
	require.Equal(t, 0, code, stderr)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(stdout), "AAPL: (92500, 92.5)"), stdout)
}

func TestRunInvalidRate(t *testing.T) {
	code, stdout, stderr := runCLI(t, "-usd-rate", "abc")
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "SBER: (1000, 1)")
	assert.Contains(t, stderr, `"abc"`)
}

func TestRunZeroRateIsMissing(t *testing.T) {
	code, _, stderr := runCLI(t, "-usd-rate", "0")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "usd rate is not set for AAPL")
}

func TestRunUnknownWorkoutInPackageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "packages.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[package]]\ncode = \"XYZ\"\nvalues = [1, 2, 3]\n"), 0o644))

	code, stdout, stderr := runCLI(t, "-packages", path)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "XYZ")
}

func TestRunPackageFileAndJournal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "packages.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[package]]\ncode = \"RUN\"\nvalues = [15000, 1, 75]\n"), 0o644))
	dbPath := filepath.Join(dir, "journal.db")

	code, stdout, stderr := runCLI(t, "-packages", path, "-db", dbPath, "-usd-rate", "2")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Тип тренировки: Running")
	assert.Contains(t, stdout, "AAPL: (2000, 2)")

	core, err := calclog.Open(dbPath)
	require.NoError(t, err)
	defer core.Close()

	summaries, err := core.GetSummaries(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "RUN", summaries[0].WorkoutCode)
	assert.InDelta(t, 699.75, summaries[0].Summary.CaloriesKcal, 1e-9)

	results, err := core.GetFinancialResults(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "AAPL", results[0].AssetName)
	assert.True(t, results[0].Quoted)
	require.NotNil(t, results[0].USDRate)
	assert.Equal(t, "SBER", results[1].AssetName)
	assert.Nil(t, results[1].USDRate)
}

func TestRunSaveConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	dbPath := filepath.Join(t.TempDir(), "journal.db")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-local-currency", "eur", "-db", dbPath, "-save-config"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	cfg := config.LoadUserConfig()
	assert.Equal(t, "EUR", cfg.LocalCurrency)
	assert.Equal(t, "journal.db", cfg.DBName)
	assert.Equal(t, filepath.Dir(dbPath), cfg.DataDir)

	t.Setenv("CALCLOG_LOCAL_CURRENCY", "")
	assert.Equal(t, "EUR", config.GetLocalCurrency())
}

func TestRunFailureDoesNotSaveConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))

	code, _, _ := runCLI(t, "-local-currency", "usd", "-usd-rate", "abc", "-save-config")
	assert.Equal(t, 1, code)
	assert.Equal(t, "RUB", config.LoadUserConfig().LocalCurrency)
}

func TestRunFetchRateRequiresDB(t *testing.T) {
	code, _, stderr := runCLI(t, "-fetch-rate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "-fetch-rate requires -db")
}

func TestRunBadFlag(t *testing.T) {
	code, _, stderr := runCLI(t, "-nope")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "flag provided but not defined")
}
