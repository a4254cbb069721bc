package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"calclog/internal/config"
	"calclog/internal/logging"
	"calclog/internal/observability"
	"calclog/pkg/calclog"
)

const (
	demoLocalAsset  = "SBER"
	demoQuotedAsset = "AAPL"
)

var (
	demoBuyPrice  = calclog.NewAmountFromInt(150)
	demoSellPrice = calclog.NewAmountFromInt(250)
	demoAmount    = calclog.NewAmountFromInt(10)
	demoBalance   = calclog.NewAmountFromInt(100000)
)

type options struct {
	packagesPath  string
	usdRate       string
	dbPath        string
	localCurrency string
	fetchRate     bool
	saveConfig    bool
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("calclog", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.packagesPath, "packages", "", "TOML file with [[package]] workout readings (default: built-in demo)")
	fs.StringVar(&opts.usdRate, "usd-rate", "", "USD rate for the quoted asset demo")
	fs.StringVar(&opts.dbPath, "db", "", "SQLite journal to record every result in (optional)")
	fs.StringVar(&opts.localCurrency, "local-currency", "", "Currency quoted assets convert into (default from config)")
	fs.BoolVar(&opts.fetchRate, "fetch-rate", false, "Fetch the USD rate online and store it in the journal (requires -db)")
	fs.BoolVar(&opts.saveConfig, "save-config", false, "Persist -local-currency and -db as defaults in the user config")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if strings.TrimSpace(opts.localCurrency) == "" {
		opts.localCurrency = config.GetLocalCurrency()
	}

	logger := logging.NewConsoleLogger(stderr)
	if err := execute(ctx, opts, stdout, logger); err != nil {
		fmt.Fprintf(stderr, "calclog: %v\n", err)
		return 1
	}
	if opts.saveConfig {
		if err := saveDefaults(opts); err != nil {
			fmt.Fprintf(stderr, "calclog: save config: %v\n", err)
			return 1
		}
	}
	return 0
}

// saveDefaults stores the local currency and journal location for later runs.
func saveDefaults(opts options) error {
	cfg := config.LoadUserConfig()
	cfg.LocalCurrency = strings.ToUpper(strings.TrimSpace(opts.localCurrency))
	if opts.dbPath != "" {
		abs, err := filepath.Abs(opts.dbPath)
		if err != nil {
			return err
		}
		cfg.DataDir = filepath.Dir(abs)
		cfg.DBName = filepath.Base(abs)
	}
	return config.SaveUserConfig(cfg)
}

func execute(ctx context.Context, opts options, stdout io.Writer, logger *slog.Logger) error {
	packages := config.DefaultPackages()
	if opts.packagesPath != "" {
		loaded, err := config.LoadPackages(opts.packagesPath)
		if err != nil {
			return err
		}
		packages = loaded
	}
	if opts.fetchRate && opts.dbPath == "" {
		return errors.New("-fetch-rate requires -db")
	}
	var core *calclog.Core
	if opts.dbPath != "" {
		var err error
		core, err = calclog.OpenWithOptions(calclog.Options{
			DBPath:        opts.dbPath,
			Logger:        logger,
			LocalCurrency: opts.localCurrency,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := core.Close(); err != nil {
				logger.Error("failed to close journal", "err", err)
			}
		}()
	}

	for _, pkg := range packages {
		summary, err := calclog.ProcessPackage(pkg.Code, pkg.Values)
		if err != nil {
			observability.RecordFailure(string(calclog.CodeOf(err)))
			return err
		}
		observability.RecordTraining(strings.ToUpper(strings.TrimSpace(pkg.Code)))
		fmt.Fprintln(stdout, calclog.FormatSummary(summary))
		if core != nil {
			if _, err := core.RecordSummary(ctx, pkg.Code, summary); err != nil {
				return err
			}
		}
	}

	if err := printFinancialResult(ctx, stdout, core, calclog.NewAsset(demoLocalAsset)); err != nil {
		return err
	}

	if opts.usdRate == "" && !opts.fetchRate {
		return nil
	}
	quoted := calclog.NewQuotedAsset(demoQuotedAsset)
	switch {
	case opts.usdRate != "":
		if err := quoted.SetUSDRateString(opts.usdRate); err != nil {
			return err
		}
	default:
		rate, provider, err := core.RefreshExchangeRate(ctx, "USD", core.LocalCurrency())
		if err != nil {
			return fmt.Errorf("fetch usd rate: %w", err)
		}
		logger.Info("usd rate fetched", "rate", rate, "provider", provider)
		if err := core.QuoteAsset(ctx, quoted); err != nil {
			return err
		}
	}
	return printFinancialResult(ctx, stdout, core, quoted)
}

func printFinancialResult(ctx context.Context, stdout io.Writer, core *calclog.Core, asset *calclog.Asset) error {
	result, err := asset.CalcFinRes(demoBuyPrice, demoSellPrice, demoAmount, demoBalance)
	if err != nil {
		observability.RecordFailure(string(calclog.CodeOf(err)))
		return err
	}
	observability.RecordFinancialResult(asset.Quoted())
	fmt.Fprintf(stdout, "%s: %s\n", asset.Name, result)

	if core == nil {
		return nil
	}
	entry := calclog.FinancialEntry{
		AssetName: asset.Name,
		Quoted:    asset.Quoted(),
		BuyPrice:  demoBuyPrice,
		SellPrice: demoSellPrice,
		Amount:    demoAmount,
		Balance:   demoBalance,
		Result:    result,
	}
	if rate, ok := asset.USDRate(); ok {
		entry.USDRate = &rate
	}
	_, err = core.RecordFinancialResult(ctx, entry)
	return err
}
