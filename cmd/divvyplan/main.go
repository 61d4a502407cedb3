package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/iwvelando/divvyplan/internal/calc"
	"github.com/iwvelando/divvyplan/internal/config"
	"github.com/iwvelando/divvyplan/internal/server"
	"github.com/iwvelando/divvyplan/internal/store"
	"github.com/iwvelando/divvyplan/pkg/constants"
	"github.com/iwvelando/divvyplan/pkg/output"
	"github.com/iwvelando/divvyplan/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "json" // Default to JSON for production
	}

	// Configure encoder
	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		// Ensure the directory exists
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		config.OutputPaths = []string{loggingConfig.OutputFile}
		config.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return config.Build()
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, json, yaml, pdf")
	outputFileFlag := flag.String("output-file", "", "write the report to this file instead of stdout")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")

	var opts sessionOptions
	flag.StringVar(&opts.Amount, "amount", "", "deal amount, e.g. 5000 or £5,000.00")
	flag.StringVar(&opts.Expenses, "expenses", "", "deal expenses deducted before corporation tax")
	vatRegistered := flag.Bool("vat-registered", false, "the company is VAT registered")
	includesVAT := flag.Bool("includes-vat", false, "the deal amount already includes VAT")
	flag.Var(&opts.Directors, "director", "director as Name or Name=0.6 (repeatable)")
	flag.Var(&opts.Remove, "remove-director", "remove a director by name (repeatable)")
	flag.Var(&opts.Rename, "rename-director", "rename a director as Old=New (repeatable)")
	flag.StringVar(&opts.SplitMethod, "split", "", "split method: equal, custom")
	flag.StringVar(&opts.Tier, "tier", "", "dividend tax band: basic, higher, additional, custom")
	presetFlag := flag.String("preset", "", "dividend rate preset: current, april2026")
	load := flag.Bool("load", false, "start from the remembered session")
	save := flag.Bool("save", false, "remember this session")
	serve := flag.Bool("serve", false, "serve the HTTP API instead of printing a report")
	maxRequestSize := flag.String("max-request-size", "", "request body limit override for -serve, e.g. 512K")
	flag.Parse()

	// Only flags the user passed override the loaded session.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "vat-registered":
			opts.VATRegistered = vatRegistered
		case "includes-vat":
			opts.IncludesVAT = includesVAT
		}
	})

	// Load the config file to get logging configuration. A missing default
	// file is not an error.
	conf, err := loadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Validate configuration and display any warnings
	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	st := openStore(conf, logger)

	if *serve {
		runServer(logger, conf, st, *maxRequestSize)
		return
	}

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	outputFile := conf.Output.File
	if *outputFileFlag != "" {
		outputFile = *outputFileFlag
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}
	if outputFormat == constants.OutputFormatPDF && outputFile == "" {
		logger.Warn("pdf output needs an output file; using pretty output",
			zap.String("op", "main"),
		)
		outputFormat = constants.OutputFormatPretty
	}

	settings, err := conf.ApplyTax(st.LoadSettings())
	if err != nil {
		logger.Fatal("failed to apply tax configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	if *presetFlag != "" {
		preset, err := calc.ParsePreset(*presetFlag)
		if err != nil {
			logger.Fatal(err.Error(),
				zap.String("op", "main"),
			)
		}
		settings.DividendPreset = preset
	}

	state := store.DefaultState(settings)
	if *load {
		state = st.LoadState(settings)
	}
	state, err = applyOptions(state, opts)
	if err != nil {
		logger.Fatal("invalid deal",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	report := output.NewReport(state.DealInput, state.Directors, state.SplitMethod, state.DividendRateTier, settings)
	if !report.ValidSplit {
		logger.Warn("director splits do not total 100%",
			zap.String("op", "main"),
			zap.Int("directors", len(state.Directors)),
		)
	}

	if err := writeReport(outputFile, outputFormat, report); err != nil {
		logger.Fatal("failed to write report",
			zap.String("op", "main"),
			zap.String("file", outputFile),
			zap.Error(err),
		)
	}

	if *save {
		if err := st.SaveState(state); err != nil {
			logger.Error("failed to save session",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}
}

func loadConfiguration(path string) (*config.Configuration, error) {
	conf, err := config.LoadConfiguration(path)
	if err == nil {
		return conf, nil
	}
	if path == constants.DefaultConfigFile {
		if _, statErr := os.Stat(path); errors.Is(statErr, os.ErrNotExist) {
			return config.Default()
		}
	}
	return nil, err
}

func writeReport(path, format string, report output.Report) error {
	var w io.Writer = os.Stdout
	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory %s: %v", dir, err)
			}
		}
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer func() {
			_ = file.Close()
		}()
		w = file
	}
	return output.Write(w, format, report)
}

func runServer(logger *zap.Logger, conf *config.Configuration, st *store.Store, maxRequestSize string) {
	cfg, err := serverConfig(conf.Server, maxRequestSize)
	if err != nil {
		logger.Fatal("invalid server configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := server.NewHandler(logger, st, cfg.RequestSizeBytes(), version)
	if err := server.ListenAndServe(ctx, logger, cfg, handler); err != nil {
		logger.Fatal("server stopped",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// serverConfig normalizes the server section and applies the CLI body limit
// override when one is given.
func serverConfig(sc config.ServerConfig, maxRequestSize string) (*server.Config, error) {
	cfg, err := server.NewConfig(sc)
	if err != nil {
		return nil, err
	}
	if maxRequestSize != "" {
		size, err := server.ParseSize(maxRequestSize)
		if err != nil {
			return nil, fmt.Errorf("max-request-size: %w", err)
		}
		cfg.SetRequestSizeBytes(size)
	}
	return cfg, nil
}
