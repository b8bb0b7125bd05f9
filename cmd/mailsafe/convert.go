package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	flag "github.com/spf13/pflag"

	mailsafe "github.com/alnah/go-mailsafe"
	"github.com/alnah/go-mailsafe/internal/config"
	"github.com/alnah/go-mailsafe/internal/pipeline"
)

// ErrInvalidFlags wraps flag parsing errors.
var ErrInvalidFlags = errors.New("invalid flags")

// ErrConversionFailed is returned when some files of a batch failed.
var ErrConversionFailed = errors.New("conversion failed")

// runConvertCmd parses flags and runs the convert command.
func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		return flagError(err)
	}
	return runConvert(ctx, positional, flags, env)
}

// flagError passes --help through and marks other parse errors as usage errors.
func flagError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
}

// loadCommandConfig resolves configuration for one command run:
// .env file, MAILSAFE_* variables, then the config file they may name.
func loadCommandConfig(f commonFlags, stderr io.Writer) (*config.Config, *envConfig, error) {
	if err := loadDotEnv(f.envFile); err != nil {
		return nil, nil, err
	}
	e, err := loadEnvConfig()
	if err != nil {
		return nil, nil, err
	}
	if !f.quiet {
		warnUnknownEnvVars(stderr)
	}

	name := f.config
	if name == "" {
		name = e.ConfigPath
	}
	cfg := config.DefaultConfig()
	if name != "" {
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(e, cfg)
	return cfg, e, nil
}

// validateMerged re-checks config after env and flag overrides.
func validateMerged(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Input.Charset != "" {
		if _, err := pipeline.CharsetName(cfg.Input.Charset); err != nil {
			return err
		}
	}
	settings := buildSettings(cfg)
	return settings.Validate()
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, envCfg, err := loadCommandConfig(flags.common, env.Stderr)
	if err != nil {
		return err
	}

	logger, err := commandLogger(flags.common, env, "convert")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}

	mergeSourceFlags(&flags.source, cfg)
	mergePDFFlags(&flags.pdf, cfg)
	if err := validateMerged(cfg); err != nil {
		return err
	}

	timeout, err := resolveTimeout(flags.source.timeout, envCfg.Timeout)
	if err != nil {
		return err
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	if err := validateWorkers(workers); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positionalArgs, cfg)
	if err != nil {
		return err
	}
	outputDir := resolveOutputDir(flags.output, cfg)

	page, err := buildPageSettings(cfg)
	if err != nil {
		return err
	}

	files, err := discoverFiles(inputPath, outputDir, page != nil)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no HTML or Markdown sources found in %s", ErrNoInput, inputPath)
	}

	params := &conversionParams{
		charset:   cfg.Input.Charset,
		document:  buildDocumentShell(cfg),
		signature: buildSignature(cfg),
		page:      page,
	}

	poolSize := mailsafe.ResolvePoolSize(workers)
	logger.Debug("starting conversion",
		slog.String("input", inputPath),
		slog.Int("files", len(files)),
		slog.Int("pool_size", poolSize),
		slog.Bool("pdf", page != nil),
	)

	pool := env.NewPool(poolSize, converterOptions(cfg, timeout)...)
	defer func() {
		if err := pool.Close(); err != nil {
			logger.Warn("closing converter pool", slog.Any("error", err))
		}
	}()

	results := convertBatch(ctx, pool, files, params, logger)

	failedCount := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)
	if failedCount == 0 {
		return nil
	}
	// A single failure keeps its cause so exit codes and hints apply.
	if len(results) == 1 {
		return results[0].Err
	}
	return fmt.Errorf("%w: %d of %d file(s)", ErrConversionFailed, failedCount, len(results))
}

// resolveInputPath determines the input path from args or config.
func resolveInputPath(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Input.DefaultDir != "" {
		return cfg.Input.DefaultDir, nil
	}
	return "", ErrNoInput
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}
