package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-cmsblocks"
	"github.com/alnah/go-cmsblocks/internal/config"
	"github.com/alnah/go-cmsblocks/internal/hints"
	"github.com/alnah/go-cmsblocks/internal/log"
)

// Command names.
const (
	cmdRender   = "render"
	cmdValidate = "validate"
	cmdIcon     = "icon"
	cmdServe    = "serve"
	cmdDoctor   = "doctor"
	cmdVersion  = "version"
	cmdHelp     = "help"
)

// CLI-only environment variables, unknown to the config loader.
const (
	envConfigPath = "CMSBLOCKS_CONFIG"    // Config file when --config is absent
	envContainer  = "CMSBLOCKS_CONTAINER" // "1" forces container detection
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrNoInput            = errors.New("no input specified")
	ErrReadBlock          = errors.New("failed to read block file")
	ErrWriteOutput        = errors.New("failed to write output")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrInvalidBlocks      = errors.New("invalid blocks found")
)

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUsage}, args...)...)
}

// runMain dispatches to a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := shutdownContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case cmdRender:
		err = runRender(ctx, rest, env)
	case cmdValidate:
		err = runValidate(rest, env)
	case cmdIcon:
		err = runIcon(rest, env)
	case cmdServe:
		err = runServe(ctx, rest, env)
	case cmdDoctor:
		return runDoctorCmd(rest, env)
	case cmdVersion, "--version":
		fmt.Fprintf(env.Stdout, "cmsblocks %s\n", Version)
		return ExitSuccess
	case cmdHelp, "-h", "--help":
		return runHelp(rest, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if err == nil || errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	return exitCodeFor(err)
}

// hintFor returns an actionable hint for well-known failures.
func hintFor(err error) string {
	switch {
	case errors.Is(err, cmsblocks.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(searchedPaths(err))
	case errors.Is(err, cmsblocks.ErrStyleNotFound):
		return hints.ForStyleNotFound([]string{cmsblocks.DefaultStyle})
	case errors.Is(err, cmsblocks.ErrMalformedSVG):
		return hints.ForMalformedSVG()
	case errors.Is(err, cmsblocks.ErrUnknownBlockType):
		types := make([]string, len(cmsblocks.BlockTypes))
		for i, t := range cmsblocks.BlockTypes {
			types[i] = string(t)
		}
		return hints.ForUnknownBlockType(types)
	case errors.Is(err, cmsblocks.ErrValidation):
		return hints.ForValidation()
	case errors.Is(err, cmsblocks.ErrMediaNotFound):
		return hints.ForMediaNotFound("")
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}

// searchedPaths extracts the "tried a, b" list of a config lookup error.
func searchedPaths(err error) []string {
	_, tried, ok := strings.Cut(err.Error(), "tried ")
	if !ok {
		return nil
	}
	return strings.Split(tried, ", ")
}

// loadConfig loads the site config named by flag or CMSBLOCKS_CONFIG, then
// applies CMSBLOCKS_* overrides. Unknown CMSBLOCKS_* variables are reported
// on stderr.
func loadConfig(flagPath string, env *Environment) (*config.Config, error) {
	path := flagPath
	if path == "" {
		path = env.lookup(envConfigPath)
	}

	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	unknown, err := config.ApplyEnv(cfg, env.Environ())
	if err != nil {
		return nil, err
	}
	for _, name := range unknown {
		if name == envConfigPath || name == envContainer {
			continue
		}
		fmt.Fprintf(env.Stderr, "warning: unknown environment variable %s (typo?)\n", name)
	}
	return cfg, nil
}

// newLogger builds the command logger. Flags win over the config file.
func newLogger(cfg *config.Config, f commonFlags, env *Environment) (zerolog.Logger, error) {
	level, format := cfg.Log.Level, cfg.Log.Format
	if f.logLevel != "" {
		level = f.logLevel
	}
	if f.logFormat != "" {
		format = f.logFormat
	}
	if f.verbose && f.logLevel == "" {
		level = "debug"
	}
	if !log.ValidLevel(level) {
		return zerolog.Nop(), usageError("log level %q (must be debug, info, warn or error)", level)
	}
	if format != "" && format != log.FormatJSON && format != log.FormatConsole {
		return zerolog.Nop(), usageError("log format %q (must be json or console)", format)
	}
	return log.New(log.Config{
		Level:   level,
		Format:  format,
		Output:  env.Stderr,
		Service: "cmsblocks",
		Version: Version,
	}), nil
}

// validateWorkers rejects negative or oversized worker counts.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0)", ErrInvalidWorkerCount, n)
	}
	if n > cmsblocks.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, cmsblocks.MaxPoolSize)
	}
	return nil
}
