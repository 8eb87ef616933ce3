package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/color-picker-mcp/internal/imaging"
	"github.com/ironsheep/color-picker-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("color-picker-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("color-picker-mcp - MCP server for picking colors from images")
			fmt.Println()
			fmt.Println("Usage: color-picker-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  COLOR_PICKER_MCP_LOG_LEVEL=debug|info|warn|error   Log level (default info)")
			fmt.Println("  COLOR_PICKER_MCP_MIN_SCALE=0.5                     Smallest effective zoom")
			fmt.Println("  COLOR_PICKER_MCP_MAX_TRANSLATION=800               Pan limit per unit of zoom")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Logs go to stderr; stdout is for the MCP protocol.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("COLOR_PICKER_MCP_LOG_LEVEL")),
	}))

	limits, err := limitsFromEnv()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	logger.Debug("starting color picker MCP server",
		"version", Version, "built", BuildTime, "commit", GitCommit,
		"min_scale", limits.MinScale, "max_translation", limits.MaxTranslation)

	srv := server.New(
		server.WithLogger(logger),
		server.WithLimits(limits),
		server.WithVersion(Version),
	)
	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// limitsFromEnv overrides the default viewport clamps from the environment.
func limitsFromEnv() (imaging.Limits, error) {
	limits := imaging.DefaultLimits

	if v := os.Getenv("COLOR_PICKER_MCP_MIN_SCALE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return limits, fmt.Errorf("COLOR_PICKER_MCP_MIN_SCALE must be a positive number, got %q", v)
		}
		limits.MinScale = f
	}
	if v := os.Getenv("COLOR_PICKER_MCP_MAX_TRANSLATION"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return limits, fmt.Errorf("COLOR_PICKER_MCP_MAX_TRANSLATION must be a non-negative number, got %q", v)
		}
		limits.MaxTranslation = f
	}
	return limits, nil
}
