package main

import (
	"flag"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/user/hline_analyzer_go/internal/config"
	"github.com/user/hline_analyzer_go/internal/parser"
)

// Flags
var (
	configFile = flag.String("config", "", "optional config file (yaml, toml or json)")
	dataDir    = flag.String("dir", "", "directory holding the log file (overrides config)")
	logFile    = flag.String("file", "", "log file name (overrides config)")
	format     = flag.String("format", "", "log format, one of: galactic, azel, npoint (overrides config)")
	pdfPath    = flag.String("pdf", "", "write a PDF report to this path (overrides config)")
)

func main() {
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	applyFlags(cfg)

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	if err := NewApp(cfg, os.Stdout).Run(); err != nil {
		ev := log.Fatal().Err(err)
		if parser.IsMalformed(err) {
			ev = ev.Bool("malformed", true)
		}
		ev.Msg("analysis failed")
	}
}

func applyFlags(cfg *config.Config) {
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *logFile != "" {
		cfg.File = *logFile
	}
	if *format != "" {
		cfg.Format = strings.ToLower(*format)
	}
	if *pdfPath != "" {
		cfg.PDFPath = *pdfPath
	}
}
