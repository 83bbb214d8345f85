package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/cardclash/internal/config"
	"github.com/cory-johannsen/cardclash/internal/importer"
	"github.com/cory-johannsen/cardclash/internal/importer/jsondb"
	"github.com/cory-johannsen/cardclash/internal/observability"
)

func main() {
	format := flag.String("format", "jsondb", "source format: jsondb")
	source := flag.String("source", "", "path to a source file or directory")
	outputDir := flag.String("output", "", "path to output catalog directory")
	verbose := flag.Bool("v", false, "log every skipped card and dropped detail")
	flag.Parse()

	if *source == "" || *outputDir == "" {
		fmt.Fprintln(os.Stderr, "usage: import-cards [-format jsondb] -source <path> -output <dir> [-v]")
		os.Exit(1)
	}

	var src importer.Source
	switch *format {
	case "jsondb":
		src = jsondb.NewSource()
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q (supported: jsondb)\n", *format)
		os.Exit(1)
	}

	level := "error"
	if *verbose {
		level = "info"
	}
	logger, err := observability.NewLogger(config.LoggingConfig{Level: level, Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = observability.Sync(logger) }()

	start := time.Now()
	warnings, err := importer.New(src, logger).Run(*source, *outputDir)
	if err != nil {
		logger.Error("import failed", zap.Error(err))
		os.Exit(1)
	}
	fmt.Printf("import complete in %s (%d warnings)\n", time.Since(start).Round(time.Millisecond), len(warnings))
}
