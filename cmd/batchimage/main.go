package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/batch"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/config"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/engine"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "YAML configuration file (defaults apply when empty)")
		inputDir    = flag.String("input", "", "input directory for batch processing")
		outputDir   = flag.String("output", "", "output directory for batch processing")
		imagePath   = flag.String("image", "", "single input image (instead of -input/-output)")
		outPath     = flag.String("out", "", "output path for single-image mode")
		showVersion = flag.Bool("version", false, "print version information")
	)
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("batchimage %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	logLevel := os.Getenv("BATCHIMAGE_LOG_LEVEL")
	if logLevel == "debug" {
		log.Printf("batchimage v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Configuration error: %v", err)
		}
		cfg = loaded
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *imagePath != "":
		if *outPath == "" {
			log.Fatal("-out is required with -image")
		}
		runSingle(ctx, cfg, *imagePath, *outPath)
	case *inputDir != "" && *outputDir != "":
		runBatch(ctx, cfg, *inputDir, *outputDir)
	default:
		usage()
		os.Exit(2)
	}
}

func runSingle(ctx context.Context, cfg *config.Config, inPath, outPath string) {
	eng, err := engine.New(cfg)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	result, err := batch.ProcessFile(ctx, eng, cfg, inPath, outPath)
	if err != nil {
		log.Fatalf("Failed to process %s: %v", inPath, err)
	}
	grayPct := 0.0
	if n := result.Mask.W * result.Mask.H; n > 0 {
		grayPct = float64(result.Mask.Count()) / float64(n) * 100
	}
	fmt.Printf("%s: %d grayscale regions (%.1f%% of page) -> %s\n",
		inPath, len(result.Regions), grayPct, outPath)
	for _, f := range result.Failures {
		log.Printf("estimator %s was skipped: %s", f.Estimator, f.Reason)
	}
}

func runBatch(ctx context.Context, cfg *config.Config, inputDir, outputDir string) {
	runner, err := batch.NewRunner(cfg, inputDir, outputDir)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	sum, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("Batch run failed: %v", err)
	}
	fmt.Printf("Processed %d images, %d failed\n", sum.Processed, sum.Failed)
	if sum.Failed > 0 {
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "batchimage - separate scanned pages into binary and continuous-tone regions")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  batchimage -config cfg.yml -input SCANS/ -output OUT/")
	fmt.Fprintln(os.Stderr, "  batchimage -config cfg.yml -image page.png -out page_processed.png")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Environment variables:")
	fmt.Fprintln(os.Stderr, "  BATCHIMAGE_LOG_LEVEL=debug    Enable debug logging")
}
