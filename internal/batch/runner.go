package batch

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/config"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/engine"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/imaging"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/processing"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/report"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/visualize"
)

// rasterExtensions lists the file extensions the runner picks up from the
// input directory, matching the formats the loader can decode.
var rasterExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
}

// FileResult records the outcome for one input image.
type FileResult struct {
	// Source is the input file name relative to the input directory.
	Source string

	// Output is the written file path, empty when the image failed.
	Output string

	// Regions is the number of accepted continuous-tone regions.
	Regions int

	// Err is the failure, nil on success.
	Err error
}

// Summary aggregates a finished run.
type Summary struct {
	Processed int
	Failed    int

	// Files holds one result per input image, in directory order.
	Files []FileResult
}

// Runner processes every raster image in an input directory and writes
// the rendered results into an output directory.
type Runner struct {
	cfg *config.Config
	eng *engine.Engine

	inputDir  string
	outputDir string
}

// NewRunner validates the configuration, builds the shared engine, and
// returns a runner for the given directories.
func NewRunner(cfg *config.Config, inputDir, outputDir string) (*Runner, error) {
	eng, err := engine.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg:       cfg,
		eng:       eng,
		inputDir:  inputDir,
		outputDir: outputDir,
	}, nil
}

// Run processes all images in the input directory over a bounded worker
// pool and returns the per-file summary. Per-image failures are recorded,
// logged, and do not interrupt the run. Run returns an error only for
// setup problems (unreadable input directory, unwritable output
// directory) or a canceled context.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	names, err := listImages(r.inputDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	workers := r.cfg.Batch.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logHostInfo(len(names), workers)

	results := make([]FileResult, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.processOne(gctx, name)
			if results[i].Err != nil {
				log.Printf("failed %s: %v", name, results[i].Err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary := &Summary{Files: results}
	for _, fr := range results {
		if fr.Err != nil {
			summary.Failed++
		} else {
			summary.Processed++
		}
	}
	return summary, nil
}

// processOne runs the full pipeline for a single file. All errors are
// returned in the FileResult; nothing is partially written on failure.
func (r *Runner) processOne(ctx context.Context, name string) FileResult {
	fr := FileResult{Source: name}

	outPath := filepath.Join(r.outputDir, outputName(name))
	out, err := ProcessFile(ctx, r.eng, r.cfg, filepath.Join(r.inputDir, name), outPath)
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Output = outPath
	fr.Regions = len(out.Regions)
	return fr
}

// ProcessFile classifies and renders one image: load inPath, classify
// regions, render both classes, save to outPath, and write the report and
// visualizations when the configuration enables them. The classification
// result is returned for callers that want to inspect it.
func ProcessFile(ctx context.Context, eng *engine.Engine, cfg *config.Config, inPath, outPath string) (*engine.Result, error) {
	img, _, err := imaging.Load(inPath)
	if err != nil {
		return nil, err
	}

	result, err := eng.Classify(ctx, img)
	if err != nil {
		return nil, err
	}

	gray := imaging.ToGray(img)
	rendered, err := processing.Apply(gray, result.Mask, cfg)
	if err != nil {
		return nil, err
	}
	if err := imaging.Save(outPath, rendered); err != nil {
		return nil, err
	}

	base := stripExtension(filepath.Base(inPath))
	if cfg.Output.SaveReport {
		rep := report.Build(result, cfg, filepath.Base(inPath))
		if _, err := rep.WriteJSON(cfg.Output.ReportPath); err != nil {
			return nil, err
		}
	}
	if cfg.Output.SaveVisualization {
		dir := cfg.Output.VisualizationPath
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create visualization directory: %w", err)
		}
		overlay := visualize.Overlay(img, result.Mask)
		if err := imaging.Save(filepath.Join(dir, base+"_regions.png"), overlay); err != nil {
			return nil, err
		}
		heat := visualize.Heatmap(result.Probability)
		if err := imaging.Save(filepath.Join(dir, base+"_probability.png"), heat); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// listImages returns the raster file names in dir, sorted by os.ReadDir.
// Subdirectories, dotfiles, and unrecognized extensions are skipped.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if rasterExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// outputName keeps the input name but normalizes the extension to .png,
// since rendered pages are saved lossless.
func outputName(name string) string {
	return stripExtension(name) + ".png"
}

func stripExtension(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
