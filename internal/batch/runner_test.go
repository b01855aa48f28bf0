package batch

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/config"
)

// writePage writes a uniform grayscale PNG page into dir.
func writePage(t *testing.T, dir, name string, v uint8) {
	t.Helper()
	g := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range g.Pix {
		g.Pix[i] = v
	}
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, g))
}

func TestRunProcessesDirectory(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writePage(t, in, "page_001.png", 255)
	writePage(t, in, "page_002.png", 255)

	r, err := NewRunner(config.Default(), in, out)
	require.NoError(t, err)

	sum, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Processed)
	assert.Equal(t, 0, sum.Failed)
	require.Len(t, sum.Files, 2)
	for _, fr := range sum.Files {
		assert.NoError(t, fr.Err)
		assert.FileExists(t, fr.Output)
	}
}

func TestRunSkipsNonRasterEntries(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writePage(t, in, "page.png", 255)
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, ".hidden.png"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(in, "sub"), 0o755))

	r, err := NewRunner(config.Default(), in, out)
	require.NoError(t, err)

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Processed)
	assert.Len(t, sum.Files, 1)
}

func TestRunIsolatesPerFileFailures(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writePage(t, in, "good.png", 255)
	// A .png extension with no image inside: decode fails for this file
	// only.
	require.NoError(t, os.WriteFile(filepath.Join(in, "bad.png"), []byte("not an image"), 0o644))

	r, err := NewRunner(config.Default(), in, out)
	require.NoError(t, err)

	sum, err := r.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Processed)
	assert.Equal(t, 1, sum.Failed)

	byName := map[string]FileResult{}
	for _, fr := range sum.Files {
		byName[fr.Source] = fr
	}
	assert.Error(t, byName["bad.png"].Err)
	assert.Empty(t, byName["bad.png"].Output)
	assert.NoError(t, byName["good.png"].Err)
}

func TestRunWritesReportAndVisualization(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	artifacts := t.TempDir()
	writePage(t, in, "page.png", 255)

	cfg := config.Default()
	cfg.Output.SaveReport = true
	cfg.Output.ReportPath = artifacts
	cfg.Output.SaveVisualization = true
	cfg.Output.VisualizationPath = artifacts

	r, err := NewRunner(cfg, in, out)
	require.NoError(t, err)

	sum, err := r.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sum.Processed)

	reports, err := filepath.Glob(filepath.Join(artifacts, "detection_report_*.json"))
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	assert.FileExists(t, filepath.Join(artifacts, "page_regions.png"))
	assert.FileExists(t, filepath.Join(artifacts, "page_probability.png"))
}

func TestRunMissingInputDirectory(t *testing.T) {
	r, err := NewRunner(config.Default(), filepath.Join(t.TempDir(), "absent"), t.TempDir())
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	assert.Error(t, err)
}

func TestRunCanceledContext(t *testing.T) {
	in := t.TempDir()
	writePage(t, in, "page.png", 255)

	r, err := NewRunner(config.Default(), in, t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOutputNameNormalizesExtension(t *testing.T) {
	assert.Equal(t, "scan.png", outputName("scan.tiff"))
	assert.Equal(t, "scan.png", outputName("scan.png"))
	assert.Equal(t, "scan.v2.png", outputName("scan.v2.jpg"))
}
