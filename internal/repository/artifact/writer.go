// Package artifact writes dataset files and manifests to disk and, optionally, object storage.
package artifact

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wbindicators/internal/domain/dataset"
	"github.com/kailas-cloud/wbindicators/internal/domain/topline"
)

const (
	contentTypeCSV  = "text/csv"
	contentTypeJSON = "application/json"
)

// Uploader mirrors written files to remote storage.
type Uploader interface {
	Put(ctx context.Context, file string, content []byte, contentType string) error
}

// Writer publishes artifacts under a local directory.
type Writer struct {
	dir      string
	uploader Uploader
	logger   *zap.Logger
}

// NewWriter creates a writer rooted at dir. uploader can be nil.
func NewWriter(dir string, uploader Uploader, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{dir: dir, uploader: uploader, logger: logger}
}

// PublishDataset writes the indicator CSV, the quick-chart CSV and the manifest of one dataset.
func (w *Writer) PublishDataset(ctx context.Context, a dataset.Artifact) error {
	data, err := EncodeIndicators(a.Rows)
	if err != nil {
		return fmt.Errorf("dataset %s: %w", a.Manifest.Name, err)
	}
	if err := w.write(ctx, a.File, data, contentTypeCSV); err != nil {
		return err
	}

	if a.QuickChartFile != "" {
		qc, err := EncodeIndicators(a.QuickChartRows)
		if err != nil {
			return fmt.Errorf("dataset %s quick charts: %w", a.Manifest.Name, err)
		}
		if err := w.write(ctx, a.QuickChartFile, qc, contentTypeCSV); err != nil {
			return err
		}
	}

	if err := w.writeManifest(ctx, a.Manifest); err != nil {
		return err
	}
	w.logger.Info("dataset published",
		zap.String("dataset", a.Manifest.Name),
		zap.Int("rows", len(a.Rows)),
		zap.Int("quickchart_rows", len(a.QuickChartRows)),
	)
	return nil
}

// PublishTopline writes the topline CSV and its manifest.
func (w *Writer) PublishTopline(ctx context.Context, m dataset.Manifest, facts []topline.Fact) error {
	data, err := EncodeTopline(facts)
	if err != nil {
		return fmt.Errorf("topline: %w", err)
	}
	if err := w.write(ctx, dataset.ToplineFile, data, contentTypeCSV); err != nil {
		return err
	}
	if err := w.writeManifest(ctx, m); err != nil {
		return err
	}
	w.logger.Info("topline published", zap.String("dataset", m.Name), zap.Int("facts", len(facts)))
	return nil
}

func (w *Writer) writeManifest(ctx context.Context, m dataset.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode manifest %s: %w", m.Name, err)
	}
	return w.write(ctx, dataset.ManifestFile(m.Name), append(data, '\n'), contentTypeJSON)
}

func (w *Writer) write(ctx context.Context, file string, data []byte, contentType string) error {
	if file == "" || filepath.Base(file) != file {
		return fmt.Errorf("invalid artifact file name %q", file)
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(w.dir, file)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { //nolint:gosec // published artifacts are world-readable
		return fmt.Errorf("write %s: %w", file, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", file, err)
	}

	if w.uploader != nil {
		if err := w.uploader.Put(ctx, file, data, contentType); err != nil {
			return fmt.Errorf("upload %s: %w", file, err)
		}
	}
	return nil
}
