package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"enroll-net/config"
	"enroll-net/network"
	"enroll-net/storage"
)

// ExportService renders built networks to disk and optionally mirrors
// the files to S3 when a bucket is configured.
type ExportService struct {
	Config *config.Config
	S3     *s3.Client
	logger *zap.Logger
}

// NewExportService creates an ExportService without S3; callers set the
// S3 field when uploads are wanted.
func NewExportService(cfg *config.Config, logger *zap.Logger) *ExportService {
	return &ExportService{Config: cfg, logger: logger}
}

// ExportResult reports where an export ended up.
type ExportResult struct {
	Format string   `json:"format"`
	Files  []string `json:"files"`
	Links  []string `json:"links,omitempty"`
}

// Export writes a graph in the given format under the output directory
// and uploads the files to S3 when configured. The upload is
// best-effort: a failed upload is logged but the local files still
// count as a successful export.
func (e *ExportService) Export(g *network.Graph, name, format string) (*ExportResult, error) {
	dir := filepath.Join(e.Config.OutputDir, "networks")
	paths, err := network.Export(g, format, dir, name)
	if err != nil {
		return nil, err
	}
	e.logger.Info("Network exported",
		zap.String("name", name),
		zap.String("format", format),
		zap.Strings("files", paths))

	result := &ExportResult{Format: format, Files: paths}
	if e.S3 == nil || !e.Config.S3Enabled() {
		return result, nil
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			e.logger.Warn("Export upload skipped, cannot read file",
				zap.String("path", path), zap.Error(err))
			continue
		}
		key := fmt.Sprintf("networks/%s", filepath.Base(path))
		link, err := storage.UploadFile(e.S3, e.Config.S3Bucket, key, data, e.Config)
		if err != nil {
			e.logger.Warn("Export upload failed",
				zap.String("key", key), zap.Error(err))
			continue
		}
		result.Links = append(result.Links, link)
	}
	return result, nil
}
