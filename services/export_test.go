package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"enroll-net/config"
	"enroll-net/network"
)

func TestExportService_LocalWithoutS3(t *testing.T) {
	cfg := &config.Config{OutputDir: t.TempDir()}
	exporter := NewExportService(cfg, zap.NewNop())

	g := network.NewGraph()
	g.EnsureEdge("course_CS 101", "faculty_Smith").Weight = 1

	result, err := exporter.Export(g, "bipartite", "graphml")
	require.NoError(t, err)

	assert.Equal(t, "graphml", result.Format)
	require.Len(t, result.Files, 1)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "networks", "bipartite.graphml"), result.Files[0])
	assert.Empty(t, result.Links, "no uploads without an S3 client")
	assert.FileExists(t, result.Files[0])
}

func TestExportService_UnknownFormat(t *testing.T) {
	cfg := &config.Config{OutputDir: t.TempDir()}
	exporter := NewExportService(cfg, zap.NewNop())

	_, err := exporter.Export(network.NewGraph(), "bipartite", "dot")
	assert.Error(t, err)
}
