package main

import (
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"enroll-net/config"
	"enroll-net/ingest"
	"enroll-net/network"
	"enroll-net/services"
	"enroll-net/storage"
)

var (
	recordsLoadedCounter prometheus.Counter
	recordsFailedCounter prometheus.Counter
)

func init() {
	recordsLoadedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "enrollment_records_loaded_total",
			Help: "Total number of enrollment records loaded into the database.",
		},
	)
	recordsFailedCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "enrollment_records_failed_total",
			Help: "Total number of enrollment records that failed to load.",
		},
	)
	prometheus.MustRegister(recordsLoadedCounter, recordsFailedCounter)
}

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APIKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APIKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}

	// A store that cannot open or migrate is fatal; every later failure
	// degrades per request instead.
	store, err := storage.Open(cfg, logging)
	if err != nil {
		logging.Fatal("Failed to open database", zap.Error(err))
	}

	reader := ingest.NewReader(logging)
	loader := services.NewLoadService(store, logging)
	builder := network.NewBuilder(store, logging)
	analyzer := network.NewAnalyzer(logging)
	analyzer.BetweennessMaxNodes = cfg.BetweennessMaxNodes
	reportService := services.NewReportService(store, builder, analyzer, logging)

	exporter := services.NewExportService(cfg, logging)
	if cfg.S3Enabled() {
		s3Client, err := storage.NewS3Client(cfg)
		if err != nil {
			logging.Fatal("S3 client creation failed", zap.Error(err))
		}
		exporter.S3 = s3Client
		logging.Info("S3 uploads enabled", zap.String("bucket", cfg.S3Bucket))
	}

	// Setup Router
	router := gin.Default()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	setupIngestRoutes(router, cfg, reader, loader, logging)
	setupNetworkRoutes(router, cfg, builder, analyzer, exporter, logging)
	setupAnalysisRoutes(router, cfg, builder, analyzer, logging)
	setupReportRoutes(router, cfg, reportService, logging)
	setupQueryRoutes(router, store, logging)

	// Setup Cron
	if cfg.CronSchedule != "" {
		cronScheduler := cron.New()
		cronScheduler.AddFunc(cfg.CronSchedule, func() {
			logging.Info("Running scheduled archive scan...")
			stats := scanAndLoad(cfg, reader, loader)
			logging.Info("Scheduled scan completed",
				zap.Int("total", stats.Total),
				zap.Int("successful", stats.Successful),
				zap.Int("failed", stats.Failed))
		})
		cronScheduler.Start()
	}

	logging.Info("Starting server", zap.String("port", cfg.HTTPPort))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}

// scanAndLoad parses every enrollment file in the data directory and
// loads the records, updating the prometheus counters.
func scanAndLoad(cfg *config.Config, reader *ingest.Reader, loader *services.LoadService) services.LoadStats {
	var stats services.LoadStats
	results, err := reader.ScanDir(cfg.DataDir)
	if err != nil {
		loader.Logger.Error("Archive scan failed", zap.Error(err))
		return stats
	}
	for _, res := range results {
		stats.Add(loader.LoadRecords(res.Records))
	}
	recordsLoadedCounter.Add(float64(stats.Successful))
	recordsFailedCounter.Add(float64(stats.Failed))
	return stats
}

func setupIngestRoutes(router *gin.Engine, cfg *config.Config, reader *ingest.Reader, loader *services.LoadService, logger *zap.Logger) {
	rg := router.Group("/ingest")
	rg.Use(apiKeyAuthMiddleware(cfg))

	// Full archive scan runs in the background; progress shows up in
	// the logs and the prometheus counters.
	rg.POST("/scan", func(c *gin.Context) {
		go func() {
			stats := scanAndLoad(cfg, reader, loader)
			logger.Info("Background scan finished",
				zap.Int("total", stats.Total),
				zap.Int("successful", stats.Successful),
				zap.Int("failed", stats.Failed))
		}()
		c.JSON(http.StatusAccepted, gin.H{"status": "scan started", "data_dir": cfg.DataDir})
	})

	rg.POST("/file", func(c *gin.Context) {
		type FileRequest struct {
			Filename string `json:"filename" binding:"required"`
			Term     string `json:"term"`
			Year     int    `json:"year"`
		}
		var req FileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		ctx := ingest.FileContext{Term: req.Term, Year: req.Year}
		if ctx.Term == "" || ctx.Year == 0 {
			derived, ok := ingest.ContextFromFilename(req.Filename)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "term and year missing and not derivable from filename"})
				return
			}
			ctx = derived
		}

		result, err := reader.ParseFile(filepath.Join(cfg.DataDir, req.Filename), ctx)
		if err != nil {
			logger.Error("File ingest failed", zap.String("file", req.Filename), zap.Error(err))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		stats := loader.LoadRecords(result.Records)
		recordsLoadedCounter.Add(float64(stats.Successful))
		recordsFailedCounter.Add(float64(stats.Failed))
		c.JSON(http.StatusOK, gin.H{
			"file":    req.Filename,
			"format":  result.Format,
			"dropped": result.Dropped,
			"stats":   stats,
		})
	})
}

// yearWindow reads the optional start_year/end_year query parameters.
func yearWindow(c *gin.Context) (*int, *int, error) {
	parse := func(name string) (*int, error) {
		v := c.Query(name)
		if v == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		return &n, nil
	}
	start, err := parse("start_year")
	if err != nil {
		return nil, nil, err
	}
	end, err := parse("end_year")
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

// buildNetwork dispatches on the network type path parameter.
func buildNetwork(builder *network.Builder, netType string, start, end *int) (*network.Graph, bool, error) {
	switch netType {
	case "bipartite":
		g, err := builder.BuildBipartite(start, end)
		return g, true, err
	case "collaboration":
		g, err := builder.BuildFacultyCollaboration(start, end)
		return g, true, err
	case "course":
		g, err := builder.BuildCourseNetwork(start, end)
		return g, true, err
	}
	return nil, false, nil
}

func setupNetworkRoutes(router *gin.Engine, cfg *config.Config, builder *network.Builder, analyzer *network.Analyzer, exporter *services.ExportService, logger *zap.Logger) {
	rg := router.Group("/networks")

	handleBuild := func(c *gin.Context) (*network.Graph, bool) {
		start, end, err := yearWindow(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year parameter"})
			return nil, false
		}
		g, known, err := buildNetwork(builder, c.Param("type"), start, end)
		if !known {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown network type", "types": []string{"bipartite", "collaboration", "course"}})
			return nil, false
		}
		if err != nil {
			logger.Error("Network build failed", zap.String("type", c.Param("type")), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "network build failed"})
			return nil, false
		}
		return g, true
	}

	rg.GET("/:type", func(c *gin.Context) {
		g, ok := handleBuild(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, network.ToNodeLink(g))
	})

	rg.GET("/:type/analysis", func(c *gin.Context) {
		g, ok := handleBuild(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, analyzer.Analyze(g))
	})

	rg.GET("/:type/communities", func(c *gin.Context) {
		g, ok := handleBuild(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, network.DetectCommunities(g))
	})

	router.POST("/networks/export", apiKeyAuthMiddleware(cfg), func(c *gin.Context) {
		type ExportRequest struct {
			Type      string `json:"type" binding:"required"`
			Format    string `json:"format" binding:"required"`
			StartYear *int   `json:"start_year"`
			EndYear   *int   `json:"end_year"`
		}
		var req ExportRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		g, known, err := buildNetwork(builder, req.Type, req.StartYear, req.EndYear)
		if !known {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown network type"})
			return
		}
		if err != nil {
			logger.Error("Network build failed", zap.String("type", req.Type), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "network build failed"})
			return
		}

		result, err := exporter.Export(g, req.Type, req.Format)
		if err != nil {
			logger.Error("Network export failed", zap.String("format", req.Format), zap.Error(err))
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

func setupAnalysisRoutes(router *gin.Engine, cfg *config.Config, builder *network.Builder, analyzer *network.Analyzer, logger *zap.Logger) {
	rg := router.Group("/analysis")

	rg.GET("/interdisciplinary", func(c *gin.Context) {
		start, end, err := yearWindow(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year parameter"})
			return
		}
		g, err := builder.BuildBipartite(start, end)
		if err != nil {
			logger.Error("Network build failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "network build failed"})
			return
		}

		result := analyzer.Interdisciplinary(g)
		if topStr := c.Query("top"); topStr != "" {
			top, err := strconv.Atoi(topStr)
			if err != nil || top < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid top parameter"})
				return
			}
			if len(result) > top {
				result = result[:top]
			}
		}
		c.JSON(http.StatusOK, gin.H{"count": len(result), "faculty": result})
	})

	rg.GET("/temporal", func(c *gin.Context) {
		start, end := cfg.StartYear, cfg.EndYear
		if v := c.Query("start"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start parameter"})
				return
			}
			start = n
		}
		if v := c.Query("end"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end parameter"})
				return
			}
			end = n
		}
		window := 5
		if v := c.Query("window"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid window parameter"})
				return
			}
			window = n
		}

		stats, err := builder.TemporalEvolution(network.Periods(start, end, window))
		if err != nil {
			logger.Error("Temporal analysis failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "temporal analysis failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"periods": stats})
	})
}

func setupReportRoutes(router *gin.Engine, cfg *config.Config, reportService *services.ReportService, logger *zap.Logger) {
	router.GET("/report", func(c *gin.Context) {
		text, err := reportService.Generate()
		if err != nil {
			logger.Error("Report generation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
			return
		}
		if _, err := reportService.Write(cfg.OutputDir); err != nil {
			logger.Warn("Report file write failed", zap.Error(err))
		}
		c.String(http.StatusOK, text)
	})
}

func setupQueryRoutes(router *gin.Engine, store *storage.Store, logger *zap.Logger) {
	router.GET("/stats", func(c *gin.Context) {
		stats, err := store.Statistics()
		if err != nil {
			logger.Error("Statistics query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	router.GET("/departments", func(c *gin.Context) {
		depts, err := store.ListDepartments()
		if err != nil {
			logger.Error("Department list failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, depts)
	})

	router.GET("/departments/:code", func(c *gin.Context) {
		stats, err := store.DepartmentStatistics(c.Param("code"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "department not found"})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	router.GET("/faculty", func(c *gin.Context) {
		name := c.Query("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name parameter required"})
			return
		}
		hits, err := store.SearchFaculty(name)
		if err != nil {
			logger.Error("Faculty search failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, hits)
	})

	router.GET("/faculty/:name/courses", func(c *gin.Context) {
		rows, err := store.FacultyCourses(c.Param("name"))
		if err != nil {
			logger.Error("Faculty courses query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, rows)
	})

	router.GET("/courses", func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "q parameter required"})
			return
		}
		hits, err := store.SearchCourses(q)
		if err != nil {
			logger.Error("Course search failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, hits)
	})

	router.GET("/courses/:code/instructors", func(c *gin.Context) {
		rows, err := store.CourseInstructors(c.Param("code"))
		if err != nil {
			logger.Error("Course instructors query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}
		c.JSON(http.StatusOK, rows)
	})
}
