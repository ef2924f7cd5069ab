package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"enroll-net/models"
)

// Reader parses delimited enrollment files into canonical records.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a Reader.
func NewReader(logger *zap.Logger) *Reader {
	return &Reader{logger: logger}
}

// FileResult summarizes one parsed source file.
type FileResult struct {
	Path    string          `json:"path"`
	Format  Format          `json:"format"`
	Records []models.Record `json:"-"`
	Dropped int             `json:"dropped"`
}

// Archive file names embed the semester, e.g. fall_2019.csv or
// spring-2004_sections.txt.
var termYearPattern = regexp.MustCompile(`(?i)(fall|spring|summer|winter)[-_ ]?(\d{4})`)

// ContextFromFilename derives the term and year from a file name.
func ContextFromFilename(name string) (FileContext, bool) {
	m := termYearPattern.FindStringSubmatch(name)
	if m == nil {
		return FileContext{}, false
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return FileContext{}, false
	}
	return FileContext{Term: strings.ToLower(m[1]), Year: year}, true
}

// ParseFile reads and parses a single enrollment file.
func (r *Reader) ParseFile(path string, ctx FileContext) (*FileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return r.Parse(f, path, ctx)
}

// Parse consumes one delimited stream. The delimiter is sniffed from the
// header line (tab beats comma, matching how the registrar exported the
// older archives), the schema era is detected, and every row is parsed
// through the column map. Malformed rows are dropped and counted, never
// fatal.
func (r *Reader) Parse(src io.Reader, name string, ctx FileContext) (*FileResult, error) {
	br := bufio.NewReader(src)
	headerLine, err := br.ReadString('\n')
	if err != nil && headerLine == "" {
		return nil, fmt.Errorf("read header of %s: %w", name, err)
	}

	delim := ','
	if strings.Contains(headerLine, "\t") {
		delim = '\t'
	}

	header, err := splitHeader(headerLine, delim)
	if err != nil {
		return nil, fmt.Errorf("parse header of %s: %w", name, err)
	}

	format, known := DetectFormat(header)
	if !known {
		r.logger.Warn("Unknown schema era, assuming middle layout",
			zap.String("file", name),
			zap.Int("columns", len(header)))
	}

	cm := MapColumns(header, format)
	if !cm.Usable() {
		return nil, fmt.Errorf("%s: no department or course number column", name)
	}

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	result := &FileResult{Path: name, Format: format}
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Dropped++
			continue
		}
		if emptyRow(fields) {
			continue
		}
		rec, err := ParseRow(fields, cm, ctx)
		if err != nil {
			result.Dropped++
			continue
		}
		result.Records = append(result.Records, *rec)
	}

	r.logger.Info("Parsed enrollment file",
		zap.String("file", name),
		zap.String("format", string(format)),
		zap.String("term", ctx.Term),
		zap.Int("year", ctx.Year),
		zap.Int("records", len(result.Records)),
		zap.Int("dropped", result.Dropped))

	return result, nil
}

// ScanDir parses every .csv/.txt file in dir whose name yields a term
// and year. Files that cannot be parsed are logged and skipped so one
// bad export never blocks a full archive load.
func (r *Reader) ScanDir(dir string) ([]FileResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}

	var results []FileResult
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".csv" && ext != ".txt" {
			continue
		}
		ctx, ok := ContextFromFilename(e.Name())
		if !ok {
			r.logger.Warn("Skipping file without term and year in name",
				zap.String("file", e.Name()))
			continue
		}
		res, err := r.ParseFile(filepath.Join(dir, e.Name()), ctx)
		if err != nil {
			r.logger.Error("Failed to parse enrollment file",
				zap.String("file", e.Name()),
				zap.Error(err))
			continue
		}
		results = append(results, *res)
	}
	return results, nil
}

func splitHeader(line string, delim rune) ([]string, error) {
	hr := csv.NewReader(strings.NewReader(line))
	hr.Comma = delim
	hr.LazyQuotes = true
	hr.FieldsPerRecord = -1
	header, err := hr.Read()
	if err != nil {
		return nil, err
	}
	return header, nil
}

func emptyRow(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
