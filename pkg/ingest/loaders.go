package ingest

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/newsgraph/newsgraph/pkg/types"
)

// LoadRecords reads a batch of article records from path, dispatching on the
// file extension. Supported formats are .csv, .jsonl (or .ndjson) and
// .parquet.
func LoadRecords(path string) ([]types.ArticleRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".jsonl", ".ndjson":
		return loadJSONL(path)
	case ".parquet":
		return loadParquet(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q (want .csv, .jsonl or .parquet)", filepath.Ext(path))
	}
}

func loadCSV(path string) ([]types.ArticleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header from %s: %w", path, err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []types.ArticleRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row from %s: %w", path, err)
		}
		records = append(records, types.ArticleRecord{
			ArticleID:     field(row, "article_id"),
			Source:        field(row, "source"),
			Title:         field(row, "title"),
			Content:       field(row, "content"),
			URL:           field(row, "url"),
			PublishedDate: field(row, "published_date"),
			Category:      field(row, "category"),
		})
	}
	return records, nil
}

func loadJSONL(path string) ([]types.ArticleRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var records []types.ArticleRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var record types.ArticleRecord
		if err := json.Unmarshal([]byte(text), &record); err != nil {
			return nil, fmt.Errorf("invalid JSON on line %d of %s: %w", line, path, err)
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

func loadParquet(path string) ([]types.ArticleRecord, error) {
	records, err := parquet.ReadFile[types.ArticleRecord](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file %s: %w", path, err)
	}
	return records, nil
}
