package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Row is one data row of a statement CSV, keyed by lowercased header name.
type Row struct {
	Index  int // position within the file, first data row = 0
	Fields map[string]string
}

// Batch is one parsed statement file. Source is the file's position in the
// detection run and becomes part of every transaction identity.
type Batch struct {
	Source int
	Name   string
	Rows   []Row
}

// FileInfo describes a CSV file found in an import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// ReadBatch parses a statement CSV from r. The first record is treated as the
// header; header names are lowercased and trimmed. Ragged rows are tolerated
// since exports frequently pad or truncate trailing columns.
func ReadBatch(r io.Reader, source int, name string) (Batch, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return Batch{}, fmt.Errorf("reading %s: %w", name, err)
	}

	batch := Batch{Source: source, Name: name}
	if len(records) <= 1 {
		return batch, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	for i, rec := range records[1:] {
		fields := make(map[string]string, len(header))
		for j, v := range rec {
			if j >= len(header) || header[j] == "" {
				continue
			}
			fields[header[j]] = strings.TrimSpace(v)
		}
		batch.Rows = append(batch.Rows, Row{Index: i, Fields: fields})
	}
	return batch, nil
}

// ReadFiles parses each path into a Batch. Source indexes follow argument
// order, so identical invocations yield identical identities.
func ReadFiles(paths []string) ([]Batch, error) {
	var batches []Batch
	for i, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		batch, err := ReadBatch(f, i, filepath.Base(path))
		f.Close()
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// Scan returns CSV files in dir, sorted by os.ReadDir's name order.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}
