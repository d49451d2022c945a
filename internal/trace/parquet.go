package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// WriteParquet writes records to path, replacing any existing file.
func WriteParquet(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create trace directory: %w", err)
	}
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create trace file: %w", err)
	}

	writer := parquet.NewGenericWriter[Record](file)
	if _, err := writer.Write(records); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write trace rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("finish trace file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close trace file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publish trace file: %w", err)
	}
	return nil
}

// ReadParquet loads every record from a trace file.
func ReadParquet(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat trace file: %w", err)
	}
	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Record](pf)
	defer reader.Close()

	records := make([]Record, 0, pf.NumRows())
	batch := make([]Record, 128)
	for {
		n, err := reader.Read(batch)
		records = append(records, batch[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read trace rows: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return records, nil
}

// FileName is the trace file name for a run.
func FileName(runID string) string {
	return "frames-" + runID + ".parquet"
}
