package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Write creates or truncates outputPath and writes the header followed by
// one row per record.
func Write(records []FileRecord, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileWrite, err)
	}
	if err := WriteTo(records, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrFileWrite, outputPath, err)
	}
	return nil
}

// WriteTo serializes the manifest to w.
func WriteTo(records []FileRecord, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("%w: %w", ErrFileWrite, err)
	}
	for _, r := range records {
		if err := cw.Write(r.row()); err != nil {
			return fmt.Errorf("%w: %w", ErrFileWrite, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrFileWrite, err)
	}
	return nil
}

func Read(path string) ([]FileRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFrom(f)
}

// ReadFrom parses a manifest produced by WriteTo.
func ReadFrom(r io.Reader) ([]FileRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty input", ErrBadManifest)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadManifest, err)
	}
	for i := range Header {
		if head[i] != Header[i] {
			return nil, fmt.Errorf("%w: column %d is %q, expected %q", ErrBadManifest, i+1, head[i], Header[i])
		}
	}

	out := []FileRecord{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadManifest, err)
		}
		size, err := strconv.ParseInt(row[3], 10, 64)
		if err != nil {
			line, _ := cr.FieldPos(3)
			return nil, fmt.Errorf("%w: line %d: bad file_size %q", ErrBadManifest, line, row[3])
		}
		out = append(out, FileRecord{
			RelativePath:  row[0],
			FileName:      row[1],
			FileExtension: row[2],
			FileSize:      size,
			ModTime:       row[4],
			Checksum:      row[5],
		})
	}
	return out, nil
}
