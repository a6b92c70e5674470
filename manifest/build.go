package manifest

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/bmeg/inventory/logger"
	"github.com/bmeg/inventory/util"
)

const DefaultAlgorithm = "md5"

type Options struct {
	// Algorithm selects the checksum, DefaultAlgorithm when empty.
	Algorithm string
	// Exclude holds doublestar patterns matched against root relative,
	// slash separated paths. Matching directories are not descended.
	Exclude []string
	// OnSkip is called for every file or directory left out of the
	// manifest because it could not be read.
	OnSkip func(relPath string, err error)
}

type scanner struct {
	algorithm string
	exclude   []string
	onSkip    func(string, error)
	records   []FileRecord
}

// Build walks root depth first and returns one record per readable regular
// file. Within a directory, files come before the contents of its
// subdirectories. Files that fail to stat or hash are logged and skipped.
func Build(root string, opts Options) ([]FileRecord, error) {
	algorithm := opts.Algorithm
	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}
	algorithm, err := util.ValidateAlgorithm(algorithm)
	if err != nil {
		return nil, err
	}
	for _, p := range opts.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclude pattern %q", p)
		}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDirectoryNotFound, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, root)
	}

	s := &scanner{
		algorithm: algorithm,
		exclude:   opts.Exclude,
		onSkip:    opts.OnSkip,
		records:   []FileRecord{},
	}
	// An unlistable root is fatal, unlike an unlistable subdirectory.
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot list %s: %w", ErrDirectoryNotFound, root, err)
	}

	logger.Debug("Scanning", "root", root, "algorithm", algorithm)
	s.scan(root, "", entries)
	return s.records, nil
}

func (s *scanner) walk(dir string, rel string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.skip(rel, fmt.Errorf("%w: %w", ErrFileAccess, err))
	}
	s.scan(dir, rel, entries)
}

func (s *scanner) scan(dir string, rel string, entries []os.DirEntry) {
	subdirs := []string{}
	for _, e := range entries {
		relPath := path.Join(rel, e.Name())
		if s.excluded(relPath) {
			logger.Debug("Excluding", "path", relPath)
			continue
		}
		if e.IsDir() {
			subdirs = append(subdirs, e.Name())
			continue
		}
		rec, ok, err := s.record(filepath.Join(dir, e.Name()), relPath, e.Name())
		if err != nil {
			s.skip(relPath, err)
			continue
		}
		if ok {
			s.records = append(s.records, rec)
		}
	}

	for _, d := range subdirs {
		s.walk(filepath.Join(dir, d), path.Join(rel, d))
	}
}

func (s *scanner) record(fullPath, relPath, name string) (FileRecord, bool, error) {
	// Stat follows symlinks, a dangling link fails here.
	info, err := os.Stat(fullPath)
	if err != nil {
		return FileRecord{}, false, fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	if info.IsDir() {
		logger.Debug("Not following directory link", "path", relPath)
		return FileRecord{}, false, nil
	}
	if !info.Mode().IsRegular() {
		logger.Warn("Skipping non-regular file", "path", relPath, "mode", info.Mode().String())
		return FileRecord{}, false, nil
	}

	sum, err := util.Checksum(fullPath, s.algorithm)
	if err != nil {
		return FileRecord{}, false, fmt.Errorf("%w: %w", ErrFileAccess, err)
	}

	return FileRecord{
		RelativePath:  relPath,
		FileName:      name,
		FileExtension: Extension(name),
		FileSize:      info.Size(),
		ModTime:       info.ModTime().Local().Format(TimeFormat),
		Checksum:      sum,
	}, true, nil
}

func (s *scanner) excluded(relPath string) bool {
	for _, p := range s.exclude {
		if match, err := doublestar.Match(p, relPath); match && err == nil {
			return true
		}
	}
	return false
}

func (s *scanner) skip(relPath string, err error) {
	logger.Error("Skipping", "path", relPath, "error", err)
	logger.AddSummaryError("FileSkipped", "path", relPath, "error", err)
	if s.onSkip != nil {
		s.onSkip(relPath, err)
	}
}

// Extension returns the suffix starting at the final dot of name, ignoring
// leading dots, so ".profile" has no extension.
func Extension(name string) string {
	return filepath.Ext(strings.TrimLeft(name, "."))
}
