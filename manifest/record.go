package manifest

import (
	"errors"
	"strconv"
)

// TimeFormat is the local, offset-free layout of the mod_time column.
const TimeFormat = "2006-01-02T15:04:05"

var (
	ErrDirectoryNotFound = errors.New("directory not found")
	ErrFileAccess        = errors.New("file access error")
	ErrFileWrite         = errors.New("file write error")
	ErrBadManifest       = errors.New("malformed manifest")
)

// Header is the first row of every manifest.
var Header = []string{
	"relative_path",
	"file_name",
	"file_extension",
	"file_size",
	"mod_time",
	"file_integrity_info",
}

// FileRecord is one row of the manifest.
type FileRecord struct {
	RelativePath  string `json:"relativePath"`
	FileName      string `json:"fileName"`
	FileExtension string `json:"fileExtension"`
	FileSize      int64  `json:"fileSize"`
	ModTime       string `json:"modTime"`
	Checksum      string `json:"checksum"`
}

func (r FileRecord) row() []string {
	return []string{
		r.RelativePath,
		r.FileName,
		r.FileExtension,
		strconv.FormatInt(r.FileSize, 10),
		r.ModTime,
		r.Checksum,
	}
}
