package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const headerLine = "relative_path,file_name,file_extension,file_size,mod_time,file_integrity_info\n"

func TestWriteToNotes(t *testing.T) {
	records := []FileRecord{{
		RelativePath:  "notes.txt",
		FileName:      "notes.txt",
		FileExtension: ".txt",
		FileSize:      5,
		ModTime:       "2024-01-02T03:04:05",
		Checksum:      "5d41402abc4b2a76b9719d911017c592",
	}}

	buf := &bytes.Buffer{}
	require.NoError(t, WriteTo(records, buf))
	assert.Equal(t, headerLine+
		"notes.txt,notes.txt,.txt,5,2024-01-02T03:04:05,5d41402abc4b2a76b9719d911017c592\n",
		buf.String())
}

func TestWriteEmptyHeaderOnly(t *testing.T) {
	out := filepath.Join(t.TempDir(), "file-manifest.csv")
	require.NoError(t, Write([]FileRecord{}, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, headerLine, string(data))

	records, err := Read(out)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestWriteReadRoundTrip(t *testing.T) {
	records := []FileRecord{
		{"plain/file.txt", "file.txt", ".txt", 12, "2024-01-02T03:04:05", "d41d8cd98f00b204e9800998ecf8427e"},
		{"with,comma/a,b.csv", "a,b.csv", ".csv", 0, "2024-01-02T03:04:05", "d41d8cd98f00b204e9800998ecf8427e"},
		{`quote"d/"x".md`, `"x".md`, ".md", 1 << 40, "1999-12-31T23:59:59", "abc"},
		{"new\nline.txt", "new\nline.txt", ".txt", 7, "2000-01-01T00:00:00", "abc"},
		{"cr\rname", "cr\rname", "", 7, "2000-01-01T00:00:00", "abc"},
		{" spaced .txt", " spaced .txt", ".txt", 3, "2000-01-01T00:00:00", "abc"},
		{"README", "README", "", 3, "2000-01-01T00:00:00", "abc"},
	}

	out := filepath.Join(t.TempDir(), "m.csv")
	require.NoError(t, Write(records, out))

	back, err := Read(out)
	require.NoError(t, err)
	assert.Equal(t, records, back)
}

func TestWriteTruncatesExisting(t *testing.T) {
	out := filepath.Join(t.TempDir(), "m.csv")
	require.NoError(t, os.WriteFile(out, []byte(strings.Repeat("old content\n", 100)), 0o644))

	require.NoError(t, Write(nil, out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, headerLine, string(data))
}

func TestWriteUnwritable(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing-dir", "m.csv")
	err := Write(nil, out)
	assert.ErrorIs(t, err, ErrFileWrite)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, os.ErrClosed }

func TestWriteToFailingWriter(t *testing.T) {
	err := WriteTo([]FileRecord{{RelativePath: "a"}}, failingWriter{})
	assert.ErrorIs(t, err, ErrFileWrite)
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestReadFromMalformed(t *testing.T) {
	tests := map[string]string{
		"empty":       "",
		"bad header":  "path,name,ext,size,mtime,sum\n",
		"short row":   headerLine + "a,a,,1\n",
		"bad size":    headerLine + "a,a,,big,2000-01-01T00:00:00,abc\n",
		"bare quote":  headerLine + "a\"b,a,,1,2000-01-01T00:00:00,abc\n",
		"few columns": "relative_path,file_name\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ReadFrom(strings.NewReader(input))
			assert.ErrorIs(t, err, ErrBadManifest)
		})
	}
}

func TestBuildWriteRead(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "notes.txt", "hello")
	writeFile(t, root, "sub dir/a,b.txt", "")

	records, err := Build(root, Options{})
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "file-manifest.csv")
	require.NoError(t, Write(records, out))

	back, err := Read(out)
	require.NoError(t, err)
	assert.Equal(t, records, back)
	require.Len(t, back, 2)
	assert.Equal(t, "sub dir/a,b.txt", back[1].RelativePath)
}
