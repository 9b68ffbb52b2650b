// Package filesource provides domain.FileHandle implementations for local and in-memory files.
package filesource

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
)

// LocalFile is a file on disk. Its declared content type is sniffed from the first bytes.
type LocalFile struct {
	path        string
	size        int64
	contentType string
}

// Open stats path and detects its media type
func Open(path string) (*LocalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	detected, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detect type of %s: %w", path, err)
	}

	return &LocalFile{
		path:        path,
		size:        info.Size(),
		contentType: baseType(detected.String()),
	}, nil
}

// OpenAll opens every path, stopping at the first failure
func OpenAll(paths ...string) ([]*LocalFile, error) {
	files := make([]*LocalFile, 0, len(paths))
	for _, p := range paths {
		f, err := Open(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func (f *LocalFile) Name() string        { return filepath.Base(f.path) }
func (f *LocalFile) Size() int64         { return f.size }
func (f *LocalFile) ContentType() string { return f.contentType }
func (f *LocalFile) Path() string        { return f.path }

func (f *LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// WithContentType overrides the detected type, e.g. from a --type flag
func (f *LocalFile) WithContentType(contentType string) *LocalFile {
	c := *f
	c.contentType = contentType
	return &c
}

// Memory is a file held in memory
type Memory struct {
	name        string
	contentType string
	data        []byte
}

// NewMemory creates an in-memory file with a declared content type
func NewMemory(name, contentType string, data []byte) *Memory {
	return &Memory{name: name, contentType: contentType, data: data}
}

func (m *Memory) Name() string        { return m.name }
func (m *Memory) Size() int64         { return int64(len(m.data)) }
func (m *Memory) ContentType() string { return m.contentType }

func (m *Memory) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.data)), nil
}

// baseType drops parameters such as charset
func baseType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentType
	}
	return mediaType
}
