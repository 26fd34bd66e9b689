package table

import (
	"io"
	"os"
)

// File is a read-only view over one SST's on-disk bytes, opened once the
// builder has finished writing.
type File struct {
	f    *os.File
	size int64
}

// CreateFile writes data to path, then reopens it read-only, mirroring the
// write-then-reopen pattern original SSTs use to avoid holding a writable
// handle past build time.
func CreateFile(path string, data []byte) (*File, error) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &File{f: f, size: int64(len(data))}, nil
}

// OpenFile opens an existing SST file read-only.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{f: f, size: info.Size()}, nil
}

// Size returns the file's byte length.
func (f *File) Size() int64 {
	return f.size
}

// ReadAt reads the exact byte range [offset, offset+length) via a positional
// read.
func (f *File) ReadAt(offset, length int64) ([]byte, error) {
	buf := make([]byte, length)
	if _, err := f.f.ReadAt(buf, offset); err != nil && err != io.EOF {
		return nil, err
	}
	return buf, nil
}

// ReadAll reads the entire file contents.
func (f *File) ReadAll() ([]byte, error) {
	return f.ReadAt(0, f.size)
}

// Close releases the underlying file handle.
func (f *File) Close() error {
	return f.f.Close()
}
