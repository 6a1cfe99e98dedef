package bytebuf

import (
	"fmt"
	"os"
	"path"

	"github.com/edsrzf/mmap-go"
)

// MemoryMappedBuffer is a SliceBuffer whose backing region is a memory
// mapped file, so that other processes mapping the same file observe the
// same bytes.
type MemoryMappedBuffer struct {
	*SliceBuffer
	loc    string // location of the memory mapped file
	size   int    // size in bytes
	mapped mmap.MMap
	file   *os.File
}

// NewMemoryMappedBuffer creates a file of the given size at loc, replacing
// any existing file, and returns a buffer mapped over it.
func NewMemoryMappedBuffer(loc string, size int) (*MemoryMappedBuffer, error) {
	if _, err := os.Stat(loc); err == nil {
		err = os.Remove(loc)
		if err != nil {
			return nil, err
		}
	}

	// ensure destination directory exists
	dir := path.Dir(loc)
	err := os.MkdirAll(dir, 0700)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(loc, os.O_CREATE|os.O_RDWR|os.O_EXCL, 0644)
	if err != nil {
		return nil, err
	}

	if err = f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, err
	}

	return mapFile(f, loc, size)
}

// OpenMemoryMappedBuffer maps an existing file at loc, using its current
// size as the capacity.
func OpenMemoryMappedBuffer(loc string) (*MemoryMappedBuffer, error) {
	f, err := os.OpenFile(loc, os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	return mapFile(f, loc, int(info.Size()))
}

func mapFile(f *os.File, loc string, size int) (*MemoryMappedBuffer, error) {
	if size <= 0 {
		f.Close()
		return nil, fmt.Errorf("bytebuf: cannot map %v bytes", size)
	}

	m, err := mmap.MapRegion(f, size, mmap.RDWR, 0, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &MemoryMappedBuffer{
		SliceBuffer: WrapSlice(m),
		loc:         loc,
		size:        size,
		mapped:      m,
		file:        f,
	}, nil
}

// Location returns the path of the mapped file.
func (b *MemoryMappedBuffer) Location() string { return b.loc }

// Flush synchronously commits the mapped region to its backing file.
func (b *MemoryMappedBuffer) Flush() error {
	return b.mapped.Flush()
}

// Unmap deletes the memory mapping and closes the file, optionally removing
// the file itself. The buffer must not be used afterwards.
func (b *MemoryMappedBuffer) Unmap(removefile bool) error {
	if err := b.mapped.Unmap(); err != nil {
		return err
	}

	if err := b.file.Close(); err != nil {
		return err
	}

	if removefile {
		if err := os.Remove(b.loc); err != nil {
			return err
		}
	}

	return nil
}
