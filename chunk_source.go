package parquet

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// ChunkSource is the environment capability the decode pipeline consumes
// to pull raw bytes: column chunks, page headers and bodies, and the
// trailing footer are all read through it. Implementations must treat
// ReadBytes as atomic from the caller's perspective; PageReader and
// ColumnChunkDecoder never issue overlapping reads against the same
// ChunkSource concurrently, but nothing else about their use of a shared
// instance is synchronized.
type ChunkSource interface {
	// Length returns the total number of bytes available from this
	// source.
	Length() int64

	// ReadBytes returns the length bytes starting at position. Reading
	// past end-of-file clamps the result to the bytes actually
	// available. It fails with ErrIO if position is negative or
	// greater than or equal to Length, except when length is 0.
	ReadBytes(position int64, length int) ([]byte, error)
}

// FileChunkSource is a ChunkSource backed by an os.File, or any type
// implementing the same ReadAt/Close/Stat surface. Positional reads are
// protected by a mutex so a single handle can be shared safely across
// column decoders that are not themselves reading concurrently.
type FileChunkSource struct {
	mu   sync.Mutex
	file *os.File
	size int64
}

// OpenFileChunkSource opens path and wraps it as a ChunkSource.
func OpenFileChunkSource(path string) (*FileChunkSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrIO, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrIO, err)
	}
	return &FileChunkSource{file: f, size: info.Size()}, nil
}

// NewFileChunkSource wraps an already-open file whose size is known.
func NewFileChunkSource(f *os.File, size int64) *FileChunkSource {
	return &FileChunkSource{file: f, size: size}
}

func (s *FileChunkSource) Length() int64 { return s.size }

func (s *FileChunkSource) ReadBytes(position int64, length int) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	if position < 0 || position >= s.size {
		return nil, fmt.Errorf("%w: read at position %d, source length %d", ErrIO, position, s.size)
	}

	if available := s.size - position; int64(length) > available {
		length = int(available)
	}

	buf := make([]byte, length)

	s.mu.Lock()
	_, err := s.file.ReadAt(buf, position)
	s.mu.Unlock()

	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %s", ErrIO, err)
	}
	return buf, nil
}

// Close releases the underlying file handle.
func (s *FileChunkSource) Close() error {
	return s.file.Close()
}

// MemoryChunkSource is a ChunkSource backed by an in-memory byte slice,
// useful for tests and for files that have already been read in full.
type MemoryChunkSource struct {
	data []byte
}

// NewMemoryChunkSource wraps data as a ChunkSource. data is not copied;
// callers must not mutate it afterward.
func NewMemoryChunkSource(data []byte) *MemoryChunkSource {
	return &MemoryChunkSource{data: data}
}

func (s *MemoryChunkSource) Length() int64 { return int64(len(s.data)) }

func (s *MemoryChunkSource) ReadBytes(position int64, length int) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	size := int64(len(s.data))
	if position < 0 || position >= size {
		return nil, fmt.Errorf("%w: read at position %d, source length %d", ErrIO, position, size)
	}
	end := position + int64(length)
	if end > size {
		end = size
	}
	return s.data[position:end], nil
}

// readerAtChunkSource adapts any io.ReaderAt with a known size to a
// ChunkSource, for callers that already manage their own handle (e.g. an
// io.SectionReader scoped to one column chunk).
type readerAtChunkSource struct {
	mu   sync.Mutex
	r    io.ReaderAt
	size int64
}

// NewReaderAtChunkSource adapts r to a ChunkSource. Every read against r
// is serialized with a mutex, whatever r's own concurrency guarantees.
func NewReaderAtChunkSource(r io.ReaderAt, size int64) ChunkSource {
	return &readerAtChunkSource{r: r, size: size}
}

func (s *readerAtChunkSource) Length() int64 { return s.size }

func (s *readerAtChunkSource) ReadBytes(position int64, length int) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	if position < 0 || position >= s.size {
		return nil, fmt.Errorf("%w: read at position %d, source length %d", ErrIO, position, s.size)
	}
	if available := s.size - position; int64(length) > available {
		length = int(available)
	}

	buf := make([]byte, length)
	s.mu.Lock()
	_, err := s.r.ReadAt(buf, position)
	s.mu.Unlock()

	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("%w: %s", ErrIO, err)
	}
	return buf, nil
}
