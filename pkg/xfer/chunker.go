package xfer

import (
	"fmt"
	"io"
)

// Chunker cuts a stream into fixed-size chunks.
// Only the last chunk may be shorter. Once io.EOF is returned the Chunker
// is exhausted; reading the data again needs a new source.
type Chunker struct {
	r    io.Reader
	size int
	done bool
}

// NewChunker creates a Chunker reading size bytes per chunk.
func NewChunker(r io.Reader, size int) *Chunker {
	return &Chunker{r: r, size: size}
}

// Next returns the next chunk or io.EOF when the stream is exhausted.
// It never returns an empty chunk.
func (c *Chunker) Next() ([]byte, error) {
	if c.done {
		return nil, io.EOF
	}
	if c.size <= 0 {
		return nil, fmt.Errorf("invalid chunk size %d", c.size)
	}
	buf := make([]byte, c.size)
	n, err := io.ReadFull(c.r, buf)
	switch err {
	case nil:
		return buf, nil
	case io.ErrUnexpectedEOF:
		c.done = true
		return buf[:n], nil
	case io.EOF:
		c.done = true
		return nil, io.EOF
	default:
		return nil, err
	}
}
