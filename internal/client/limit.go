package client

import (
	"errors"
	"io"
)

// errBodyTooLarge is returned by LimitErrorReader once the limit is exceeded.
var errBodyTooLarge = errors.New("response body too large")

// LimitErrorReader reads at most a fixed number of bytes and fails, instead of
// silently truncating like io.LimitedReader, when more data follows.
type LimitErrorReader struct {
	reader *io.LimitedReader
}

// NewLimitErrorReader wraps r with a byte limit.
func NewLimitErrorReader(r io.Reader, limit int64) *LimitErrorReader {
	return &LimitErrorReader{
		reader: &io.LimitedReader{R: r, N: limit},
	}
}

func (ler *LimitErrorReader) Read(p []byte) (int, error) {
	if ler.reader.N <= 0 {
		// A body exactly at the limit is fine; any further byte is not.
		var probe [1]byte
		n, err := ler.reader.R.Read(probe[:])
		if n > 0 {
			return 0, errBodyTooLarge
		}
		return 0, err
	}
	return ler.reader.Read(p)
}

// readLimited reads all of r, failing with errBodyTooLarge past limit bytes.
// A limit <= 0 disables the check.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit > 0 {
		r = NewLimitErrorReader(r, limit)
	}
	return io.ReadAll(r)
}
