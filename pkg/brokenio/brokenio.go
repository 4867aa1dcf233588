// brokenio is a wrapper around an io.ReadCloser which fails on
// purpose. It is for testing what happens when a compressed
// annotation file is cut short or the disk goes away under us.
// Typical use:
//	rdr = brokenio.NewReader(rdr)
//	rdr.SetFailAfter(1000)
// Everything then works as before until 1000 bytes have gone past.

package brokenio

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
)

// ErrBroken is returned by a Reader when it decides to fail.
var ErrBroken = errors.New("brokenio: injected read failure")

// A Reader passes reads through to the wrapped reader, but
// after failAfter bytes, or at random with probability probFail per
// call, it returns ErrBroken.
// If probZeroFile is set, the very first read may return io.EOF and
// nothing else, which looks like an empty file.
type Reader struct {
	rdrOrig      io.ReadCloser
	failAfter    int64 // negative means never
	probFail     float32
	probZeroFile float32
	nCalled      int
	nByte        int64
	rnd          *rand.Rand
}

// NewReader returns a Reader which, until told otherwise, never fails.
func NewReader(rIn io.ReadCloser) *Reader {
	return &Reader{
		rdrOrig:   rIn,
		failAfter: -1,
		rnd:       rand.New(rand.NewSource(1)),
	}
}

// SetFailAfter makes the reader fail once n bytes have been delivered.
func (r *Reader) SetFailAfter(n int64) { r.failAfter = n }

// SetProbFail sets the chance of any one Read failing. It must be
// between 0 and 1. We do not check.
func (r *Reader) SetProbFail(prob float32) { r.probFail = prob }

// SetProbZeroFile sets the chance that the first read returns nothing.
func (r *Reader) SetProbZeroFile(prob float32) { r.probZeroFile = prob }

// SetSeed makes the random failures repeatable with a different seed.
func (r *Reader) SetSeed(seed int64) { r.rnd = rand.New(rand.NewSource(seed)) }

// NByte is the number of bytes that have been passed through.
func (r *Reader) NByte() int64 { return r.nByte }

// Read wraps the original reader.
func (r *Reader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	r.nCalled++
	if r.nCalled == 1 && r.probZeroFile > 0 && r.rnd.Float32() < r.probZeroFile {
		return 0, io.EOF
	}
	if r.failAfter >= 0 {
		left := r.failAfter - r.nByte
		if left <= 0 {
			return 0, fmt.Errorf("%w after %d bytes", ErrBroken, r.nByte)
		}
		if int64(len(p)) > left {
			p = p[:left]
		}
	}
	if r.probFail > 0 && r.rnd.Float32() < r.probFail {
		return 0, fmt.Errorf("%w on call %d", ErrBroken, r.nCalled)
	}
	n, err = r.rdrOrig.Read(p)
	r.nByte += int64(n)
	return n, err
}

// Close wraps the original Close method.
func (r *Reader) Close() error { return r.rdrOrig.Close() }
