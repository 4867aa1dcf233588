// Package zwrap opens an annotation file and, if it is compressed,
// wraps it so reads come from the decompressor and Close shuts the
// decompressor, then the underlying file.
// Compression is recognised by the magic number, not the name, so a
// plain file called x.gff3.gz still works.
// On the way through, the raw (still compressed) bytes are counted and
// hashed with blake3, so we can say exactly which file a result came
// from.

package zwrap

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/edsrzf/mmap-go"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// Compression is the kind of stream we found.
type Compression byte

const (
	Plain Compression = iota
	Gzip
	Xz
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Xz:
		return "xz"
	}
	return "plain"
}

var (
	ErrOpen       = errors.New("opening input")
	ErrDecompress = errors.New("starting decompressor")
	ErrCorrupt    = errors.New("compressed stream broken")
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	xzMagic   = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// Options for Open.
type Options struct {
	Mmap bool // map the file into memory instead of read()ing it
}

// tally counts and hashes whatever is written to it.
type tally struct {
	n int64
	h hash.Hash
}

func (t *tally) Write(p []byte) (int, error) {
	t.n += int64(len(p))
	return t.h.Write(p)
}

// srcTrap remembers the last error from the raw source, so we can
// tell a failing disk from a broken compressed stream.
type srcTrap struct {
	r   io.Reader
	err error
}

func (s *srcTrap) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		s.err = err
	}
	return n, err
}

// Fp is what we return. Read gives decompressed text.
type Fp struct {
	rdr     io.Reader
	closers []io.Closer // closed in order
	zkind   Compression
	raw     *tally
	src     *srcTrap
}

// Read makes sure we read from the decompressed stream and
// not the underlying file stream. If the decompressor fails and the
// source did not, the error wraps ErrCorrupt.
func (fp *Fp) Read(p []byte) (int, error) {
	n, err := fp.rdr.Read(p)
	if err == nil || err == io.EOF || fp.zkind == Plain || fp.src.err != nil {
		return n, err
	}
	return n, fmt.Errorf("%w: %s: %w", ErrCorrupt, fp.zkind, err)
}

// Close closes the decompressor (if there is one), then the source.
// Both are closed even if the first complains.
func (fp *Fp) Close() error {
	var errs []error
	for _, c := range fp.closers {
		if e := c.Close(); e != nil {
			errs = append(errs, e)
		}
	}
	return errors.Join(errs...)
}

// Compression says what kind of stream we found.
func (fp *Fp) Compression() Compression { return fp.zkind }

// NRaw is the number of raw bytes read from the source so far.
func (fp *Fp) NRaw() int64 { return fp.raw.n }

// Digest is the hex blake3 hash of the raw bytes read so far. After
// reading to the end, it is the hash of the file.
func (fp *Fp) Digest() string { return hex.EncodeToString(fp.raw.h.Sum(nil)) }

// Wrap takes a source like a file pointer and looks at the first few
// bytes to decide if it needs a gzip or xz reader.
// On error, the source is closed.
func Wrap(src io.ReadCloser) (*Fp, error) {
	raw := &tally{h: blake3.New()}
	trap := &srcTrap{r: src}
	br := bufio.NewReader(io.TeeReader(trap, raw))
	fp := &Fp{raw: raw, src: trap}
	head, _ := br.Peek(len(xzMagic)) // short or empty files are fine
	switch {
	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			src.Close()
			return nil, fmt.Errorf("%w: gzip: %w", ErrDecompress, err)
		}
		fp.rdr, fp.zkind = zr, Gzip
		fp.closers = []io.Closer{zr, src}
	case bytes.HasPrefix(head, xzMagic):
		xr, err := xz.NewReader(br)
		if err != nil {
			src.Close()
			return nil, fmt.Errorf("%w: xz: %w", ErrDecompress, err)
		}
		fp.rdr, fp.zkind = xr, Xz
		fp.closers = []io.Closer{src}
	default:
		fp.rdr, fp.zkind = br, Plain
		fp.closers = []io.Closer{src}
	}
	return fp, nil
}

// mapped is a memory mapped file that reads like any other.
type mapped struct {
	*bytes.Reader
	mm mmap.MMap
	f  *os.File
}

func (m *mapped) Close() error {
	return errors.Join(m.mm.Unmap(), m.f.Close())
}

// openSrc gives back the raw file. "-" means stdin.
func openSrc(path string, opts *Options) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if !opts.Mmap {
		return f, nil
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if fi.Size() == 0 { // cannot map an empty file
		return f, nil
	}
	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: mmap %s: %w", ErrOpen, path, err)
	}
	return &mapped{Reader: bytes.NewReader(mm), mm: mm, f: f}, nil
}

// Open opens path and wraps it for decompression if necessary.
// The caller must Close the result.
func Open(path string, opts *Options) (*Fp, error) {
	if opts == nil {
		opts = &Options{}
	}
	src, err := openSrc(path, opts)
	if err != nil {
		return nil, err
	}
	return Wrap(src)
}
