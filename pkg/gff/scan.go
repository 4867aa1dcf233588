package gff

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/andrew-torda/gffscan/pkg/zwrap"
)

// Policy says what to do when a line will not parse.
type Policy byte

const (
	AbortOnError Policy = iota // first bad line ends the run, no result
	SkipBadLines               // note the error, carry on
)

// Options contains the choices passed in from the caller.
// The zero value reads ensembl_havana genes and stops at the first
// bad line.
type Options struct {
	Source string
	Type   string
	Policy Policy
	Logger *log.Logger // nil means quiet
}

// Result is what a scan gives back. Skipped is only filled when
// running with SkipBadLines. Meta holds the #! directives, such as
// genome-build, with the last one winning if a key comes twice.
type Result struct {
	Annotation *Annotation
	Meta       map[string]string
	Skipped    []*LineError
	NLine      int
}

const readBufSize = 64 * 1024

// readLine returns the next line without its newline (or \r\n).
// At the end of input it returns io.EOF and an empty string.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err == io.EOF && len(line) > 0 {
		err = nil // last line had no newline
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, err
}

// Scan reads lines from rdr until the end, classifying each and
// feeding it to the right parser. Read and decode failures always
// end the scan. A broken compressed stream from zwrap counts as a
// decode failure. Parse failures end it under AbortOnError and are
// collected under SkipBadLines.
func Scan(rdr io.Reader, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cls := NewClassifier(opts.Source, opts.Type)
	ann := &Annotation{}
	res := &Result{Annotation: ann, Meta: make(map[string]string)}
	br := bufio.NewReaderSize(rdr, readBufSize)

	for {
		line, err := readLine(br)
		if err == io.EOF {
			break
		}
		res.NLine++
		if err != nil {
			kind := ErrLineRead
			if errors.Is(err, zwrap.ErrCorrupt) {
				kind = ErrDecode
			}
			return nil, &LineError{Line: res.NLine, Kind: kind, Err: err}
		}
		if !utf8.ValidString(line) {
			return nil, &LineError{Line: res.NLine, Kind: ErrDecode, Err: errNotUTF8, Text: line}
		}

		var perr error
		switch cls.Classify(line) {
		case VersionLine:
			old := ann.GffVersion
			if perr = ann.SetVersion(line); perr == nil && old != 0 && old != ann.GffVersion {
				logger.Warn("gff version overwritten", "line", res.NLine,
					"was", old, "now", ann.GffVersion)
			}
		case RegionLine:
			perr = ann.AddRegion(line)
		case GeneLine:
			perr = ann.AddGene(line)
		case MetaLine:
			if k, v, ok := ParseMeta(line); ok {
				res.Meta[k] = v
			}
		}
		if perr == nil {
			continue
		}
		var le *LineError
		if !errors.As(perr, &le) {
			le = &LineError{Kind: perr, Text: line}
		}
		le.Line = res.NLine
		if opts.Policy == AbortOnError {
			return nil, le
		}
		logger.Debug("skipping line", "line", le.Line, "err", le.Kind)
		res.Skipped = append(res.Skipped, le)
	}
	logger.Debug("scan done", "lines", res.NLine, "regions", len(ann.Regions),
		"genes", len(ann.Genes), "skipped", len(res.Skipped))
	return res, nil
}
