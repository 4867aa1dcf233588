// 16 Oct 2026

// Package output writes an annotation in one of several formats.
// Each format registers a writer under its name in an init() block,
// so adding a format does not mean touching a switch statement.
package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/andrew-torda/gffscan/pkg/gff"
	"github.com/andrew-torda/gffscan/pkg/summary"
)

// Report is everything a writer might want.
// Input may be nil.
type Report struct {
	Annotation *gff.Annotation
	Input      *summary.Input
	Source     string // annotation source the genes were picked by
	Type       string
}

// WriterFunc writes a Report to w.
type WriterFunc func(w io.Writer, rep *Report) error

var writers = map[string]WriterFunc{}

// Register adds or replaces the writer for format (last wins).
func Register(format string, fn WriterFunc) { writers[format] = fn }

// Formats lists the registered names, sorted.
func Formats() []string {
	names := make([]string, 0, len(writers))
	for k := range writers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Write looks up format and calls its writer.
func Write(format string, w io.Writer, rep *Report) error {
	fn, ok := writers[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (have %v)", format, Formats())
	}
	return fn(w, rep)
}
