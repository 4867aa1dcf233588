// An error implementation that saves the line number and the
// line we were trying to read, so a failure can be reported (or
// collected and skipped) with enough context to find it in a
// multi-gigabyte file.
package gff

import (
	"errors"
	"strconv"
	"unicode/utf8"
)

// Kinds of failure. Test for them with errors.Is.
var (
	ErrDecode       = errors.New("decoding input")
	ErrLineRead     = errors.New("reading line")
	ErrVersion      = errors.New("parsing gff version")
	ErrRegionLength = errors.New("parsing sequence-region length")
	ErrGeneCoord    = errors.New("parsing gene coordinate")
	ErrAttrSplit    = errors.New("splitting gene attribute")
	ErrFieldCount   = errors.New("wrong number of columns in gene line")
	ErrBadVersion   = errors.New("unexpected or missing gff version")
)

var errNotUTF8 = errors.New("not valid UTF-8")

const maxMsgLen = 70

// LineError is a failure tied to one input line. Kind is one of the
// Err* values above, Err is whatever the lower level told us.
type LineError struct {
	Line int    // line number, from 1
	Kind error  // ErrVersion, ErrGeneCoord, ...
	Text string // The line that provoked the error
	Err  error
}

// firstPart cuts s to at most maxMsgLen bytes, but never inside a
// multi-byte character.
func firstPart(s string) string {
	if len(s) <= maxMsgLen {
		return s
	}
	l := maxMsgLen
	for l > 0 && !utf8.RuneStart(s[l]) {
		l--
	}
	return s[:l]
}

// Error gives the line number, what went wrong and the start of the
// offending line.
func (e *LineError) Error() string {
	var errmsg string
	if e.Line != 0 {
		errmsg = "Line: " + strconv.Itoa(e.Line) + " "
	}
	errmsg += e.Kind.Error()
	if e.Err != nil {
		errmsg += ": " + e.Err.Error()
	}
	if e.Text != "" {
		errmsg += "\nLine starting with\n" + firstPart(e.Text)
	}
	return errmsg
}

// Unwrap lets errors.Is see both the kind and the cause.
func (e *LineError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// lineErr builds a LineError with no line number. The scanner fills
// that in, since the parsers only ever see one line.
func lineErr(kind error, text string, err error) *LineError {
	return &LineError{Kind: kind, Text: text, Err: err}
}
