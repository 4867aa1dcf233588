// 14 Oct 2026

// Package gff pulls a small subset out of a GFF3 annotation file:
// the format version, the declared sequence regions and the gene
// lines from one annotation source. Everything else is ignored.
// There is no attempt to check that a file really follows the GFF3
// rules.
package gff

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// GFF3 columns, counting from zero.
const (
	FieldSeqid = iota
	FieldSource
	FieldType
	FieldStart
	FieldEnd
	FieldScore
	FieldStrand
	FieldPhase
	FieldAttributes
	nField
)

// Attrs are the key=value pairs from the last column of a gene line.
type Attrs map[string]string

// Region is a ##sequence-region declaration.
// Length is whatever was in the fourth whitespace separated token,
// which is really the end coordinate of the region.
type Region struct {
	Name   string `json:"name" yaml:"name"`
	Length uint64 `json:"length" yaml:"length"`
}

// Gene is one gene line. Start and End are copied as they are, so
// they are 1-based and inclusive.
type Gene struct {
	Chromosome string `json:"chromosome" yaml:"chromosome"`
	Start      int32  `json:"start" yaml:"start"`
	End        int32  `json:"end" yaml:"end"`
	Strand     string `json:"strand" yaml:"strand"`
	Attrs      Attrs  `json:"attrs" yaml:"attrs"`
}

// Annotation is everything we keep from a file.
// GffVersion of zero means no version line was seen.
type Annotation struct {
	GffVersion uint16   `json:"gff_version" yaml:"gff_version"`
	Regions    []Region `json:"regions" yaml:"regions"`
	Genes      []Gene   `json:"genes" yaml:"genes"`
}

// Dump writes the whole annotation in Go's %+v form.
func (a *Annotation) Dump(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%+v\n", *a)
	return err
}

// ParseVersion takes a full ##gff-version line and returns the number.
// The line is split on single spaces, so the number must follow
// exactly one blank.
func ParseVersion(line string) (uint16, error) {
	tokens := strings.Split(line, " ")
	if len(tokens) < 2 {
		return 0, lineErr(ErrVersion, line, fmt.Errorf("no version number"))
	}
	v, err := strconv.ParseUint(tokens[1], 10, 16)
	if err != nil {
		return 0, lineErr(ErrVersion, line, err)
	}
	return uint16(v), nil
}

// ParseRegion reads "##sequence-region name start end". The start is
// ignored and the end becomes the Length.
func ParseRegion(line string) (Region, error) {
	f := strings.Fields(line)
	if len(f) < 4 {
		return Region{}, lineErr(ErrRegionLength, line,
			fmt.Errorf("want 4 fields, got %d", len(f)))
	}
	length, err := strconv.ParseUint(f[3], 10, 64)
	if err != nil {
		return Region{}, lineErr(ErrRegionLength, line, err)
	}
	return Region{Name: f[1], Length: length}, nil
}

// ParseAttrs breaks up "a=b;c=d". A token without an "=" is an error.
// Only the text up to a second "=" is kept as the value, so
// "Note=x=y" gives "x".
func ParseAttrs(s string) (Attrs, error) {
	tokens := strings.Split(s, ";")
	attrs := make(Attrs, len(tokens))
	for _, tok := range tokens {
		key, rest, found := strings.Cut(tok, "=")
		if !found {
			return nil, lineErr(ErrAttrSplit, s, fmt.Errorf("no '=' in %q", tok))
		}
		value, _, _ := strings.Cut(rest, "=")
		attrs[key] = value
	}
	return attrs, nil
}

// ParseGene reads a nine column, tab separated feature line.
func ParseGene(line string) (Gene, error) {
	parts := strings.Split(line, "\t")
	if len(parts) != nField {
		return Gene{}, lineErr(ErrFieldCount, line,
			fmt.Errorf("want %d columns, got %d", nField, len(parts)))
	}
	start, err := strconv.ParseInt(parts[FieldStart], 10, 32)
	if err != nil {
		return Gene{}, lineErr(ErrGeneCoord, line, fmt.Errorf("start: %w", err))
	}
	end, err := strconv.ParseInt(parts[FieldEnd], 10, 32)
	if err != nil {
		return Gene{}, lineErr(ErrGeneCoord, line, fmt.Errorf("end: %w", err))
	}
	attrs, err := ParseAttrs(parts[FieldAttributes])
	if err != nil {
		if le, ok := err.(*LineError); ok {
			le.Text = line
		}
		return Gene{}, err
	}
	return Gene{
		Chromosome: parts[FieldSeqid],
		Start:      int32(start),
		End:        int32(end),
		Strand:     parts[FieldStrand],
		Attrs:      attrs,
	}, nil
}

// ParseMeta splits a "#!genome-build GRCh38.p14" directive into key
// and value. The value is the rest of the line with runs of blanks
// squeezed. ok is false if there is no key.
func ParseMeta(line string) (key, value string, ok bool) {
	f := strings.Fields(strings.TrimPrefix(line, metaPrefix))
	if len(f) == 0 {
		return "", "", false
	}
	return f[0], strings.Join(f[1:], " "), true
}

// SetVersion parses a version line and overwrites whatever we had.
func (a *Annotation) SetVersion(line string) error {
	v, err := ParseVersion(line)
	if err != nil {
		return err
	}
	a.GffVersion = v
	return nil
}

// AddRegion parses a sequence-region line and appends it.
func (a *Annotation) AddRegion(line string) error {
	r, err := ParseRegion(line)
	if err != nil {
		return err
	}
	a.Regions = append(a.Regions, r)
	return nil
}

// AddGene parses a gene line and appends it.
func (a *Annotation) AddGene(line string) error {
	g, err := ParseGene(line)
	if err != nil {
		return err
	}
	a.Genes = append(a.Genes, g)
	return nil
}

// CheckVersion returns ErrBadVersion unless the file declared
// version want.
func (a *Annotation) CheckVersion(want uint16) error {
	if a.GffVersion == want {
		return nil
	}
	if a.GffVersion == 0 {
		return fmt.Errorf("%w: no ##gff-version line, want %d", ErrBadVersion, want)
	}
	return fmt.Errorf("%w: got %d, want %d", ErrBadVersion, a.GffVersion, want)
}
