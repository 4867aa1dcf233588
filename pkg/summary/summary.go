// 15 Oct 2026

// Package summary counts genes per region and strand and writes the
// short report one wants to see after reading a big annotation file.
package summary

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/andrew-torda/matrix"
	"github.com/dustin/go-humanize"

	"github.com/andrew-torda/gffscan/pkg/gff"
)

// Columns of the count matrix.
const (
	colPlus = iota
	colMinus
	colOther // "." or anything unexpected
	nCol
)

// Input describes where an annotation came from. It is optional.
type Input struct {
	Path        string
	Compression string
	NRaw        int64
	Digest      string
	NLine       int
	NSkipped    int
	Meta        map[string]string // #! directives, genome-build and so on
}

// Stats has one row per name. Rows come first from the declared
// regions, in file order, then from any chromosome that only turned
// up on a gene line.
type Stats struct {
	Version uint16
	Names   []string
	Lengths []uint64 // zero if the region was never declared
	Counts  *matrix.FMatrix2d
	NGene   int
	NRegion int
	NChrom  int // distinct chromosomes carrying genes
	ndx     map[string]int
}

// New does the counting.
func New(ann *gff.Annotation) *Stats {
	s := &Stats{
		Version: ann.GffVersion,
		NGene:   len(ann.Genes),
		NRegion: len(ann.Regions),
		ndx:     make(map[string]int),
	}
	for _, r := range ann.Regions {
		if _, ok := s.ndx[r.Name]; ok {
			continue
		}
		s.ndx[r.Name] = len(s.Names)
		s.Names = append(s.Names, r.Name)
		s.Lengths = append(s.Lengths, r.Length)
	}
	for _, g := range ann.Genes {
		if _, ok := s.ndx[g.Chromosome]; !ok {
			s.ndx[g.Chromosome] = len(s.Names)
			s.Names = append(s.Names, g.Chromosome)
			s.Lengths = append(s.Lengths, 0)
		}
	}
	s.Counts = matrix.NewFMatrix2d(len(s.Names), nCol)
	seen := make(map[string]bool)
	for _, g := range ann.Genes {
		row := s.Counts.Mat[s.ndx[g.Chromosome]]
		switch g.Strand {
		case "+":
			row[colPlus]++
		case "-":
			row[colMinus]++
		default:
			row[colOther]++
		}
		seen[g.Chromosome] = true
	}
	s.NChrom = len(seen)
	return s
}

// Row returns the plus, minus and other counts for name.
func (s *Stats) Row(name string) (plus, minus, other int, ok bool) {
	i, ok := s.ndx[name]
	if !ok {
		return 0, 0, 0, false
	}
	r := s.Counts.Mat[i]
	return int(r[colPlus]), int(r[colMinus]), int(r[colOther]), true
}

// Total returns the number of genes on name, whatever the strand.
func (s *Stats) Total(name string) int {
	p, m, o, _ := s.Row(name)
	return p + m + o
}

// Write prints the report. in may be nil.
func (s *Stats) Write(w io.Writer, in *Input) error {
	if in != nil {
		fmt.Fprintf(w, "GFF file: %s (%s, %s)\n", in.Path, in.Compression,
			humanize.Bytes(uint64(in.NRaw)))
		if in.Digest != "" {
			fmt.Fprintf(w, "blake3: %s\n", in.Digest)
		}
		fmt.Fprintf(w, "%s lines read", humanize.Comma(int64(in.NLine)))
		if in.NSkipped > 0 {
			fmt.Fprintf(w, ", %s skipped", humanize.Comma(int64(in.NSkipped)))
		}
		fmt.Fprintln(w)
		keys := make([]string, 0, len(in.Meta))
		for k := range in.Meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%s: %s\n", k, in.Meta[k])
		}
	}
	if s.Version == 0 {
		fmt.Fprintln(w, "GFF version: not given")
	} else {
		fmt.Fprintln(w, "GFF version:", s.Version)
	}
	fmt.Fprintf(w, "%s genes in %d regions (%d declared)\n",
		humanize.Comma(int64(s.NGene)), s.NChrom, s.NRegion)

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "region\tlength\t+\t-\t.\t")
	for i, name := range s.Names {
		r := s.Counts.Mat[i]
		length := "-"
		if s.Lengths[i] != 0 {
			length = humanize.Comma(int64(s.Lengths[i]))
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t\n", name, length,
			int(r[colPlus]), int(r[colMinus]), int(r[colOther]))
	}
	return tw.Flush()
}
