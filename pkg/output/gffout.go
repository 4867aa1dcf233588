package output

import (
	"bufio"
	"bytes"
	"io"
	"sort"
	"strings"

	"github.com/biogo/biogo/io/featio/gff"
	"github.com/biogo/biogo/seq"

	ourgff "github.com/andrew-torda/gffscan/pkg/gff"
)

func init() {
	Register("gff", writeGFF)
}

// written when the input never said
const defaultVersion = 3

var strands = map[string]seq.Strand{
	"+": seq.Plus,
	"-": seq.Minus,
}

// toFeature converts a gene to a biogo feature. biogo counts from
// zero with an exclusive end, we count from one with an inclusive
// end, so only the start moves. Attributes are left out, since biogo
// writes them the GFF2 way.
func toFeature(g *ourgff.Gene, source, ftype string) *gff.Feature {
	return &gff.Feature{
		SeqName:    g.Chromosome,
		Source:     source,
		Feature:    ftype,
		FeatStart:  int(g.Start) - 1,
		FeatEnd:    int(g.End),
		FeatStrand: strands[g.Strand], // anything else is seq.None
		FeatFrame:  gff.NoFrame,
	}
}

// attrColumn gives the GFF3 form, key=value;key=value, sorted by key.
func attrColumn(attrs ourgff.Attrs) string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(attrs[k])
	}
	return sb.String()
}

// writeGFF writes the regions and genes back out as GFF3, which we
// can read again. It does not try to reproduce the input byte for byte.
// biogo writes the header and the first eight columns of each gene,
// we add the attributes.
func writeGFF(w io.Writer, rep *Report) error {
	source, ftype := rep.Source, rep.Type
	if source == "" {
		source = ourgff.DefaultSource
	}
	if ftype == "" {
		ftype = ourgff.DefaultType
	}
	version := int(rep.Annotation.GffVersion)
	if version == 0 {
		version = defaultVersion
	}
	bw := bufio.NewWriter(w)
	gw := gff.NewWriter(bw, 60, false)
	if _, err := gw.WriteMetaData(version); err != nil {
		return err
	}
	for _, r := range rep.Annotation.Regions {
		region := &gff.Feature{SeqName: r.Name, FeatStart: 0, FeatEnd: int(r.Length)}
		if _, err := gw.WriteMetaData(region); err != nil {
			return err
		}
	}
	var line bytes.Buffer
	lw := gff.NewWriter(&line, 60, false)
	for i := range rep.Annotation.Genes {
		g := &rep.Annotation.Genes[i]
		line.Reset()
		if _, err := lw.Write(toFeature(g, source, ftype)); err != nil {
			return err
		}
		line.Truncate(len(bytes.TrimRight(line.Bytes(), "\n")))
		line.WriteByte('\t')
		line.WriteString(attrColumn(g.Attrs))
		line.WriteByte('\n')
		if _, err := bw.Write(line.Bytes()); err != nil {
			return err
		}
	}
	return bw.Flush()
}
