package gff

import "strings"

// Ensembl tags its best curated features with this source.
const (
	DefaultSource = "ensembl_havana"
	DefaultType   = "gene"
)

const (
	versionPrefix = "##gff-version"
	regionPrefix  = "##sequence-region"
	metaPrefix    = "#!"
)

// Kind says what we will do with a line.
type Kind byte

const (
	Discard Kind = iota
	VersionLine
	RegionLine
	GeneLine
	MetaLine // #!key value, kept apart from the annotation
)

func (k Kind) String() string {
	switch k {
	case VersionLine:
		return "version"
	case RegionLine:
		return "sequence-region"
	case GeneLine:
		return "gene"
	case MetaLine:
		return "meta"
	}
	return "discard"
}

// Classifier decides which parser, if any, gets a line.
type Classifier struct {
	needle string // "\t<source>\t<type>\t"
}

// NewClassifier picks out feature lines with the given source and
// type columns. Empty strings give the defaults.
func NewClassifier(source, ftype string) *Classifier {
	if source == "" {
		source = DefaultSource
	}
	if ftype == "" {
		ftype = DefaultType
	}
	return &Classifier{needle: "\t" + source + "\t" + ftype + "\t"}
}

// Classify applies the rules in order. The two ## prefixes are
// checked first since a header line could, in principle, hold tabs.
// A #! line only counts as meta if it is not a gene line.
func (c *Classifier) Classify(line string) Kind {
	switch {
	case strings.HasPrefix(line, versionPrefix):
		return VersionLine
	case strings.HasPrefix(line, regionPrefix):
		return RegionLine
	case strings.Contains(line, c.needle):
		return GeneLine
	case strings.HasPrefix(line, metaPrefix):
		return MetaLine
	}
	return Discard
}
