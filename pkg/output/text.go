package output

import (
	"io"

	"github.com/andrew-torda/gffscan/pkg/summary"
)

func init() {
	Register("debug", writeDebug)
	Register("summary", writeSummary)
}

// writeDebug dumps the whole annotation, field names and all.
func writeDebug(w io.Writer, rep *Report) error {
	return rep.Annotation.Dump(w)
}

func writeSummary(w io.Writer, rep *Report) error {
	return summary.New(rep.Annotation).Write(w, rep.Input)
}
