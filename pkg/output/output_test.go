package output_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/andrew-torda/gffscan/pkg/gff"
	"github.com/andrew-torda/gffscan/pkg/output"
)

var ann = &gff.Annotation{
	GffVersion: 3,
	Regions:    []gff.Region{{Name: "chr1", Length: 1000}},
	Genes: []gff.Gene{{Chromosome: "chr1", Start: 100, End: 200, Strand: "+",
		Attrs: gff.Attrs{"ID": "gene1", "Name": "FOO"}}},
}

func write(t *testing.T, format string) string {
	t.Helper()
	var b bytes.Buffer
	if err := output.Write(format, &b, &output.Report{Annotation: ann}); err != nil {
		t.Fatal(format, err)
	}
	return b.String()
}

func TestFormats(t *testing.T) {
	want := []string{"debug", "gff", "json", "summary", "yaml"}
	if diff := cmp.Diff(want, output.Formats()); diff != "" {
		t.Errorf("formats (-want +got):\n%s", diff)
	}
}

func TestUnknownFormat(t *testing.T) {
	var b bytes.Buffer
	err := output.Write("fasta", &b, &output.Report{Annotation: ann})
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("want unknown format error, got %v", err)
	}
}

func TestDebug(t *testing.T) {
	got := write(t, "debug")
	want := "{GffVersion:3 Regions:[{Name:chr1 Length:1000}] Genes:[{Chromosome:chr1 Start:100 End:200 Strand:+ Attrs:map[ID:gene1 Name:FOO]}]}\n"
	if got != want {
		t.Errorf("got %q", got)
	}
}

func TestJSON(t *testing.T) {
	var back gff.Annotation
	if err := json.Unmarshal([]byte(write(t, "json")), &back); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(ann, &back); diff != "" {
		t.Errorf("json (-want +got):\n%s", diff)
	}
}

func TestYAML(t *testing.T) {
	out := write(t, "yaml")
	for _, want := range []string{"gff_version: 3", "chromosome: chr1", "Name: FOO"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestGFF(t *testing.T) {
	out := write(t, "gff")
	if !strings.HasPrefix(out, "##gff-version 3\n") {
		t.Errorf("version header missing from\n%s", out)
	}
	if !strings.Contains(out, "\tID=gene1;Name=FOO\n") {
		t.Errorf("attributes not key=value in\n%s", out)
	}
}

// What we write as gff must read back as the same annotation.
func TestGFFReadBack(t *testing.T) {
	two := &gff.Annotation{
		GffVersion: 3,
		Regions:    []gff.Region{{Name: "chr1", Length: 1000}, {Name: "chrX", Length: 5}},
		Genes: []gff.Gene{
			{Chromosome: "chr1", Start: 100, End: 200, Strand: "+",
				Attrs: gff.Attrs{"ID": "gene1", "Name": "FOO"}},
			{Chromosome: "chrX", Start: 1, End: 1, Strand: "-",
				Attrs: gff.Attrs{"gene_id": "ENSG01", "biotype": "lncRNA", "version": "2"}},
			{Chromosome: "chrX", Start: 2, End: 4, Strand: ".",
				Attrs: gff.Attrs{"ID": "gene3"}},
		},
	}
	for _, a := range []*gff.Annotation{ann, two} {
		var b bytes.Buffer
		if err := output.Write("gff", &b, &output.Report{Annotation: a}); err != nil {
			t.Fatal(err)
		}
		res, err := gff.Scan(&b, nil)
		if err != nil {
			t.Fatalf("reading our own gff: %v", err)
		}
		if diff := cmp.Diff(a, res.Annotation); diff != "" {
			t.Errorf("read back (-want +got):\n%s", diff)
		}
	}
}

// With no version line in, we still write one.
func TestGFFNoVersion(t *testing.T) {
	var b bytes.Buffer
	noV := &gff.Annotation{Genes: ann.Genes}
	if err := output.Write("gff", &b, &output.Report{Annotation: noV}); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(b.String(), "##gff-version 3\n") {
		t.Errorf("got\n%s", b.String())
	}
}

func TestSummary(t *testing.T) {
	if out := write(t, "summary"); !strings.Contains(out, "1 genes in 1 regions") {
		t.Errorf("got\n%s", out)
	}
}
