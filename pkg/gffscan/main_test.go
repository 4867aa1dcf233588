package gffscan_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/andrew-torda/gffscan/pkg/common"
	"github.com/andrew-torda/gffscan/pkg/gff"
	. "github.com/andrew-torda/gffscan/pkg/gffscan"
	"github.com/andrew-torda/gffscan/pkg/output"
	"github.com/andrew-torda/gffscan/pkg/store"
)

var gffText = strings.Join([]string{
	"##gff-version 3",
	"##sequence-region chr1 1 1000",
	"#!genome-build GRCh38.p14",
	"chr1\tensembl_havana\tgene\t100\t200\t.\t+\t.\tID=gene1;Name=FOO",
	"chr1\tensembl_havana\texon\t100\t150\t.\t+\t.\tParent=transcript:T1",
}, "\n") + "\n"

func ExampleMyMain() {
	fname, err := common.WrtTempGz(gffText)
	if err != nil {
		log.Fatal(err)
	}
	defer os.Remove(fname)
	if MyMain(&CmdFlag{Input: fname}) != common.ExitSuccess {
		log.Fatal("broke running gffscan main")
	}
	// Output:
	// {GffVersion:3 Regions:[{Name:chr1 Length:1000}] Genes:[{Chromosome:chr1 Start:100 End:200 Strand:+ Attrs:map[ID:gene1 Name:FOO]}]}
}

func TestAllOutputs(t *testing.T) {
	fname, err := common.WrtTempGz(gffText)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	dir := t.TempDir()
	flags := &CmdFlag{
		Input:          fname,
		Format:         "json",
		Output:         filepath.Join(dir, "out.json"),
		Sqlite:         filepath.Join(dir, "out.db"),
		Plot:           filepath.Join(dir, "out.png"),
		RequireVersion: 3,
		Mmap:           true,
	}
	if r := MyMain(flags); r != common.ExitSuccess {
		t.Fatalf("got %d as return", r)
	}
	b, err := os.ReadFile(flags.Output)
	if err != nil {
		t.Fatal(err)
	}
	var ann gff.Annotation
	if err := json.Unmarshal(b, &ann); err != nil {
		t.Fatal(err)
	}
	if len(ann.Genes) != 1 || ann.Genes[0].Attrs["Name"] != "FOO" {
		t.Errorf("got %+v", ann)
	}
	for _, f := range []string{flags.Sqlite, flags.Plot} {
		if fi, err := os.Stat(f); err != nil || fi.Size() == 0 {
			t.Errorf("%s missing or empty: %v", f, err)
		}
	}
}

// A bad version line means failure and no output file at all.
func TestBadVersionNoOutput(t *testing.T) {
	fname, err := common.WrtTempGz(strings.Replace(gffText, "version 3", "version abc", 1))
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	out := filepath.Join(t.TempDir(), "out.txt")
	if r := MyMain(&CmdFlag{Input: fname, Output: out}); r != common.ExitFailure {
		t.Errorf("got %d as return", r)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("output file should not exist, stat says %v", err)
	}
}

func TestSkipBad(t *testing.T) {
	fname, err := common.WrtTemp(gffText + "chr2\tensembl_havana\tgene\t1\t2\t.\t+\t.\tIDgene2\n")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	out := filepath.Join(t.TempDir(), "out.txt")
	if r := MyMain(&CmdFlag{Input: fname, Output: out}); r != common.ExitFailure {
		t.Errorf("without skipping, got %d", r)
	}
	flags := &CmdFlag{Input: fname, Output: out, SkipBad: true, Format: "summary"}
	if r := MyMain(flags); r != common.ExitSuccess {
		t.Fatalf("with skipping, got %d", r)
	}
	b, _ := os.ReadFile(out)
	if !strings.Contains(string(b), "1 skipped") {
		t.Errorf("summary does not mention skipped line:\n%s", b)
	}
	if !strings.Contains(string(b), "genome-build: GRCh38.p14") {
		t.Errorf("summary does not give the genome build:\n%s", b)
	}
}

func TestWrongVersion(t *testing.T) {
	fname, err := common.WrtTemp(strings.Replace(gffText, "version 3", "version 2", 1))
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	out := filepath.Join(t.TempDir(), "out.txt")
	if r := MyMain(&CmdFlag{Input: fname, Output: out, RequireVersion: 3}); r != common.ExitFailure {
		t.Errorf("got %d as return", r)
	}
}

func TestUsageErrors(t *testing.T) {
	for _, flags := range []*CmdFlag{
		{Input: "whatever", Format: "fasta"},
		{Input: "whatever", LogLevel: "shouty"},
	} {
		if r := MyMain(flags); r != common.ExitUsageError {
			t.Errorf("%+v: got %d", flags, r)
		}
	}
}

func TestMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.gff3.gz")
	if r := MyMain(&CmdFlag{Input: missing}); r != common.ExitFailure {
		t.Errorf("got %d", r)
	}
}

// A writer that gives up part way must not leave its file behind.
func TestFailedWriteRemovesOutput(t *testing.T) {
	output.Register("halfway", func(w io.Writer, rep *output.Report) error {
		io.WriteString(w, "##gff-version 3\n")
		return errors.New("disk full")
	})
	fname, err := common.WrtTemp(gffText)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	out := filepath.Join(t.TempDir(), "out.gff3")
	if r := MyMain(&CmdFlag{Input: fname, Output: out, Format: "halfway"}); r != common.ExitFailure {
		t.Errorf("got %d as return", r)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("half written output should be gone, stat says %v", err)
	}
}

// -f gff output is something we can read again, and the #! lines
// end up in the database.
func TestGFFOutAndDirectives(t *testing.T) {
	fname, err := common.WrtTempGz(gffText)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	dir := t.TempDir()
	flags := &CmdFlag{Input: fname, Format: "gff",
		Output: filepath.Join(dir, "out.gff3"), Sqlite: filepath.Join(dir, "out.db")}
	if r := MyMain(flags); r != common.ExitSuccess {
		t.Fatalf("got %d as return", r)
	}
	back := &CmdFlag{Input: flags.Output, Output: filepath.Join(dir, "back.json"), Format: "json"}
	if r := MyMain(back); r != common.ExitSuccess {
		t.Fatalf("reading our own gff, got %d", r)
	}
	b, err := os.ReadFile(back.Output)
	if err != nil {
		t.Fatal(err)
	}
	var got gff.Annotation
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	res, err := gff.Scan(strings.NewReader(gffText), nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(res.Annotation, &got); diff != "" {
		t.Errorf("gff output read back (-want +got):\n%s", diff)
	}

	ctx := context.Background()
	db, err := store.Open(ctx, flags.Sqlite)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var build string
	err = db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'genome-build'`).Scan(&build)
	if err != nil || build != "GRCh38.p14" {
		t.Errorf("genome-build in meta %q %v", build, err)
	}
}
