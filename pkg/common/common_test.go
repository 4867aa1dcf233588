package common_test

import (
	"compress/gzip"
	"io"
	"os"
	"testing"

	"github.com/andrew-torda/gffscan/pkg/common"
)

const s = "##gff-version 3\n"

func TestWrtTemp(t *testing.T) {
	fname, err := common.WrtTemp(s)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	b, err := os.ReadFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != s {
		t.Errorf("got %q", b)
	}
}

func TestWrtTempGz(t *testing.T) {
	fname, err := common.WrtTempGz(s)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	fp, err := os.Open(fname)
	if err != nil {
		t.Fatal(err)
	}
	defer fp.Close()
	zr, err := gzip.NewReader(fp)
	if err != nil {
		t.Fatal("not gzipped", err)
	}
	b, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != s {
		t.Errorf("got %q", b)
	}
}
