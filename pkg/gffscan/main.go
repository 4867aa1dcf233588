// 17 Oct 2026
// Read a compressed GFF3 file, keep the version, the sequence regions
// and the genes from one annotation source, then say what we found.

package gffscan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"

	"github.com/andrew-torda/gffscan/pkg/common"
	"github.com/andrew-torda/gffscan/pkg/gff"
	"github.com/andrew-torda/gffscan/pkg/output"
	"github.com/andrew-torda/gffscan/pkg/plot"
	"github.com/andrew-torda/gffscan/pkg/store"
	"github.com/andrew-torda/gffscan/pkg/summary"
	"github.com/andrew-torda/gffscan/pkg/zwrap"
)

// CmdFlag is literally command line flags after parsing
type CmdFlag struct {
	Input          string // "-" for stdin
	Source         string // annotation source column
	Type           string // feature type column
	SkipBad        bool   // skip lines that will not parse
	RequireVersion uint16 // 0 means do not check
	Mmap           bool
	Format         string // debug, summary, json, yaml, gff
	Output         string // "" or "-" for stdout
	Sqlite         string // also write to this database
	Plot           string // also draw genes per region here
	LogLevel       string
	Verbose        bool
}

// errUsage marks mistakes on the command line rather than in the data.
var errUsage = errors.New("usage")

// maxReport is how many skipped lines we complain about one by one.
const maxReport = 10

// newLogger builds the stderr logger. -v wins over the level name.
func newLogger(w io.Writer, flags *CmdFlag) (*log.Logger, error) {
	logger := log.NewWithOptions(w, log.Options{Prefix: "gffscan"})
	if flags.Verbose {
		logger.SetLevel(log.DebugLevel)
		return logger, nil
	}
	lvl := log.WarnLevel
	if flags.LogLevel != "" {
		var err error
		if lvl, err = log.ParseLevel(strings.ToLower(flags.LogLevel)); err != nil {
			return nil, fmt.Errorf("%w: log level %q: %w", errUsage, flags.LogLevel, err)
		}
	}
	logger.SetLevel(lvl)
	return logger, nil
}

// openOut returns stdout or a new file. The closer is always safe to call.
func openOut(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// readAnnotation opens, scans and closes the input.
func readAnnotation(flags *CmdFlag, logger *log.Logger) (*gff.Result, *summary.Input, error) {
	fp, err := zwrap.Open(flags.Input, &zwrap.Options{Mmap: flags.Mmap})
	if err != nil {
		return nil, nil, err
	}
	defer fp.Close()
	logger.Debug("opened input", "path", flags.Input, "compression", fp.Compression(),
		"mmap", flags.Mmap)
	policy := gff.AbortOnError
	if flags.SkipBad {
		policy = gff.SkipBadLines
	}
	opts := &gff.Options{Source: flags.Source, Type: flags.Type, Policy: policy, Logger: logger}
	res, err := gff.Scan(fp, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", flags.Input, err)
	}
	in := &summary.Input{
		Path:        flags.Input,
		Compression: fp.Compression().String(),
		NRaw:        fp.NRaw(),
		Digest:      fp.Digest(),
		NLine:       res.NLine,
		NSkipped:    len(res.Skipped),
		Meta:        res.Meta,
	}
	return res, in, nil
}

func run(flags *CmdFlag, logger *log.Logger) error {
	if flags.Format == "" {
		flags.Format = "debug"
	}
	known := false
	for _, f := range output.Formats() {
		known = known || f == flags.Format
	}
	if !known {
		return fmt.Errorf("%w: unknown format %q, want one of %v", errUsage,
			flags.Format, output.Formats())
	}

	res, in, err := readAnnotation(flags, logger)
	if err != nil {
		return err
	}
	for i, le := range res.Skipped {
		if i == maxReport {
			logger.Warn("more lines skipped", "n", len(res.Skipped)-maxReport)
			break
		}
		logger.Warn("skipped line", "line", le.Line, "err", le.Kind, "cause", le.Err)
	}
	ann := res.Annotation
	if flags.RequireVersion != 0 {
		if err := ann.CheckVersion(flags.RequireVersion); err != nil {
			return err
		}
	}

	w, closeOut, err := openOut(flags.Output)
	if err != nil {
		return err
	}
	rep := &output.Report{Annotation: ann, Input: in, Source: flags.Source, Type: flags.Type}
	if err := output.Write(flags.Format, w, rep); err != nil {
		closeOut()
		if flags.Output != "" && flags.Output != "-" {
			os.Remove(flags.Output) // do not leave half a file behind
		}
		return fmt.Errorf("writing %s output: %w", flags.Format, err)
	}
	if err := closeOut(); err != nil {
		return err
	}

	if flags.Sqlite != "" {
		ctx := context.Background()
		db, err := store.Open(ctx, flags.Sqlite)
		if err != nil {
			return err
		}
		extra := make(map[string]string, len(res.Meta)+2)
		for k, v := range res.Meta {
			extra[k] = v
		}
		extra["input"], extra["blake3"] = in.Path, in.Digest
		err = store.Export(ctx, db, ann, extra)
		if cerr := db.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("sqlite export to %s: %w", flags.Sqlite, err)
		}
		logger.Info("wrote database", "path", flags.Sqlite, "genes", len(ann.Genes))
	}
	if flags.Plot != "" {
		if err := plot.WriteFile(flags.Plot, summary.New(ann)); err != nil {
			return fmt.Errorf("plotting to %s: %w", flags.Plot, err)
		}
		logger.Info("wrote plot", "path", flags.Plot)
	}
	return nil
}

// MyMain is the top level main, after parsing the command line.
// Nothing is written to the output unless the whole input was read.
func MyMain(flags *CmdFlag) int {
	red := color.New(color.FgRed)
	logger, err := newLogger(os.Stderr, flags)
	if err != nil {
		red.Fprintln(os.Stderr, "Fatal:", err)
		return common.ExitUsageError
	}
	if err := run(flags, logger); err != nil {
		red.Fprintln(os.Stderr, "Fatal:", err)
		if errors.Is(err, errUsage) {
			return common.ExitUsageError
		}
		return common.ExitFailure
	}
	return common.ExitSuccess
}
