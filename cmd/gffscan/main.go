// 17 Oct 2026

package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/andrew-torda/gffscan/pkg/gffscan"
)

// CLI is the command line as kong sees it.
type CLI struct {
	Input string `arg:"" help:"GFF3 file (gzip, xz or plain), - for stdin."`

	Source         string `default:"ensembl_havana" env:"GFFSCAN_SOURCE" help:"Annotation source column to pick genes by."`
	Type           string `default:"gene" env:"GFFSCAN_TYPE" help:"Feature type column to pick."`
	SkipBad        bool   `name:"skip-bad" env:"GFFSCAN_SKIP_BAD" help:"Report and skip lines that do not parse instead of stopping."`
	RequireVersion uint16 `name:"require-version" default:"0" env:"GFFSCAN_REQUIRE_VERSION" help:"Fail unless the file declares this gff version (0 = do not check)."`
	Mmap           bool   `env:"GFFSCAN_MMAP" help:"Map the input file into memory instead of reading it."`
	Format         string `short:"f" default:"debug" enum:"debug,summary,json,yaml,gff" env:"GFFSCAN_FORMAT" help:"Output format (${enum})."`
	Output         string `short:"o" default:"-" help:"Write output here."`
	Sqlite         string `env:"GFFSCAN_SQLITE" help:"Also copy the result into this SQLite database."`
	Plot           string `help:"Also draw genes per region to this PNG file."`
	LogLevel       string `name:"log-level" default:"warn" enum:"debug,info,warn,error" env:"GFFSCAN_LOG_LEVEL" help:"Log level (${enum})."`
	Verbose        bool   `short:"v" help:"Debug logging, same as --log-level=debug."`

	Config kong.ConfigFlag `help:"Read flags from this JSON file."`
}

func (c *CLI) flags() *gffscan.CmdFlag {
	return &gffscan.CmdFlag{
		Input:          c.Input,
		Source:         c.Source,
		Type:           c.Type,
		SkipBad:        c.SkipBad,
		RequireVersion: c.RequireVersion,
		Mmap:           c.Mmap,
		Format:         c.Format,
		Output:         c.Output,
		Sqlite:         c.Sqlite,
		Plot:           c.Plot,
		LogLevel:       c.LogLevel,
		Verbose:        c.Verbose,
	}
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("gffscan"),
		kong.Description("Pull the version, sequence regions and genes out of a GFF3 file."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "~/.config/gffscan.json"),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)
	os.Exit(gffscan.MyMain(cli.flags()))
}
