// 17 Oct 2026

/*
Gffscan reads a GFF3 genome annotation and pulls out the format
version, the ##sequence-region lines and the gene lines from one
annotation source (ensembl_havana, unless told otherwise).

Usage:

	gffscan [flags] input

The input may be gzip or xz compressed or plain text. The compression
is recognised from the first bytes of the file, not its name. Use "-"
to read from stdin.

By default, the whole result is dumped to stdout in Go's debug format.
-f summary gives a table of genes per region and strand instead, and
-f json, -f yaml or -f gff give something other programs can read.
The gff output is GFF3 and gffscan reads it back to the same result.
Header directives such as "#!genome-build GRCh38.p14" are not part of
the result, but the summary and the --sqlite database list them.

A bad line stops everything and nothing is written. With --skip-bad,
bad lines are reported and left out. A compressed file that is cut
short or fails its checksum always stops the run.

Flags can also come from the environment (GFFSCAN_SOURCE and friends)
or from a JSON file, ~/.config/gffscan.json, with keys named like the
long flags.

Be careful. A ##sequence-region line looks like

	##sequence-region chr1 1 248956422

and the "length" we report is the last number, which is really the
end coordinate. For Ensembl files the start is always 1, so it does
not matter.
*/
package main
