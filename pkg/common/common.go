// 14 Oct 2026

// Package common holds exit codes and the temporary file helpers that
// the tests lean on.
package common

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
)

const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

// WrtTemp writes a string to a temporary file and returns
// the filename. It is used all over the place in testing.
func WrtTemp(s string) (string, error) {
	f_tmp, err := os.CreateTemp("", "_del_me_testing")
	if err != nil {
		return "", fmt.Errorf("tempfile fail")
	}

	if _, err := io.WriteString(f_tmp, s); err != nil {
		f_tmp.Close()
		return "", fmt.Errorf("writing string to temp file %v", f_tmp.Name())
	}
	name := f_tmp.Name()
	f_tmp.Close()
	return name, nil
}

// WrtTempGz is like WrtTemp, but the file is gzip compressed
// the way Ensembl ships its annotation.
func WrtTempGz(s string) (string, error) {
	f_tmp, err := os.CreateTemp("", "_del_me_testing*.gz")
	if err != nil {
		return "", fmt.Errorf("tempfile fail")
	}
	name := f_tmp.Name()
	zw := gzip.NewWriter(f_tmp)
	if _, err := io.WriteString(zw, s); err != nil {
		f_tmp.Close()
		return "", fmt.Errorf("writing compressed string to %v", name)
	}
	if err := zw.Close(); err != nil {
		f_tmp.Close()
		return "", fmt.Errorf("closing compressor on %v: %w", name, err)
	}
	if err := f_tmp.Close(); err != nil {
		return "", err
	}
	return name, nil
}
