// Package utils holds small helpers shared by the loaders and sinks.
package utils

import (
	"archive/tar"
	"archive/zip"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// EntryFunc receives one regular file from an archive.
type EntryFunc func(name string, r io.Reader) error

// WalkArchive calls fn for every regular file in a .zip, .tar.gz/.tgz or .tar archive, in
// archive order. Nothing is extracted to disk.
func WalkArchive(src string, fn EntryFunc) error {
	switch lower := strings.ToLower(src); {
	case strings.HasSuffix(lower, ".zip"):
		return WalkZip(src, fn)
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return WalkTar(src, true, fn)
	case strings.HasSuffix(lower, ".tar"):
		return WalkTar(src, false, fn)
	default:
		return errors.New("utils: unsupported archive " + src)
	}
}

// WalkZip calls fn for every regular file in the zip archive at src.
func WalkZip(src string, fn EntryFunc) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = fn(f.Name, rc)
		// Close before the next entry rather than deferring to the end of the loop.
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// WalkTar calls fn for every regular file in the tar archive at src, gunzipping first when
// gzipped is set.
func WalkTar(src string, gzipped bool, fn EntryFunc) error {
	file, err := os.Open(src)
	if err != nil {
		return err
	}
	defer file.Close()

	var in io.Reader = file
	if gzipped {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return err
		}
		defer gz.Close()
		in = gz
	}

	tr := tar.NewReader(in)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		if err := fn(header.Name, tr); err != nil {
			return err
		}
	}
}
