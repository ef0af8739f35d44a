// Package archive unpacks downloaded artifacts. The container format is
// sniffed from the leading bytes, never from a file name.
package archive

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
	"github.com/ulikunitz/xz"
	"github.com/zhyee/zipstream"
)

type Format string

const (
	Unknown Format = "unknown"
	Gzip    Format = "gzip"
	Xz      Format = "xz"
	Bzip2   Format = "bzip2"
	Zstd    Format = "zstd"
	Zip     Format = "zip"
	Tar     Format = "tar"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	ErrUnsafePath        = errors.New("archive entry escapes destination")
)

const (
	sniffLen     = 262
	tarMagicOff  = 257
	maxEntrySize = 4 << 30
)

var magics = []struct {
	format Format
	prefix []byte
}{
	{Gzip, []byte{0x1f, 0x8b}},
	{Xz, []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}},
	{Bzip2, []byte("BZh")},
	{Zstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
	{Zip, []byte("PK\x03\x04")},
}

// Detect reports the format of header, the first bytes of a stream.
func Detect(header []byte) Format {
	for _, m := range magics {
		if bytes.HasPrefix(header, m.prefix) {
			return m.format
		}
	}
	if len(header) >= tarMagicOff+5 && string(header[tarMagicOff:tarMagicOff+5]) == "ustar" {
		return Tar
	}
	return Unknown
}

// Extract unpacks r into dest, which must already exist. Compressed tar
// streams (gzip, xz, bzip2, zstd), plain tar and zip (jar, whl) are
// supported.
func Extract(r io.Reader, dest string) error {
	br := bufio.NewReaderSize(r, 64*1024)
	header, _ := br.Peek(sniffLen)

	switch format := Detect(header); format {
	case Zip:
		return extractZip(br, dest)
	case Tar:
		return extractTar(br, dest)
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return fmt.Errorf("open gzip stream: %w", err)
		}
		defer zr.Close()
		return extractCompressedTar(zr, dest, format)
	case Xz:
		zr, err := xz.NewReader(br)
		if err != nil {
			return fmt.Errorf("open xz stream: %w", err)
		}
		return extractCompressedTar(zr, dest, format)
	case Bzip2:
		return extractCompressedTar(bzip2.NewReader(br), dest, format)
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return fmt.Errorf("open zstd stream: %w", err)
		}
		defer zr.Close()
		return extractCompressedTar(zr, dest, format)
	default:
		return ErrUnsupportedFormat
	}
}

func extractCompressedTar(r io.Reader, dest string, outer Format) error {
	br := bufio.NewReaderSize(r, 64*1024)
	header, _ := br.Peek(sniffLen)
	if Detect(header) != Tar {
		return fmt.Errorf("%w: %s stream does not contain a tar archive", ErrUnsupportedFormat, outer)
	}
	return extractTar(br, dest)
}

func extractTar(r io.Reader, dest string) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar entry: %w", err)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			target, err := safeJoin(dest, hdr.Name)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			target, err := safeJoin(dest, hdr.Name)
			if err != nil {
				return err
			}
			if err := writeFile(target, tr, hdr.FileInfo().Mode()); err != nil {
				return err
			}
		case tar.TypeXGlobalHeader:
			// pax_global_header, nothing to write
		default:
			log.Debug().Str("entry", hdr.Name).Int("type", int(hdr.Typeflag)).Msg("skipping unsupported tar entry")
		}
	}
}

func extractZip(r io.Reader, dest string) error {
	zr := zipstream.NewReader(r)
	for {
		entry, err := zr.GetNextEntry()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read zip entry: %w", err)
		}

		target, err := safeJoin(dest, entry.Name)
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			return fmt.Errorf("open zip entry %s: %w", entry.Name, err)
		}
		err = writeFile(target, rc, entry.Mode())
		rc.Close()
		if err != nil {
			return err
		}
	}
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	perm := mode.Perm()
	if perm == 0 {
		perm = 0644
	}
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm|0200)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(r, maxEntrySize)); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}

// safeJoin resolves name below dest and rejects anything that would land
// outside it.
func safeJoin(dest, name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	if name == "" || filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	target := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, name)
	}
	return target, nil
}
