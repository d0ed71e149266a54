// Package program loads an SVC16 guest image from disk: a flat stream of
// little-endian 16-bit words, optionally gzip-compressed.
package program

import (
	"compress/gzip"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"
)

// Load reads path into a slice of words ready to pass to engine.New. Files
// ending in .gz are transparently decompressed first; anything else is
// read as a raw little-endian word stream. Load itself places no ceiling
// on the number of words it returns - engine.New is what truncates a
// program longer than the address space, matching how the reference
// loader reads a program to EOF with no size check of its own.
func Load(path string) ([]uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("program: open %q: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("program: gzip %q: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	words, err := readWords(r)
	if err != nil {
		return nil, fmt.Errorf("program: read %q: %w", path, err)
	}
	glog.Infof("loaded program %q: %d words", path, len(words))
	return words, nil
}

// readWords consumes r two bytes at a time until EOF. A trailing single
// byte is treated as a truncated final word and dropped, matching how the
// reference loader's read_exact silently stops on a short final chunk.
func readWords(r io.Reader) ([]uint16, error) {
	var words []uint16
	var buf [2]byte
	for {
		n, err := io.ReadFull(r, buf[:])
		if n == 2 {
			words = append(words, binary.LittleEndian.Uint16(buf[:]))
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return words, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
