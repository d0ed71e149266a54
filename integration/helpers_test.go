package integration

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"os"
	"testing"
)

func writeGzippedWords(t *testing.T, path string, words []uint16) {
	t.Helper()
	var raw bytes.Buffer
	for _, w := range words {
		binary.Write(&raw, binary.LittleEndian, w)
	}
	var out bytes.Buffer
	zw := gzip.NewWriter(&out)
	zw.Write(raw.Bytes())
	zw.Close()
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}
