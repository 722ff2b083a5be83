// Package backup implements the host-side compression step the
// filesystem's bootstrap and `save` command use to snapshot the image
// into /lost+found/backup.img. The reference shells out to the `zip`
// binary and re-imports the result; simdisk does the equivalent in
// process with github.com/klauspost/compress/zip, the same archive
// library family the wider example corpus reaches for over stdlib
// compression.
package backup

import (
	"bytes"
	"io"
	"os"

	"github.com/klauspost/compress/zip"
)

// Zip archives the file at imagePath into a single-entry zip file and
// returns its bytes, ready to be imported into the image as an opaque
// blob.
func Zip(imagePath string) ([]byte, error) {
	src, err := os.Open(imagePath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	entry, err := w.Create(baseName(imagePath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(entry, src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
