// Package corpus loads corpus text files.
package corpus

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names the byte encoding a corpus was decoded from.
type Encoding string

const (
	UTF8        Encoding = "utf-8"
	Windows1252 Encoding = "windows-1252"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Corpus is the decoded text of one corpus file.
type Corpus struct {
	Path     string
	Text     string
	Encoding Encoding
	// Digest is the hex SHA-256 of the decoded text.
	Digest string
}

// Load reads the file at path. Valid UTF-8 is used as is; anything else is
// decoded as Windows-1252, a superset of Latin-1.
func Load(path string) (Corpus, error) {
	file, err := os.Open(path)
	if err != nil {
		return Corpus{}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only corpus.
			_ = cerr
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		return Corpus{}, fmt.Errorf("read %s: %w", path, err)
	}
	c, err := Decode(data)
	if err != nil {
		return Corpus{}, fmt.Errorf("%s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// Decode converts raw corpus bytes to text. Empty input decodes to an empty
// corpus.
func Decode(data []byte) (Corpus, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	c := Corpus{Encoding: UTF8}
	if utf8.Valid(data) {
		c.Text = string(data)
	} else {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return Corpus{}, fmt.Errorf("decode windows-1252: %w", err)
		}
		c.Text = string(decoded)
		c.Encoding = Windows1252
	}
	sum := sha256.Sum256([]byte(c.Text))
	c.Digest = hex.EncodeToString(sum[:])
	return c, nil
}

// LoadAll loads every path in order and stops at the first failure.
func LoadAll(paths []string) ([]Corpus, error) {
	out := make([]Corpus, 0, len(paths))
	for _, p := range paths {
		c, err := Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
