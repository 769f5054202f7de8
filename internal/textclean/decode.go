package textclean

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/charmap"
)

// ErrTooLarge is returned when a body, or its decompressed form, exceeds the
// configured byte cap.
var ErrTooLarge = errors.New("input exceeds byte limit")

// DecodeBody turns a raw object body into text. It tries UTF-8 first, then a
// gzip stream holding UTF-8, and finally falls back to lossy Latin-1.
func DecodeBody(body []byte, maxBytes int64) (string, error) {
	if utf8.Valid(body) {
		return string(body), nil
	}

	inflated, err := gunzip(body, maxBytes)
	if errors.Is(err, ErrTooLarge) {
		return "", err
	}
	if err == nil && utf8.Valid(inflated) {
		return string(inflated), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(body)
	if err != nil {
		// ISO-8859-1 maps every byte, so this only guards against decoder changes.
		return string(bytes.ToValidUTF8(body, nil)), nil
	}
	return string(decoded), nil
}

func gunzip(body []byte, maxBytes int64) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(out)) > maxBytes {
		return nil, fmt.Errorf("decompressed body larger than %d bytes: %w", maxBytes, ErrTooLarge)
	}
	return out, nil
}
