package compress

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Decode 依 Content-Encoding 解壓回應 body；沒有標頭時以 magic number 判斷，都不符合則原樣回傳
func Decode(raw []byte, h http.Header) ([]byte, error) {
	enc := ""
	if h != nil {
		enc = strings.ToLower(strings.TrimSpace(h.Get("Content-Encoding")))
	}
	switch enc {
	case "gzip", "x-gzip":
		return gunzip(raw)
	case "deflate":
		return inflate(raw)
	case "zstd":
		return unzstd(raw)
	case "br":
		return unbrotli(raw)
	case "", "identity":
		switch {
		case IsGzip(raw):
			return gunzip(raw)
		case IsZlib(raw):
			return inflate(raw)
		case IsZstd(raw):
			return unzstd(raw)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", enc)
	}
}

func gunzip(b []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func inflate(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

func unzstd(b []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(b, nil)
}

func unbrotli(b []byte) ([]byte, error) {
	return io.ReadAll(brotli.NewReader(bytes.NewReader(b)))
}

// ---- magic number ----

func IsGzip(b []byte) bool { return len(b) > 2 && b[0] == 0x1f && b[1] == 0x8b }

func IsZlib(b []byte) bool {
	return len(b) >= 2 && b[0] == 0x78 && (b[1] == 0x01 || b[1] == 0x9C || b[1] == 0xDA)
}

func IsZstd(b []byte) bool {
	return len(b) >= 4 && b[0] == 0x28 && b[1] == 0xB5 && b[2] == 0x2F && b[3] == 0xFD
}
