// Package source loads segment streams from disk. Streams are often kept as
// compressed fixtures, so .zst and .lz4 files are decompressed on load.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/pkg/errors"
)

// Codec is the compression of a stored stream.
type Codec uint8

const (
	None Codec = iota
	Zstd
	LZ4
)

func (c Codec) String() string {
	switch c {
	case None:
		return "none"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("codec(%d)", uint8(c))
	}
}

// CodecFor picks the codec from the file extension.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return Zstd
	case ".lz4":
		return LZ4
	default:
		return None
	}
}

// zstd encoders and decoders are safe for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		panic("source: zstd encoder: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("source: zstd decoder: " + err.Error())
	}
}

// Load reads the stream at path.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load stream")
	}
	out, err := Decompress(data, CodecFor(path))
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return out, nil
}

// Save writes data to path, compressed according to the extension.
func Save(path string, data []byte) error {
	out, err := Compress(data, CodecFor(path))
	if err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return errors.Wrap(os.WriteFile(path, out, 0o644), "save stream")
}

func Decompress(data []byte, c Codec) ([]byte, error) {
	switch c {
	case None:
		return data, nil
	case Zstd:
		out, err := zstdDecoder.DecodeAll(data, nil)
		return out, errors.Wrap(err, "zstd decompress")
	case LZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, errors.Wrap(err, "lz4 decompress")
		}
		return out, nil
	default:
		return nil, errors.Errorf("unsupported codec %s", c)
	}
}

func Compress(data []byte, c Codec) ([]byte, error) {
	switch c {
	case None:
		return data, nil
	case Zstd:
		return zstdEncoder.EncodeAll(data, nil), nil
	case LZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, errors.Wrap(err, "lz4 compress")
		}
		if err := w.Close(); err != nil {
			return nil, errors.Wrap(err, "lz4 compress")
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.Errorf("unsupported codec %s", c)
	}
}
