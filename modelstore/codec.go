package modelstore

import (
	"bytes"
	"context"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec compresses and decompresses artifact payloads. Booster text blobs
// compress well; which codec pays off depends on artifact size and link
// speed to the backing store.
type Codec interface {
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
}

// LZ4 is an lz4-frame Codec. Fast with moderate ratios; the usual choice
// for local and in-cluster stores.
type LZ4 struct{}

var _ Codec = LZ4{}

func (LZ4) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (LZ4) Decompress(src []byte) ([]byte, error) {
	return io.ReadAll(lz4.NewReader(bytes.NewReader(src)))
}

// Zstd is a zstandard Codec. Better ratios than LZ4 at higher CPU cost;
// worthwhile for remote object stores.
type Zstd struct{}

var _ Codec = Zstd{}

func (Zstd) Compress(src []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = enc.Close() }()
	return enc.EncodeAll(src, make([]byte, 0, len(src)/2)), nil
}

func (Zstd) Decompress(src []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(src, nil)
}

// WithCodec wraps a Store so that artifacts are compressed on Put and
// decompressed on Open. List and Delete pass through.
func WithCodec(inner Store, codec Codec) Store {
	return &codecStore{inner: inner, codec: codec}
}

type codecStore struct {
	inner Store
	codec Codec
}

func (s *codecStore) Put(ctx context.Context, name string, data []byte) error {
	compressed, err := s.codec.Compress(data)
	if err != nil {
		return err
	}
	return s.inner.Put(ctx, name, compressed)
}

func (s *codecStore) Open(ctx context.Context, name string) ([]byte, error) {
	data, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.codec.Decompress(data)
}

func (s *codecStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func (s *codecStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}
