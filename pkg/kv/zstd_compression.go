package kv

import (
	"fmt"

	"github.com/DataDog/zstd"
)

func compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return nil, fmt.Errorf("zstd compress: %w", err)
	}
	return bbCompressed, nil
}

func decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return bb, nil
}
