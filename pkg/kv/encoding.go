package kv

import (
	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

// GridMeta persisted grid header: dimensions and the blocked cell list.
// Terrain bytes are stored row by row under separate keys.
type GridMeta struct {
	Width   int32
	Height  int32
	Blocked []int32
}

func EncodeMeta(m GridMeta) ([]byte, error) {
	return binary.Marshal(&m)
}

func DecodeMeta(bb []byte) (GridMeta, error) {
	var m GridMeta
	err := binary.Unmarshal(bb, &m)
	return m, err
}

func Compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func Decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}

	return bb, nil
}
