// Package nozomi decodes the binary index files published by the gallery site.
//
// A .nozomi file is a flat list of 4-byte big-endian signed gallery ids.
// The galleries .index file is a B-tree of fixed-size nodes, and the .data
// file holds length-prefixed id lists addressed by the tree.
package nozomi

import (
	"encoding/binary"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
)

// IDSize is the encoded width of one gallery id.
const IDSize = 4

// Decode reads a .nozomi body into ids, preserving file order.
func Decode(data []byte) ([]domain.ContentID, error) {
	if len(data)%IDSize != 0 {
		return nil, domain.NewFormatError("nozomi", "length %d is not a multiple of %d", len(data), IDSize)
	}
	ids := make([]domain.ContentID, len(data)/IDSize)
	for i := range ids {
		ids[i] = domain.ContentID(int32(binary.BigEndian.Uint32(data[i*IDSize:]))) //nolint:gosec // two's complement by format
	}
	return ids, nil
}

// Encode is the inverse of Decode.
func Encode(ids []domain.ContentID) []byte {
	buf := make([]byte, len(ids)*IDSize)
	for i, id := range ids {
		binary.BigEndian.PutUint32(buf[i*IDSize:], uint32(id)) //nolint:gosec // two's complement by format
	}
	return buf
}
