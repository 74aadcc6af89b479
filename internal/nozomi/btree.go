package nozomi

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/kailas-cloud/gallerysrc/internal/domain"
)

// B-tree layout constants of the galleries index.
const (
	// MaxNodeSize is the number of bytes fetched per node read.
	MaxNodeSize = 464
	// Order is the branching factor; every node stores Order+1 child addresses.
	Order = 16
	// MaxKeySize bounds a single key.
	MaxKeySize = 32
	// KeySize is the length of a term hash key.
	KeySize = 4

	maxDataLength = 100_000_000
	maxDataIDs    = 10_000_000
)

// DataRef addresses one id list inside the .data file.
type DataRef struct {
	Offset uint64
	Length int32
}

// Node is one decoded B-tree node.
type Node struct {
	Keys     [][]byte
	Datas    []DataRef
	Children []uint64
}

// IsLeaf reports whether every child address is zero.
func (n *Node) IsLeaf() bool {
	for _, a := range n.Children {
		if a != 0 {
			return false
		}
	}
	return true
}

// Locate finds key in the node. It returns the matching data reference when
// present, otherwise the index of the child to descend into.
func (n *Node) Locate(key []byte) (DataRef, int, bool) {
	i := 0
	cmp := -1
	for ; i < len(n.Keys); i++ {
		cmp = comparePrefix(key, n.Keys[i])
		if cmp <= 0 {
			break
		}
	}
	if cmp == 0 && i < len(n.Datas) {
		return n.Datas[i], i, true
	}
	return DataRef{}, i, false
}

// HashTerm returns the lookup key for a bare search word.
func HashTerm(term string) []byte {
	sum := sha256.Sum256([]byte(term))
	return sum[:KeySize]
}

// DecodeNode parses one node read from the index file. Trailing bytes past the
// child addresses are ignored because reads are fixed-size.
func DecodeNode(data []byte) (*Node, error) {
	r := &reader{buf: data}

	nKeys, err := r.int32()
	if err != nil {
		return nil, err
	}
	if nKeys < 0 || nKeys > Order*2 {
		return nil, domain.NewFormatError("index node", "bad key count %d", nKeys)
	}
	node := &Node{Keys: make([][]byte, 0, nKeys)}
	for range nKeys {
		size, err := r.int32()
		if err != nil {
			return nil, err
		}
		if size <= 0 || size > MaxKeySize {
			return nil, domain.NewFormatError("index node", "bad key size %d", size)
		}
		key, err := r.bytes(int(size))
		if err != nil {
			return nil, err
		}
		node.Keys = append(node.Keys, key)
	}

	nDatas, err := r.int32()
	if err != nil {
		return nil, err
	}
	if nDatas < 0 || nDatas > Order*2 {
		return nil, domain.NewFormatError("index node", "bad data count %d", nDatas)
	}
	node.Datas = make([]DataRef, 0, nDatas)
	for range nDatas {
		off, err := r.uint64()
		if err != nil {
			return nil, err
		}
		length, err := r.int32()
		if err != nil {
			return nil, err
		}
		node.Datas = append(node.Datas, DataRef{Offset: off, Length: length})
	}

	node.Children = make([]uint64, 0, Order+1)
	for range Order + 1 {
		addr, err := r.uint64()
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, addr)
	}
	return node, nil
}

// EncodeNode serialises a node in the index layout. Missing child addresses are zero-filled.
func EncodeNode(n *Node) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, int32(len(n.Keys))) //nolint:gosec // bounded by Order
	for _, k := range n.Keys {
		_ = binary.Write(&buf, binary.BigEndian, int32(len(k))) //nolint:gosec // bounded by MaxKeySize
		buf.Write(k)
	}
	_ = binary.Write(&buf, binary.BigEndian, int32(len(n.Datas))) //nolint:gosec // bounded by Order
	for _, d := range n.Datas {
		_ = binary.Write(&buf, binary.BigEndian, d.Offset)
		_ = binary.Write(&buf, binary.BigEndian, d.Length)
	}
	for i := range Order + 1 {
		var addr uint64
		if i < len(n.Children) {
			addr = n.Children[i]
		}
		_ = binary.Write(&buf, binary.BigEndian, addr)
	}
	return buf.Bytes()
}

// ValidDataRef reports whether ref is worth fetching.
func ValidDataRef(ref DataRef) bool {
	return ref.Length > 0 && ref.Length <= maxDataLength
}

// DecodeDataRecord parses an id list read from the .data file:
// a 4-byte count followed by that many ids.
func DecodeDataRecord(data []byte) ([]domain.ContentID, error) {
	r := &reader{buf: data}
	n, err := r.int32()
	if err != nil {
		return nil, err
	}
	if n <= 0 || n > maxDataIDs {
		return nil, domain.NewFormatError("index data", "bad id count %d", n)
	}
	if want := int(n)*IDSize + IDSize; len(data) != want {
		return nil, domain.NewFormatError("index data", "length %d, want %d", len(data), want)
	}
	return Decode(data[IDSize:])
}

// EncodeDataRecord is the inverse of DecodeDataRecord.
func EncodeDataRecord(ids []domain.ContentID) []byte {
	buf := make([]byte, IDSize, IDSize+len(ids)*IDSize)
	binary.BigEndian.PutUint32(buf, uint32(len(ids))) //nolint:gosec // bounded by maxDataIDs
	return append(buf, Encode(ids)...)
}

// comparePrefix compares a and b over their common prefix only.
func comparePrefix(a, b []byte) int {
	n := min(len(a), len(b))
	return bytes.Compare(a[:n], b[:n])
}

type reader struct {
	buf []byte
	pos int
}

func (r *reader) need(n int) error {
	if r.pos+n > len(r.buf) {
		return domain.NewFormatError("index", "truncated at byte %d (need %d more)", r.pos, n)
	}
	return nil
}

func (r *reader) int32() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.BigEndian.Uint32(r.buf[r.pos:])) //nolint:gosec // two's complement by format
	r.pos += 4
	return v, nil
}

func (r *reader) uint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// String renders a data reference for logs.
func (d DataRef) String() string { return fmt.Sprintf("%d+%d", d.Offset, d.Length) }
