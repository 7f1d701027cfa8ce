package frame

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/chunkproto/chunkcrypt/chunkerr"
)

// SerializeMetadata writes m as exactly MetadataLen big-endian bytes. Name
// is truncated to at most NameLen bytes and zero-padded; it never fails
// except on a caller bug (name longer than NameLen after truncation, which
// cannot happen given the truncation below).
func SerializeMetadata(m Metadata) []byte {
	out := make([]byte, 0, MetadataLen)
	var tmp8 [8]byte

	binary.BigEndian.PutUint64(tmp8[:], m.SchemaVersion)
	out = append(out, tmp8[:]...)

	out = append(out, byte(m.MessageType))
	out = append(out, m.Hash[:]...)

	binary.BigEndian.PutUint64(tmp8[:], m.TotalSize)
	out = append(out, tmp8[:]...)

	binary.BigEndian.PutUint64(tmp8[:], uint64(m.DateMS))
	out = append(out, tmp8[:]...)

	nameBytes := []byte(m.Name)
	if len(nameBytes) > NameLen {
		nameBytes = nameBytes[:NameLen]
	}
	nameField := make([]byte, NameLen)
	copy(nameField, nameBytes)
	out = append(out, nameField...)

	binary.BigEndian.PutUint64(tmp8[:], m.ChunkStartIndex)
	out = append(out, tmp8[:]...)
	binary.BigEndian.PutUint64(tmp8[:], m.ChunkEndIndex)
	out = append(out, tmp8[:]...)
	binary.BigEndian.PutUint64(tmp8[:], m.ChunkIndex)
	out = append(out, tmp8[:]...)

	return out
}

// DeserializeMetadata reads exactly MetadataLen bytes from data. Name is
// returned with trailing NUL bytes trimmed.
func DeserializeMetadata(data []byte) (Metadata, error) {
	var m Metadata
	if len(data) != MetadataLen {
		return m, fmt.Errorf("%w: metadata must be %d bytes, got %d", chunkerr.ErrPrimitive, MetadataLen, len(data))
	}

	off := 0
	readU64 := func() uint64 {
		v := binary.BigEndian.Uint64(data[off : off+8])
		off += 8
		return v
	}

	m.SchemaVersion = readU64()
	m.MessageType = MessageType(data[off])
	off++
	copy(m.Hash[:], data[off:off+HashLen])
	off += HashLen
	m.TotalSize = readU64()
	m.DateMS = int64(readU64())

	nameField := data[off : off+NameLen]
	off += NameLen
	m.Name = string(bytes.TrimRight(nameField, "\x00"))

	m.ChunkStartIndex = readU64()
	m.ChunkEndIndex = readU64()
	m.ChunkIndex = readU64()

	return m, nil
}
