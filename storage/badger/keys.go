package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types
const (
	documentRecordPrefix = "docrec"
	chunkPrefix          = "chunk"
)

// Memory names never contain ':' and document names never contain NUL, so
// both work as separators.
const (
	keySeparator      = ':'
	documentSeparator = 0
)

// makeDocumentKey generates a key for a document record.
// Format: prefix:memory:name
func makeDocumentKey(memory, name string) []byte {
	buf := makeMemoryDocumentPrefix(memory)
	return append(buf, name...)
}

// makeMemoryDocumentPrefix generates the prefix shared by all document records of a memory.
// Format: prefix:memory:
func makeMemoryDocumentPrefix(memory string) []byte {
	buf := make([]byte, 0, len(documentRecordPrefix)+len(memory)+2)
	buf = append(buf, documentRecordPrefix...)
	buf = append(buf, keySeparator)
	buf = append(buf, memory...)
	return append(buf, keySeparator)
}

// makeChunkKey generates a composite key for one chunk of a document.
// Format: prefix:memory:name\x00index
func makeChunkKey(memory, name string, index int) []byte {
	buf := makeDocumentChunkPrefix(memory, name)
	// Write in BigEndian order so chunks iterate in index order
	return binary.BigEndian.AppendUint32(buf, uint32(index))
}

// makeDocumentChunkPrefix generates the prefix shared by all chunks of a document.
// Format: prefix:memory:name\x00
func makeDocumentChunkPrefix(memory, name string) []byte {
	buf := makeMemoryChunkPrefix(memory)
	buf = append(buf, name...)
	return append(buf, documentSeparator)
}

// makeMemoryChunkPrefix generates the prefix shared by all chunks of a memory.
// Format: prefix:memory:
func makeMemoryChunkPrefix(memory string) []byte {
	buf := make([]byte, 0, len(chunkPrefix)+len(memory)+2)
	buf = append(buf, chunkPrefix...)
	buf = append(buf, keySeparator)
	buf = append(buf, memory...)
	return append(buf, keySeparator)
}
