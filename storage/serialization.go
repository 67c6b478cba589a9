// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"
	"math"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/docmem/core"
)

// MarshalDocumentRecord serializes a DocumentRecord to bytes.
func MarshalDocumentRecord(record *core.DocumentRecord) []byte {
	embeddedAt := record.EmbeddedAt.UnixMicro()
	size := ord.String.Size(record.Memory) +
		ord.String.Size(record.Name) +
		ord.String.Size(record.ContentHash) +
		varint.Int.Size(record.Chunks) +
		varint.Int64.Size(embeddedAt)

	buf := make([]byte, size)
	n := ord.String.Marshal(record.Memory, buf)
	n += ord.String.Marshal(record.Name, buf[n:])
	n += ord.String.Marshal(record.ContentHash, buf[n:])
	n += varint.Int.Marshal(record.Chunks, buf[n:])
	varint.Int64.Marshal(embeddedAt, buf[n:])
	return buf
}

// UnmarshalDocumentRecord deserializes a DocumentRecord from bytes.
func UnmarshalDocumentRecord(data []byte) (*core.DocumentRecord, error) {
	var (
		record core.DocumentRecord
		n, m   int
		err    error
	)
	if record.Memory, m, err = ord.String.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("%w: memory: %w", ErrSerializationFailed, err)
	}
	n += m
	if record.Name, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: name: %w", ErrSerializationFailed, err)
	}
	n += m
	if record.ContentHash, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: content hash: %w", ErrSerializationFailed, err)
	}
	n += m
	if record.Chunks, m, err = varint.Int.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: chunks: %w", ErrSerializationFailed, err)
	}
	n += m
	embeddedAt, _, err := varint.Int64.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: embedded at: %w", ErrSerializationFailed, err)
	}
	record.EmbeddedAt = time.UnixMicro(embeddedAt).UTC()
	return &record, nil
}

// MarshalChunk serializes a Chunk to bytes.
// Vector components are stored as their IEEE-754 bit patterns.
func MarshalChunk(chunk *core.Chunk) []byte {
	size := ord.String.Size(chunk.Memory) +
		ord.String.Size(chunk.Document) +
		varint.Int.Size(chunk.Index) +
		ord.String.Size(chunk.Text) +
		varint.Int.Size(len(chunk.Vector))
	for _, v := range chunk.Vector {
		size += varint.Uint32.Size(math.Float32bits(v))
	}

	buf := make([]byte, size)
	n := ord.String.Marshal(chunk.Memory, buf)
	n += ord.String.Marshal(chunk.Document, buf[n:])
	n += varint.Int.Marshal(chunk.Index, buf[n:])
	n += ord.String.Marshal(chunk.Text, buf[n:])
	n += varint.Int.Marshal(len(chunk.Vector), buf[n:])
	for _, v := range chunk.Vector {
		n += varint.Uint32.Marshal(math.Float32bits(v), buf[n:])
	}
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	var (
		chunk core.Chunk
		n, m  int
		err   error
	)
	if chunk.Memory, m, err = ord.String.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("%w: memory: %w", ErrSerializationFailed, err)
	}
	n += m
	if chunk.Document, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: document: %w", ErrSerializationFailed, err)
	}
	n += m
	if chunk.Index, m, err = varint.Int.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: index: %w", ErrSerializationFailed, err)
	}
	n += m
	if chunk.Text, m, err = ord.String.Unmarshal(data[n:]); err != nil {
		return nil, fmt.Errorf("%w: text: %w", ErrSerializationFailed, err)
	}
	n += m
	length, m, err := varint.Int.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: vector length: %w", ErrSerializationFailed, err)
	}
	n += m
	if length < 0 || length > len(data)-n {
		return nil, fmt.Errorf("%w: vector length %d out of range", ErrSerializationFailed, length)
	}

	if length > 0 {
		chunk.Vector = make([]float32, length)
	}
	for i := 0; i < length; i++ {
		bits, m, err := varint.Uint32.Unmarshal(data[n:])
		if err != nil {
			return nil, fmt.Errorf("%w: vector[%d]: %w", ErrSerializationFailed, i, err)
		}
		n += m
		chunk.Vector[i] = math.Float32frombits(bits)
	}
	return &chunk, nil
}
