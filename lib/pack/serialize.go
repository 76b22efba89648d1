// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/zeebo/xxh3"
)

// Serialize lays the pack out as a single byte buffer in the format
// described in format.go. The output is deterministic: identical pack
// contents produce bytewise identical buffers (files are emitted in
// lexicographic path order and the hash table seed is fixed).
//
// Returns an error if the serialized blob would exceed 4 GiB.
func (p *Pack) Serialize() ([]byte, error) {
	paths := p.Paths()

	// Rough capacity estimate: content plus per-file bookkeeping.
	capacity := prologueSize + footerSize
	for _, path := range paths {
		file := p.files[path]
		capacity += len(path) + len(file.ContentType) + len(file.ETag) +
			len(file.ContentIdentity) + len(file.ContentGzip) + len(file.ContentBrotli) +
			recordSize + 64
	}

	buffer := make([]byte, 0, capacity)
	buffer = append(buffer, formatMagic[:]...)

	// Heap: variable-sized items in file order, capturing offsets.
	type fileOffsets struct {
		path, contentType, etag, identity, gzip, brotli uint32
	}
	offsets := make([]fileOffsets, len(paths))

	var err error
	for i, path := range paths {
		file := p.files[path]
		entry := &offsets[i]

		if buffer, entry.path, err = appendHeapItem(buffer, []byte(path)); err != nil {
			return nil, fmt.Errorf("serializing path %q: %w", path, err)
		}
		if buffer, entry.contentType, err = appendHeapItem(buffer, []byte(file.ContentType)); err != nil {
			return nil, fmt.Errorf("serializing content type of %q: %w", path, err)
		}
		if buffer, entry.etag, err = appendHeapItem(buffer, []byte(file.ETag)); err != nil {
			return nil, fmt.Errorf("serializing etag of %q: %w", path, err)
		}
		if buffer, entry.identity, err = appendHeapItem(buffer, file.ContentIdentity); err != nil {
			return nil, fmt.Errorf("serializing content of %q: %w", path, err)
		}
		if file.ContentGzip != nil {
			if buffer, entry.gzip, err = appendHeapItem(buffer, file.ContentGzip); err != nil {
				return nil, fmt.Errorf("serializing gzip content of %q: %w", path, err)
			}
		}
		if file.ContentBrotli != nil {
			if buffer, entry.brotli, err = appendHeapItem(buffer, file.ContentBrotli); err != nil {
				return nil, fmt.Errorf("serializing brotli content of %q: %w", path, err)
			}
		}
	}

	// Record array. The heap keeps 4-byte alignment after every
	// item, so the array starts naturally aligned.
	recordsOff := uint32(len(buffer))
	for i := range offsets {
		entry := &offsets[i]
		buffer = binary.LittleEndian.AppendUint32(buffer, entry.path)
		buffer = binary.LittleEndian.AppendUint32(buffer, entry.contentType)
		buffer = binary.LittleEndian.AppendUint32(buffer, entry.etag)
		buffer = binary.LittleEndian.AppendUint32(buffer, entry.identity)
		buffer = binary.LittleEndian.AppendUint32(buffer, entry.gzip)
		buffer = binary.LittleEndian.AppendUint32(buffer, entry.brotli)
	}

	// Hash table: open addressing with linear probing. Buckets hold
	// record index + 1; 0 marks an empty bucket. Inserting in sorted
	// path order keeps the table layout deterministic.
	bucketCount := bucketCountFor(len(paths))
	buckets := make([]uint32, bucketCount)
	mask := uint64(bucketCount - 1)
	for i, path := range paths {
		index := uint32(xxh3.HashStringSeed(path, tableSeed) & mask)
		for buckets[index] != 0 {
			index = (index + 1) & uint32(mask)
		}
		buckets[index] = uint32(i) + 1
	}

	bucketsOff := uint32(len(buffer))
	for _, bucket := range buckets {
		buffer = binary.LittleEndian.AppendUint32(buffer, bucket)
	}

	// Pad so the footer starts 16-byte aligned. footerSize is a
	// multiple of 16, so the total length ends up a multiple too.
	for len(buffer)%LoadAlignment != 0 {
		buffer = append(buffer, 0)
	}

	if uint64(len(buffer))+footerSize > math.MaxUint32 {
		return nil, fmt.Errorf("serialized pack exceeds 4 GiB")
	}

	footer := make([]byte, footerSize)
	copy(footer[footerMagicOff:], formatMagic[:])
	binary.LittleEndian.PutUint32(footer[footerVersionOff:], FormatVersion)
	binary.LittleEndian.PutUint32(footer[footerFileCountOff:], uint32(len(paths)))
	binary.LittleEndian.PutUint32(footer[footerRecordsOffOff:], recordsOff)
	binary.LittleEndian.PutUint32(footer[footerBucketsOffOff:], bucketsOff)
	binary.LittleEndian.PutUint32(footer[footerBucketCountOff:], bucketCount)
	binary.LittleEndian.PutUint64(footer[footerSeedOff:], tableSeed)
	buffer = append(buffer, footer...)

	return buffer, nil
}

// WriteTo serializes the pack and writes it to w. Implements
// [io.WriterTo].
func (p *Pack) WriteTo(w io.Writer) (int64, error) {
	buffer, err := p.Serialize()
	if err != nil {
		return 0, err
	}
	written, err := w.Write(buffer)
	if err != nil {
		return int64(written), fmt.Errorf("writing pack: %w", err)
	}
	return int64(written), nil
}

// appendHeapItem appends a (length uint32, bytes…) item padded to
// 4-byte alignment and returns the item's offset. Fails if the item
// would push the buffer past the 4 GiB offset limit.
func appendHeapItem(buffer []byte, data []byte) ([]byte, uint32, error) {
	offset := uint64(len(buffer))
	if offset+4+uint64(len(data)) > math.MaxUint32 {
		return buffer, 0, fmt.Errorf("pack exceeds 4 GiB")
	}
	buffer = binary.LittleEndian.AppendUint32(buffer, uint32(len(data)))
	buffer = append(buffer, data...)
	for len(buffer)%4 != 0 {
		buffer = append(buffer, 0)
	}
	return buffer, uint32(offset), nil
}
