// Copyright 2026 The Sitepack Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"unsafe"

	"github.com/zeebo/xxh3"
)

// Archived is the immutable in-place view of a serialized pack. It
// borrows the buffer passed to [Load]; the view is valid for as long
// as the buffer is alive and unmodified. All methods are safe for
// concurrent use and perform no allocation.
type Archived struct {
	buffer []byte

	fileCount   uint32
	recordsOff  uint32
	bucketsOff  uint32
	bucketCount uint32
	seed        uint64
}

// Load casts buffer in place into an [Archived] view. No content is
// copied or decompressed; load time is proportional to the number of
// files (a bounds/alignment validation walk), not to content size.
//
// Load fails when the buffer is smaller than the fixed framing, its
// start address is not 16-byte aligned (see [Aligned]), the magic or
// version bytes mismatch, or any offset points outside the buffer.
// Content hashes and compressed variants are build-time invariants
// and are trusted at load.
func Load(buffer []byte) (*Archived, error) {
	if len(buffer) < prologueSize+footerSize {
		return nil, fmt.Errorf("buffer too small for a pack: %d bytes", len(buffer))
	}
	if address := uintptr(unsafe.Pointer(unsafe.SliceData(buffer))); address%LoadAlignment != 0 {
		return nil, fmt.Errorf("buffer start address %#x is not %d-byte aligned", address, LoadAlignment)
	}
	if len(buffer)%LoadAlignment != 0 {
		return nil, fmt.Errorf("buffer length %d is not a multiple of %d", len(buffer), LoadAlignment)
	}

	if [prologueSize]byte(buffer[:prologueSize]) != formatMagic {
		return nil, fmt.Errorf("not a pack (invalid prologue magic)")
	}

	footer := buffer[len(buffer)-footerSize:]
	if [8]byte(footer[footerMagicOff:footerMagicOff+8]) != formatMagic {
		return nil, fmt.Errorf("not a pack (invalid footer magic)")
	}
	if version := binary.LittleEndian.Uint32(footer[footerVersionOff:]); version != FormatVersion {
		return nil, fmt.Errorf("pack format version %d is not supported (this code supports version %d)",
			version, FormatVersion)
	}
	if reserved := binary.LittleEndian.Uint32(footer[footerReservedOff:]); reserved != 0 {
		return nil, fmt.Errorf("footer has non-zero reserved field: %#x", reserved)
	}
	if trailing := binary.LittleEndian.Uint64(footer[footerReserved2Off:]); trailing != 0 {
		return nil, fmt.Errorf("footer has non-zero trailing reserved bytes: %#x", trailing)
	}

	archived := &Archived{
		buffer:      buffer,
		fileCount:   binary.LittleEndian.Uint32(footer[footerFileCountOff:]),
		recordsOff:  binary.LittleEndian.Uint32(footer[footerRecordsOffOff:]),
		bucketsOff:  binary.LittleEndian.Uint32(footer[footerBucketsOffOff:]),
		bucketCount: binary.LittleEndian.Uint32(footer[footerBucketCountOff:]),
		seed:        binary.LittleEndian.Uint64(footer[footerSeedOff:]),
	}

	if err := archived.validate(); err != nil {
		return nil, err
	}
	return archived, nil
}

// validate bounds-checks every offset reachable from the footer. After
// this pass, accessors can index the buffer without further checks.
func (a *Archived) validate() error {
	heapEnd := uint64(len(a.buffer) - footerSize)

	if a.bucketCount == 0 || bits.OnesCount32(a.bucketCount) != 1 {
		return fmt.Errorf("bucket count %d is not a power of two", a.bucketCount)
	}
	if uint64(a.fileCount) > uint64(a.bucketCount) {
		return fmt.Errorf("file count %d exceeds bucket count %d", a.fileCount, a.bucketCount)
	}

	if a.recordsOff < prologueSize || a.recordsOff%4 != 0 {
		return fmt.Errorf("record array offset %d is invalid", a.recordsOff)
	}
	recordsEnd := uint64(a.recordsOff) + uint64(a.fileCount)*recordSize
	if recordsEnd > heapEnd {
		return fmt.Errorf("record array [%d, %d) extends past buffer", a.recordsOff, recordsEnd)
	}

	if a.bucketsOff < prologueSize || a.bucketsOff%4 != 0 {
		return fmt.Errorf("bucket array offset %d is invalid", a.bucketsOff)
	}
	bucketsEnd := uint64(a.bucketsOff) + uint64(a.bucketCount)*4
	if bucketsEnd > heapEnd {
		return fmt.Errorf("bucket array [%d, %d) extends past buffer", a.bucketsOff, bucketsEnd)
	}

	for i := uint32(0); i < a.bucketCount; i++ {
		bucket := binary.LittleEndian.Uint32(a.buffer[a.bucketsOff+i*4:])
		if bucket > a.fileCount {
			return fmt.Errorf("bucket %d references record %d of %d", i, bucket, a.fileCount)
		}
	}

	for i := uint32(0); i < a.fileCount; i++ {
		record := a.buffer[a.recordsOff+i*recordSize:]
		for _, field := range []struct {
			name     string
			offset   uint32
			optional bool
		}{
			{"path", recordPathOff, false},
			{"content type", recordContentTypeOff, false},
			{"etag", recordETagOff, false},
			{"identity content", recordIdentityOff, false},
			{"gzip content", recordGzipOff, true},
			{"brotli content", recordBrotliOff, true},
		} {
			itemOff := binary.LittleEndian.Uint32(record[field.offset:])
			if itemOff == 0 {
				if field.optional {
					continue
				}
				return fmt.Errorf("record %d has no %s", i, field.name)
			}
			if err := validateHeapItem(a.buffer, itemOff, heapEnd); err != nil {
				return fmt.Errorf("record %d %s: %w", i, field.name, err)
			}
		}
	}

	return nil
}

// validateHeapItem checks a (length, bytes…) item lies fully inside
// the heap region.
func validateHeapItem(buffer []byte, offset uint32, heapEnd uint64) error {
	if offset < prologueSize || offset%4 != 0 {
		return fmt.Errorf("item offset %d is invalid", offset)
	}
	if uint64(offset)+4 > heapEnd {
		return fmt.Errorf("item length at %d extends past buffer", offset)
	}
	length := binary.LittleEndian.Uint32(buffer[offset:])
	if uint64(offset)+4+uint64(length) > heapEnd {
		return fmt.Errorf("item [%d, %d) extends past buffer", offset, uint64(offset)+4+uint64(length))
	}
	return nil
}

// Len returns the number of files in the pack.
func (a *Archived) Len() int {
	return int(a.fileCount)
}

// Lookup finds the file stored under path. The probe sequence mirrors
// the serializer's insertion; expected O(1) with no allocation.
func (a *Archived) Lookup(path string) (ArchivedFile, bool) {
	if a.fileCount == 0 {
		return ArchivedFile{}, false
	}
	mask := uint64(a.bucketCount - 1)
	index := uint32(xxh3.HashStringSeed(path, a.seed) & mask)
	for probe := uint32(0); probe < a.bucketCount; probe++ {
		bucket := binary.LittleEndian.Uint32(a.buffer[a.bucketsOff+index*4:])
		if bucket == 0 {
			return ArchivedFile{}, false
		}
		file := a.FileAt(int(bucket - 1))
		if file.Path() == path {
			return file, true
		}
		index = (index + 1) & uint32(mask)
	}
	return ArchivedFile{}, false
}

// FileAt returns the file at the given record index, in lexicographic
// path order. Index must be in [0, Len()).
func (a *Archived) FileAt(index int) ArchivedFile {
	if index < 0 || uint32(index) >= a.fileCount {
		panic(fmt.Sprintf("pack: file index %d out of range [0, %d)", index, a.fileCount))
	}
	return ArchivedFile{
		pack:   a,
		record: a.buffer[a.recordsOff+uint32(index)*recordSize:],
	}
}

// ArchivedFile is a view of one file inside an [Archived] pack. The
// zero value is invalid; obtain one from [Archived.Lookup] or
// [Archived.FileAt]. All returned slices and strings alias the pack
// buffer and share its lifetime.
type ArchivedFile struct {
	pack   *Archived
	record []byte
}

// Path returns the file's pack path.
func (f ArchivedFile) Path() string {
	return f.heapString(recordPathOff)
}

// ContentType returns the Content-Type header value.
func (f ArchivedFile) ContentType() string {
	return f.heapString(recordContentTypeOff)
}

// ETag returns the strong entity tag, quotes included.
func (f ArchivedFile) ETag() string {
	return f.heapString(recordETagOff)
}

// ContentIdentity returns the uncompressed body.
func (f ArchivedFile) ContentIdentity() []byte {
	data, _ := f.heapBytes(recordIdentityOff)
	return data
}

// ContentGzip returns the gzip variant and whether it is present.
func (f ArchivedFile) ContentGzip() ([]byte, bool) {
	return f.heapBytes(recordGzipOff)
}

// ContentBrotli returns the brotli variant and whether it is present.
func (f ArchivedFile) ContentBrotli() ([]byte, bool) {
	return f.heapBytes(recordBrotliOff)
}

// Content returns the body for the given encoding and whether that
// encoding is present.
func (f ArchivedFile) Content(encoding ContentEncoding) ([]byte, bool) {
	switch encoding {
	case EncodingIdentity:
		return f.ContentIdentity(), true
	case EncodingGzip:
		return f.ContentGzip()
	case EncodingBrotli:
		return f.ContentBrotli()
	default:
		return nil, false
	}
}

// heapBytes resolves the heap item referenced by the record field at
// fieldOff. Offsets were bounds-checked at load.
func (f ArchivedFile) heapBytes(fieldOff uint32) ([]byte, bool) {
	itemOff := binary.LittleEndian.Uint32(f.record[fieldOff:])
	if itemOff == 0 {
		return nil, false
	}
	length := binary.LittleEndian.Uint32(f.pack.buffer[itemOff:])
	start := uint64(itemOff) + 4
	return f.pack.buffer[start : start+uint64(length)], true
}

// heapString is heapBytes for string fields. The conversion does not
// copy; the string aliases the pack buffer, which Load requires to
// stay unmodified.
func (f ArchivedFile) heapString(fieldOff uint32) string {
	data, ok := f.heapBytes(fieldOff)
	if !ok || len(data) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(data), len(data))
}

// Aligned returns buffer if its start address satisfies
// [LoadAlignment], otherwise a copy at an aligned address. Callers
// that cannot guarantee the alignment of an embedded or mapped buffer
// should pass it through Aligned before Load.
func Aligned(buffer []byte) []byte {
	if uintptr(unsafe.Pointer(unsafe.SliceData(buffer)))%LoadAlignment == 0 {
		return buffer
	}
	backing := make([]byte, len(buffer)+LoadAlignment-1)
	address := uintptr(unsafe.Pointer(unsafe.SliceData(backing)))
	shift := 0
	if remainder := int(address % LoadAlignment); remainder != 0 {
		shift = LoadAlignment - remainder
	}
	aligned := backing[shift : shift+len(buffer)]
	copy(aligned, buffer)
	return aligned
}
