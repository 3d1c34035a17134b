package export

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
)

// zipBuilder assembles a ZIP archive by hand: local file headers with data,
// then a central directory, then the end-of-central-directory record. The
// whole archive lives in memory because central-directory entries need the
// byte offsets of the local headers.
type zipBuilder struct {
	buf     bytes.Buffer
	entries []zipEntry
}

type zipEntry struct {
	name       string
	crc        uint32
	compressed uint32
	raw        uint32
	method     uint16
	offset     uint32
}

const (
	zipMethodStored   = 0
	zipMethodDeflated = 8

	sigLocalFile        = 0x04034b50
	sigCentralDirectory = 0x02014b50
	sigEndOfCentralDir  = 0x06054b50

	// DOS date 1980-01-01 00:00:00; the fixed timestamp keeps builds of the
	// same content byte-identical.
	zipDosTime = 0x0000
	zipDosDate = 0x0021
)

// add writes one file entry. Deflate is attempted first; if it does not make
// the part smaller the part is stored uncompressed.
func (z *zipBuilder) add(name string, data []byte) error {
	crc := crc32.ChecksumIEEE(data)

	var deflated bytes.Buffer
	fw, err := flate.NewWriter(&deflated, flate.DefaultCompression)
	if err != nil {
		return fmt.Errorf("init deflate: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return fmt.Errorf("deflate %s: %w", name, err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("deflate %s: %w", name, err)
	}

	method := uint16(zipMethodDeflated)
	payload := deflated.Bytes()
	if len(payload) >= len(data) {
		method = zipMethodStored
		payload = data
	}

	entry := zipEntry{
		name:       name,
		crc:        crc,
		compressed: uint32(len(payload)),
		raw:        uint32(len(data)),
		method:     method,
		offset:     uint32(z.buf.Len()),
	}

	z.writeU32(sigLocalFile)
	z.writeU16(20) // version needed
	z.writeU16(0)  // flags
	z.writeU16(method)
	z.writeU16(zipDosTime)
	z.writeU16(zipDosDate)
	z.writeU32(entry.crc)
	z.writeU32(entry.compressed)
	z.writeU32(entry.raw)
	z.writeU16(uint16(len(name)))
	z.writeU16(0) // extra length
	z.buf.WriteString(name)
	z.buf.Write(payload)

	z.entries = append(z.entries, entry)
	return nil
}

// finish appends the central directory and end record, then writes the whole
// archive to w.
func (z *zipBuilder) finish(w io.Writer) error {
	dirOffset := uint32(z.buf.Len())
	for _, e := range z.entries {
		z.writeU32(sigCentralDirectory)
		z.writeU16(20) // version made by
		z.writeU16(20) // version needed
		z.writeU16(0)  // flags
		z.writeU16(e.method)
		z.writeU16(zipDosTime)
		z.writeU16(zipDosDate)
		z.writeU32(e.crc)
		z.writeU32(e.compressed)
		z.writeU32(e.raw)
		z.writeU16(uint16(len(e.name)))
		z.writeU16(0) // extra length
		z.writeU16(0) // comment length
		z.writeU16(0) // disk number
		z.writeU16(0) // internal attrs
		z.writeU32(0) // external attrs
		z.writeU32(e.offset)
		z.buf.WriteString(e.name)
	}
	dirSize := uint32(z.buf.Len()) - dirOffset

	z.writeU32(sigEndOfCentralDir)
	z.writeU16(0) // disk number
	z.writeU16(0) // directory disk
	z.writeU16(uint16(len(z.entries)))
	z.writeU16(uint16(len(z.entries)))
	z.writeU32(dirSize)
	z.writeU32(dirOffset)
	z.writeU16(0) // comment length

	if _, err := w.Write(z.buf.Bytes()); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	return nil
}

func (z *zipBuilder) writeU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	z.buf.Write(b[:])
}

func (z *zipBuilder) writeU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	z.buf.Write(b[:])
}
