// seehuhn.de/go/fontbatch - batch generation of variable fonts
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package webfont wraps sfnt font files for use on the web.
//
// Only WOFF 1.0 is supported.  Tables are compressed individually with
// zlib, and a table is stored uncompressed if compression does not make it
// smaller.
package webfont

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/klauspost/compress/zlib"
)

const woffSignature = 0x774F4646 // "wOFF"

// woffHeader is the fixed-size header at the start of a WOFF file.
type woffHeader struct {
	Signature      uint32
	Flavor         uint32
	Length         uint32
	NumTables      uint16
	Reserved       uint16
	TotalSfntSize  uint32
	MajorVersion   uint16
	MinorVersion   uint16
	MetaOffset     uint32
	MetaLength     uint32
	MetaOrigLength uint32
	PrivOffset     uint32
	PrivLength     uint32
}

// woffRecord is an entry in the WOFF table directory.
type woffRecord struct {
	Tag          [4]byte
	Offset       uint32
	CompLength   uint32
	OrigLength   uint32
	OrigChecksum uint32
}

// sfntHeader is the offset sub-table at the start of an sfnt file.
type sfntHeader struct {
	ScalerType    uint32
	NumTables     uint16
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
}

// sfntRecord is an entry in the sfnt table directory.
type sfntRecord struct {
	Tag      [4]byte
	CheckSum uint32
	Offset   uint32
	Length   uint32
}

// ErrNotSfnt is returned if the input is not an sfnt font file.
var ErrNotSfnt = errors.New("not an sfnt font file")

// Version is written into the majorVersion and minorVersion fields.
type Version struct {
	Major, Minor uint16
}

// WOFF reads an sfnt font from src and writes it to dst in WOFF format.
func WOFF(dst io.Writer, src io.Reader, version Version) error {
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}

	r := bytes.NewReader(data)
	var header sfntHeader
	err = binary.Read(r, binary.BigEndian, &header)
	if err != nil {
		return ErrNotSfnt
	}
	switch header.ScalerType {
	case 0x00010000, 0x4F54544F, 0x74727565: // 1.0, "OTTO", "true"
		// pass
	default:
		return ErrNotSfnt
	}
	records := make([]sfntRecord, header.NumTables)
	err = binary.Read(r, binary.BigEndian, records)
	if err != nil {
		return ErrNotSfnt
	}
	slices.SortFunc(records, func(a, b sfntRecord) int {
		return bytes.Compare(a.Tag[:], b.Tag[:])
	})

	numTables := len(records)
	offset := uint32(44 + 20*numTables)
	totalSfntSize := uint32(12 + 16*numTables)
	dir := make([]woffRecord, numTables)
	bodies := make([][]byte, numTables)
	for i, rec := range records {
		end := uint64(rec.Offset) + uint64(rec.Length)
		if end > uint64(len(data)) {
			return fmt.Errorf("table %q: %w", rec.Tag[:], io.ErrUnexpectedEOF)
		}
		orig := data[rec.Offset:end]
		body, err := compress(orig)
		if err != nil {
			return err
		}

		dir[i] = woffRecord{
			Tag:          rec.Tag,
			Offset:       offset,
			CompLength:   uint32(len(body)),
			OrigLength:   rec.Length,
			OrigChecksum: rec.CheckSum,
		}
		bodies[i] = body
		offset += pad4(uint32(len(body)))
		totalSfntSize += pad4(rec.Length)
	}

	woff := &woffHeader{
		Signature:     woffSignature,
		Flavor:        header.ScalerType,
		Length:        offset,
		NumTables:     uint16(numTables),
		TotalSfntSize: totalSfntSize,
		MajorVersion:  version.Major,
		MinorVersion:  version.Minor,
	}
	buf := &bytes.Buffer{}
	_ = binary.Write(buf, binary.BigEndian, woff)
	_ = binary.Write(buf, binary.BigEndian, dir)
	var pad [3]byte
	for _, body := range bodies {
		buf.Write(body)
		if k := len(body) % 4; k != 0 {
			buf.Write(pad[:4-k])
		}
	}
	_, err = dst.Write(buf.Bytes())
	return err
}

// compress returns the zlib-compressed table, or the table itself if
// compression does not save space.
func compress(body []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	w, err := zlib.NewWriterLevel(buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}
	_, err = w.Write(body)
	if err != nil {
		return nil, err
	}
	err = w.Close()
	if err != nil {
		return nil, err
	}
	if buf.Len() >= len(body) {
		return body, nil
	}
	return buf.Bytes(), nil
}

func pad4(n uint32) uint32 {
	return 4 * ((n + 3) / 4)
}

// Font is the content of a WOFF file.
type Font struct {
	Flavor  uint32
	Version Version
	Tables  map[string][]byte
}

// Decode reads a WOFF file and returns the decompressed tables.
func Decode(data []byte) (*Font, error) {
	r := bytes.NewReader(data)
	var header woffHeader
	err := binary.Read(r, binary.BigEndian, &header)
	if err != nil || header.Signature != woffSignature {
		return nil, errors.New("not a WOFF file")
	}
	dir := make([]woffRecord, header.NumTables)
	err = binary.Read(r, binary.BigEndian, dir)
	if err != nil {
		return nil, err
	}

	res := &Font{
		Flavor:  header.Flavor,
		Version: Version{Major: header.MajorVersion, Minor: header.MinorVersion},
		Tables:  make(map[string][]byte, len(dir)),
	}
	for _, rec := range dir {
		end := uint64(rec.Offset) + uint64(rec.CompLength)
		if end > uint64(len(data)) {
			return nil, io.ErrUnexpectedEOF
		}
		body := data[rec.Offset:end]
		if rec.CompLength < rec.OrigLength {
			zr, err := zlib.NewReader(bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			body, err = io.ReadAll(zr)
			if err != nil {
				return nil, err
			}
		}
		if uint32(len(body)) != rec.OrigLength {
			return nil, fmt.Errorf("table %q: length mismatch", rec.Tag[:])
		}
		res.Tables[string(rec.Tag[:])] = body
	}
	return res, nil
}
