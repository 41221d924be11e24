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

package webfont

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// makeSfnt assembles a minimal sfnt file.  The table directory is written
// in the given order.
func makeSfnt(tags []string, tables map[string][]byte) []byte {
	buf := &bytes.Buffer{}
	_ = binary.Write(buf, binary.BigEndian, sfntHeader{
		ScalerType: 0x4F54544F,
		NumTables:  uint16(len(tags)),
	})
	offset := uint32(12 + 16*len(tags))
	for i, tag := range tags {
		rec := sfntRecord{
			CheckSum: uint32(1000 + i),
			Offset:   offset,
			Length:   uint32(len(tables[tag])),
		}
		copy(rec.Tag[:], tag)
		_ = binary.Write(buf, binary.BigEndian, rec)
		offset += pad4(rec.Length)
	}
	for _, tag := range tags {
		body := tables[tag]
		buf.Write(body)
		buf.Write(make([]byte, pad4(uint32(len(body)))-uint32(len(body))))
	}
	return buf.Bytes()
}

func TestWOFF(t *testing.T) {
	tables := map[string][]byte{
		"name": bytes.Repeat([]byte("compressible "), 40),
		"cmap": {1, 2, 3},
		"CFF ": bytes.Repeat([]byte{0, 1}, 100),
	}
	tags := []string{"name", "cmap", "CFF "}
	sfnt := makeSfnt(tags, tables)

	out := &bytes.Buffer{}
	err := WOFF(out, bytes.NewReader(sfnt), Version{Major: 1, Minor: 2})
	if err != nil {
		t.Fatal(err)
	}
	data := out.Bytes()

	var header woffHeader
	err = binary.Read(bytes.NewReader(data), binary.BigEndian, &header)
	if err != nil {
		t.Fatal(err)
	}
	if header.Signature != woffSignature || header.Flavor != 0x4F54544F {
		t.Errorf("wrong signature or flavor: %08x %08x", header.Signature, header.Flavor)
	}
	if int(header.Length) != len(data) {
		t.Errorf("header length %d, file length %d", header.Length, len(data))
	}
	if header.NumTables != 3 {
		t.Errorf("got %d tables, want 3", header.NumTables)
	}
	// 12 + 3*16 + 520 + 4 + 200
	if header.TotalSfntSize != 784 {
		t.Errorf("total sfnt size %d, want 784", header.TotalSfntSize)
	}
	if len(data)%4 != 0 {
		t.Errorf("file length %d is not a multiple of 4", len(data))
	}

	font, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(tables, font.Tables); d != "" {
		t.Errorf("tables mismatch (-want +got):\n%s", d)
	}
	if font.Version != (Version{Major: 1, Minor: 2}) {
		t.Errorf("version %v", font.Version)
	}

	// the directory is sorted by tag, checksums are kept
	dir := make([]woffRecord, 3)
	_ = binary.Read(bytes.NewReader(data[44:]), binary.BigEndian, dir)
	var gotTags []string
	for _, rec := range dir {
		gotTags = append(gotTags, string(rec.Tag[:]))
	}
	if d := cmp.Diff([]string{"CFF ", "cmap", "name"}, gotTags); d != "" {
		t.Errorf("directory order mismatch:\n%s", d)
	}
	if dir[0].OrigChecksum != 1002 {
		t.Errorf("checksum %d, want 1002", dir[0].OrigChecksum)
	}
	// tiny tables are stored uncompressed
	if dir[1].CompLength != dir[1].OrigLength {
		t.Errorf("cmap stored with length %d, want %d", dir[1].CompLength, dir[1].OrigLength)
	}
	if dir[2].CompLength >= dir[2].OrigLength {
		t.Errorf("name table not compressed")
	}
}

func TestWOFFNotSfnt(t *testing.T) {
	err := WOFF(&bytes.Buffer{}, bytes.NewReader([]byte("hello, world")), Version{})
	if !errors.Is(err, ErrNotSfnt) {
		t.Errorf("unexpected error %v", err)
	}
}
