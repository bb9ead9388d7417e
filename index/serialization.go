// Copyright 2025 The AI-upskilling Authors
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


package index

import (
	"github.com/Marcelele-0/AI-upskilling/core"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// vectorMUS serializes embedding vectors as length-prefixed raw float32s.
var vectorMUS = ord.NewSliceSer[float32](raw.Float32)

// documentMUS is the MUS format serializer for stored documents.
type documentMUS struct{}

// DocumentMUS serializes Documents for storage.
var DocumentMUS = documentMUS{}

func (documentMUS) Marshal(d Document, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(d.ID), bs)
	n += ord.String.Marshal(d.ExternalID, bs[n:])
	n += ord.String.Marshal(d.Content, bs[n:])
	n += vectorMUS.Marshal(d.Vector, bs[n:])
	return n
}

func (documentMUS) Unmarshal(bs []byte) (d Document, n int, err error) {
	var (
		id uint64
		n1 int
	)
	id, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	d.ID = core.ID(id)

	d.ExternalID, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	d.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	d.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (documentMUS) Size(d Document) (size int) {
	size = varint.Uint64.Size(uint64(d.ID))
	size += ord.String.Size(d.ExternalID)
	size += ord.String.Size(d.Content)
	size += vectorMUS.Size(d.Vector)
	return size
}

func (documentMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	n, err = varint.Uint64.Skip(bs)
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = vectorMUS.Skip(bs[n:])
	n += n1
	return
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(d *Document) []byte {
	buf := make([]byte, DocumentMUS.Size(*d))
	DocumentMUS.Marshal(*d, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*Document, error) {
	d, _, err := DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
