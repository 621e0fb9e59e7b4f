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


package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for persisted records. Each satisfies the mus-go
// serializer contract (Marshal/Unmarshal/Size/Skip).
var (
	AddressMUS      = addressMUS{}
	WordSpecMUS     = wordSpecMUS{}
	PhraseSpecMUS   = phraseSpecMUS{}
	ContinuationMUS = continuationMUS{}
	SnapshotInfoMUS = snapshotInfoMUS{}
)

// Times are stored as Unix microseconds.
type timeMUS struct{}

func (timeMUS) Marshal(t time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeMUS) Unmarshal(bs []byte) (t time.Time, n int, err error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func (timeMUS) Size(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

type intMUS struct{}

func (intMUS) Marshal(v int, bs []byte) (n int) {
	return varint.Int64.Marshal(int64(v), bs)
}

func (intMUS) Unmarshal(bs []byte) (v int, n int, err error) {
	v64, n, err := varint.Int64.Unmarshal(bs)
	return int(v64), n, err
}

func (intMUS) Size(v int) int {
	return varint.Int64.Size(int64(v))
}

type addressMUS struct{}

func (addressMUS) Marshal(a Address, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(a), bs)
}

func (addressMUS) Unmarshal(bs []byte) (a Address, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return Address(v), n, err
}

func (addressMUS) Size(a Address) int {
	return varint.Uint64.Size(uint64(a))
}

func (s addressMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type wordSpecMUS struct{}

func (wordSpecMUS) Marshal(ws WordSpec, bs []byte) (n int) {
	n = intMUS{}.Marshal(ws.Size, bs)
	n += ord.Bool.Marshal(ws.BigEndian, bs[n:])
	return
}

func (wordSpecMUS) Unmarshal(bs []byte) (ws WordSpec, n int, err error) {
	ws.Size, n, err = intMUS{}.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	ws.BigEndian, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	return
}

func (wordSpecMUS) Size(ws WordSpec) int {
	return intMUS{}.Size(ws.Size) + ord.Bool.Size(ws.BigEndian)
}

func (s wordSpecMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type phraseSpecMUS struct{}

func (phraseSpecMUS) Marshal(p PhraseSpec, bs []byte) (n int) {
	n = intMUS{}.Marshal(int(p.Kind), bs)
	n += ord.String.Marshal(p.Text, bs[n:])
	n += ord.Bool.Marshal(p.CaseInsensitive, bs[n:])
	n += ord.String.Marshal(string(p.Bytes), bs[n:])
	n += intMUS{}.Marshal(p.Radix, bs[n:])
	return
}

func (phraseSpecMUS) Unmarshal(bs []byte) (p PhraseSpec, n int, err error) {
	var (
		n1   int
		kind int
		raw  string
	)
	kind, n, err = intMUS{}.Unmarshal(bs)
	if err != nil {
		return
	}
	p.Kind = PhraseKind(kind)
	p.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.CaseInsensitive, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	raw, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if raw != "" {
		p.Bytes = []byte(raw)
	}
	p.Radix, n1, err = intMUS{}.Unmarshal(bs[n:])
	n += n1
	return
}

func (phraseSpecMUS) Size(p PhraseSpec) int {
	return intMUS{}.Size(int(p.Kind)) +
		ord.String.Size(p.Text) +
		ord.Bool.Size(p.CaseInsensitive) +
		ord.String.Size(string(p.Bytes)) +
		intMUS{}.Size(p.Radix)
}

func (s phraseSpecMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type continuationMUS struct{}

func (continuationMUS) Marshal(c Continuation, bs []byte) (n int) {
	n = ord.String.Marshal(c.Key, bs)
	n += AddressMUS.Marshal(c.Start, bs[n:])
	n += AddressMUS.Marshal(c.End, bs[n:])
	n += intMUS{}.Marshal(int(c.Direction), bs[n:])
	n += PhraseSpecMUS.Marshal(c.Phrase, bs[n:])
	n += WordSpecMUS.Marshal(c.WordSpec, bs[n:])
	n += timeMUS{}.Marshal(c.UpdatedAt, bs[n:])
	return
}

func (continuationMUS) Unmarshal(bs []byte) (c Continuation, n int, err error) {
	var (
		n1  int
		dir int
	)
	c.Key, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	c.Start, n1, err = AddressMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.End, n1, err = AddressMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	dir, n1, err = intMUS{}.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Direction = Direction(dir)
	c.Phrase, n1, err = PhraseSpecMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.WordSpec, n1, err = WordSpecMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.UpdatedAt, n1, err = timeMUS{}.Unmarshal(bs[n:])
	n += n1
	return
}

func (continuationMUS) Size(c Continuation) int {
	return ord.String.Size(c.Key) +
		AddressMUS.Size(c.Start) +
		AddressMUS.Size(c.End) +
		intMUS{}.Size(int(c.Direction)) +
		PhraseSpecMUS.Size(c.Phrase) +
		WordSpecMUS.Size(c.WordSpec) +
		timeMUS{}.Size(c.UpdatedAt)
}

func (s continuationMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

type snapshotInfoMUS struct{}

func (snapshotInfoMUS) Marshal(s SnapshotInfo, bs []byte) (n int) {
	n = ord.String.Marshal(s.Name, bs)
	n += AddressMUS.Marshal(s.Base, bs[n:])
	n += varint.Uint64.Marshal(s.Words, bs[n:])
	n += WordSpecMUS.Marshal(s.WordSpec, bs[n:])
	n += varint.Uint64.Marshal(s.PageWords, bs[n:])
	n += timeMUS{}.Marshal(s.CreatedAt, bs[n:])
	return
}

func (snapshotInfoMUS) Unmarshal(bs []byte) (s SnapshotInfo, n int, err error) {
	var n1 int
	s.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	s.Base, n1, err = AddressMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s.Words, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s.WordSpec, n1, err = WordSpecMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s.PageWords, n1, err = varint.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	s.CreatedAt, n1, err = timeMUS{}.Unmarshal(bs[n:])
	n += n1
	return
}

func (snapshotInfoMUS) Size(s SnapshotInfo) int {
	return ord.String.Size(s.Name) +
		AddressMUS.Size(s.Base) +
		varint.Uint64.Size(s.Words) +
		WordSpecMUS.Size(s.WordSpec) +
		varint.Uint64.Size(s.PageWords) +
		timeMUS{}.Size(s.CreatedAt)
}

func (s snapshotInfoMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}
