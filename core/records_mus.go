package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// IDMUS serializes an ID as a varint.
var IDMUS = idMUS{}

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	return ID(tmp), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

// timeMUS stores a time as UTC Unix microseconds.
var timeMUS = timeMicroMUS{}

type timeMicroMUS struct{}

func (s timeMicroMUS) Marshal(v time.Time, bs []byte) (n int) {
	return varint.Int64.Marshal(v.UnixMicro(), bs)
}

func (s timeMicroMUS) Unmarshal(bs []byte) (v time.Time, n int, err error) {
	micros, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	return time.UnixMicro(micros).UTC(), n, nil
}

func (s timeMicroMUS) Size(v time.Time) (size int) {
	return varint.Int64.Size(v.UnixMicro())
}

func (s timeMicroMUS) Skip(bs []byte) (n int, err error) {
	return varint.Int64.Skip(bs)
}

// vectorMUS stores a length prefix followed by fixed-width float32 values.
var vectorMUS = float32SliceMUS{}

type float32SliceMUS struct{}

func (s float32SliceMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(len(v), bs)
	for _, f := range v {
		n += raw.Float32.Marshal(f, bs[n:])
	}
	return
}

func (s float32SliceMUS) Unmarshal(bs []byte) (v []float32, n int, err error) {
	length, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return
	}
	if length == 0 {
		return nil, n, nil
	}
	v = make([]float32, length)
	var n1 int
	for i := range v {
		v[i], n1, err = raw.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s float32SliceMUS) Size(v []float32) (size int) {
	size = varint.PositiveInt.Size(len(v))
	for _, f := range v {
		size += raw.Float32.Size(f)
	}
	return
}

func (s float32SliceMUS) Skip(bs []byte) (n int, err error) {
	length, n, err := varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	for range length {
		n1, err = raw.Float32.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

// DocumentMUS serializes a Document. Field order is the wire order.
var DocumentMUS = documentMUS{}

type documentMUS struct{}

func (s documentMUS) Marshal(v Document, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Namespace, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += vectorMUS.Marshal(v.Vector, bs[n:])
	n += timeMUS.Marshal(v.InsertedAt, bs[n:])
	return n + timeMUS.Marshal(v.UpdatedAt, bs[n:])
}

func (s documentMUS) Unmarshal(bs []byte) (v Document, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Namespace, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s documentMUS) Size(v Document) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Namespace)
	size += ord.String.Size(v.Text)
	size += vectorMUS.Size(v.Vector)
	size += timeMUS.Size(v.InsertedAt)
	return size + timeMUS.Size(v.UpdatedAt)
}

func (s documentMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	for _, skip := range []func([]byte) (int, error){
		ord.String.Skip,
		ord.String.Skip,
		vectorMUS.Skip,
		timeMUS.Skip,
		timeMUS.Skip,
	} {
		n1, err = skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}
