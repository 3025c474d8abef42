package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the types persisted in the badger store. The record
// shapes are small and stable, so the serializers are maintained by hand
// rather than generated.
var (
	// IDMUS serializes ID values.
	IDMUS = idMUS{}
	// MappingTargetMUS serializes MappingTarget values.
	MappingTargetMUS = mappingTargetMUS{}
	// MappingMUS serializes Mapping values.
	MappingMUS = mappingMUS{}
	// ConceptVectorMUS serializes ConceptVector values.
	ConceptVectorMUS = conceptVectorMUS{}
)

var (
	vectorMUS  = ord.NewSliceSer[float32](raw.Float32)
	targetsMUS = ord.NewSliceSer[MappingTarget](MappingTargetMUS)
)

type idMUS struct{}

func (s idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (s idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (s idMUS) Size(id ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type mappingTargetMUS struct{}

func (s mappingTargetMUS) Marshal(t MappingTarget, bs []byte) (n int) {
	n = ord.String.Marshal(t.System, bs)
	n += ord.String.Marshal(t.Code, bs[n:])
	n += ord.String.Marshal(t.Display, bs[n:])
	n += ord.String.Marshal(t.Equivalence, bs[n:])
	return n
}

func (s mappingTargetMUS) Unmarshal(bs []byte) (t MappingTarget, n int, err error) {
	var n1 int
	t.System, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	t.Code, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	t.Display, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	t.Equivalence, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s mappingTargetMUS) Size(t MappingTarget) (size int) {
	size = ord.String.Size(t.System)
	size += ord.String.Size(t.Code)
	size += ord.String.Size(t.Display)
	size += ord.String.Size(t.Equivalence)
	return size
}

func (s mappingTargetMUS) Skip(bs []byte) (n int, err error) {
	var n1 int
	for i := 0; i < 4; i++ {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

type mappingMUS struct{}

func (s mappingMUS) Marshal(m Mapping, bs []byte) (n int) {
	n = ord.String.Marshal(m.System, bs)
	n += ord.String.Marshal(m.Code, bs[n:])
	n += ord.String.Marshal(m.Display, bs[n:])
	n += targetsMUS.Marshal(m.Targets, bs[n:])
	n += varint.Int64.Marshal(m.UpdatedAt.UnixMicro(), bs[n:])
	return n
}

func (s mappingMUS) Unmarshal(bs []byte) (m Mapping, n int, err error) {
	var n1 int
	m.System, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	m.Code, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.Display, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.Targets, n1, err = targetsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (s mappingMUS) Size(m Mapping) (size int) {
	size = ord.String.Size(m.System)
	size += ord.String.Size(m.Code)
	size += ord.String.Size(m.Display)
	size += targetsMUS.Size(m.Targets)
	size += varint.Int64.Size(m.UpdatedAt.UnixMicro())
	return size
}

type conceptVectorMUS struct{}

func (s conceptVectorMUS) Marshal(v ConceptVector, bs []byte) (n int) {
	n = ord.String.Marshal(v.System, bs)
	n += ord.String.Marshal(v.Code, bs[n:])
	n += vectorMUS.Marshal(v.Vector, bs[n:])
	return n
}

func (s conceptVectorMUS) Unmarshal(bs []byte) (v ConceptVector, n int, err error) {
	var n1 int
	v.System, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Code, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s conceptVectorMUS) Size(v ConceptVector) (size int) {
	size = ord.String.Size(v.System)
	size += ord.String.Size(v.Code)
	size += vectorMUS.Size(v.Vector)
	return size
}
