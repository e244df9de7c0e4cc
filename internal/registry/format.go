package registry

import (
	"github.com/simonhull/rawksd/internal/types"
)

// Format is a song data plugin: one kind of stream a song can carry
// (metadata, audio, chart, album art).
//
// Callers must check the capability queries (Readable, Writable, CanRemux,
// CanTransfer) before invoking the matching operation. The package-level
// Decode, Encode, Remux and Transfer helpers do that and return an
// UnsupportedOperationError when a capability is missing.
type Format interface {
	ID() int
	Name() string
	Type() types.FormatType
	Readable() bool
	Writable() bool

	// Decode converts the stored streams into a model. It may return nil
	// when the format has no independently meaningful decoded value.
	Decode(data *FormatData) (any, error)

	// Encode is the inverse of Decode.
	Encode(model any, data *FormatData) error

	CanRemux(to Format) bool
	Remux(to Format, src, dst *FormatData) error

	// CanTransfer reports whether this format's streams in data can be
	// copied into another container without reinterpretation.
	CanTransfer(data *FormatData) bool

	// HasFormat reports whether data carries this format's stream.
	HasFormat(data *FormatData) bool
}

// Descriptor holds the immutable identity of a Format and supplies default
// capability behavior. Plugins embed it and override what they support.
type Descriptor struct {
	name     string
	id       int
	typ      types.FormatType
	readable bool
	writable bool
}

// NewDescriptor returns a descriptor.
func NewDescriptor(id int, name string, typ types.FormatType, readable, writable bool) Descriptor {
	return Descriptor{id: id, name: name, typ: typ, readable: readable, writable: writable}
}

func (d Descriptor) ID() int                { return d.id }
func (d Descriptor) Name() string           { return d.name }
func (d Descriptor) Type() types.FormatType { return d.typ }
func (d Descriptor) Readable() bool         { return d.readable }
func (d Descriptor) Writable() bool         { return d.writable }

// CanRemux is reflexive: a format remuxes only with itself.
func (d Descriptor) CanRemux(to Format) bool {
	return to != nil && to.ID() == d.id
}

// Remux copies this format's streams when remuxing with itself.
func (d Descriptor) Remux(to Format, src, dst *FormatData) error {
	if !d.CanRemux(to) {
		return &types.UnsupportedOperationError{Format: d.name, Op: "remux"}
	}
	dst.copyStreams(src, d.id)
	return nil
}

// CanTransfer defaults to false.
func (d Descriptor) CanTransfer(*FormatData) bool { return false }

// Decode reports the operation as unsupported.
func (d Descriptor) Decode(*FormatData) (any, error) {
	return nil, &types.UnsupportedOperationError{Format: d.name, Op: "decode"}
}

// Encode reports the operation as unsupported.
func (d Descriptor) Encode(any, *FormatData) error {
	return &types.UnsupportedOperationError{Format: d.name, Op: "encode"}
}

// Decode calls f.Decode if f is readable.
func Decode(f Format, data *FormatData) (any, error) {
	if !f.Readable() {
		return nil, &types.UnsupportedOperationError{Format: f.Name(), Op: "decode"}
	}
	return f.Decode(data)
}

// Encode calls f.Encode if f is writable.
func Encode(f Format, model any, data *FormatData) error {
	if !f.Writable() {
		return &types.UnsupportedOperationError{Format: f.Name(), Op: "encode"}
	}
	return f.Encode(model, data)
}

// Remux calls f.Remux if f declares it can remux to the target.
func Remux(f, to Format, src, dst *FormatData) error {
	if !f.CanRemux(to) {
		return &types.UnsupportedOperationError{Format: f.Name(), Op: "remux to " + to.Name()}
	}
	return f.Remux(to, src, dst)
}

// Transfer copies f's streams from src to dst unchanged.
func Transfer(f Format, src, dst *FormatData) error {
	if !f.CanTransfer(src) {
		return &types.UnsupportedOperationError{Format: f.Name(), Op: "transfer"}
	}
	dst.copyStreams(src, f.ID())
	return nil
}
