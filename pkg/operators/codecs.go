// Package operators provides the built-in chromosome codecs and operator
// strategies, together with the fixed id registry the snapshot format uses
// to persist which built-in is bound to each callback slot.
package operators

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/XiaoConstantine/evo-go/pkg/core"
	"github.com/XiaoConstantine/evo-go/pkg/errors"
)

func die(format string, args ...interface{}) {
	errors.Fatalf(errors.ContractViolation, format, args...)
}

// CharCodec encodes each chromosome as a byte string of the population's
// chromosome length. The workhorse codec for textual problems.
type CharCodec struct{}

func (CharCodec) Name() string { return "chromosome_char" }

func (CharCodec) Construct(pop *core.Population, e *core.Entity) {
	e.Chromosomes = make([]interface{}, pop.NumChromosomes())
	for i := range e.Chromosomes {
		e.Chromosomes[i] = make([]byte, pop.LenChromosomes())
	}
}

func (CharCodec) Destruct(pop *core.Population, e *core.Entity) {
	e.Chromosomes = nil
}

func (CharCodec) Replicate(pop *core.Population, src, dst *core.Entity, chromosome int) {
	copy(dst.Chromosomes[chromosome].([]byte), src.Chromosomes[chromosome].([]byte))
}

func (CharCodec) ToBytes(pop *core.Population, e *core.Entity) []byte {
	buf := make([]byte, 0, pop.NumChromosomes()*pop.LenChromosomes())
	for _, c := range e.Chromosomes {
		buf = append(buf, c.([]byte)...)
	}
	return buf
}

func (CharCodec) FromBytes(pop *core.Population, e *core.Entity, buf []byte) {
	want := pop.NumChromosomes() * pop.LenChromosomes()
	if len(buf) != want {
		die("char chromosome buffer is %d bytes, want %d", len(buf), want)
	}
	for i, c := range e.Chromosomes {
		copy(c.([]byte), buf[i*pop.LenChromosomes():])
	}
}

func (CharCodec) ToString(pop *core.Population, e *core.Entity) string {
	parts := make([]string, len(e.Chromosomes))
	for i, c := range e.Chromosomes {
		parts[i] = string(c.([]byte))
	}
	return strings.Join(parts, " ")
}

// IntegerCodec encodes each chromosome as a slice of int32 alleles.
type IntegerCodec struct{}

func (IntegerCodec) Name() string { return "chromosome_integer" }

func (IntegerCodec) Construct(pop *core.Population, e *core.Entity) {
	e.Chromosomes = make([]interface{}, pop.NumChromosomes())
	for i := range e.Chromosomes {
		e.Chromosomes[i] = make([]int32, pop.LenChromosomes())
	}
}

func (IntegerCodec) Destruct(pop *core.Population, e *core.Entity) {
	e.Chromosomes = nil
}

func (IntegerCodec) Replicate(pop *core.Population, src, dst *core.Entity, chromosome int) {
	copy(dst.Chromosomes[chromosome].([]int32), src.Chromosomes[chromosome].([]int32))
}

func (IntegerCodec) ToBytes(pop *core.Population, e *core.Entity) []byte {
	buf := make([]byte, 0, pop.NumChromosomes()*pop.LenChromosomes()*4)
	for _, c := range e.Chromosomes {
		for _, v := range c.([]int32) {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
		}
	}
	return buf
}

func (IntegerCodec) FromBytes(pop *core.Population, e *core.Entity, buf []byte) {
	want := pop.NumChromosomes() * pop.LenChromosomes() * 4
	if len(buf) != want {
		die("integer chromosome buffer is %d bytes, want %d", len(buf), want)
	}
	for _, c := range e.Chromosomes {
		alleles := c.([]int32)
		for i := range alleles {
			alleles[i] = int32(binary.LittleEndian.Uint32(buf))
			buf = buf[4:]
		}
	}
}

func (IntegerCodec) ToString(pop *core.Population, e *core.Entity) string {
	var b strings.Builder
	for i, c := range e.Chromosomes {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v", c.([]int32))
	}
	return b.String()
}

// BooleanCodec encodes each chromosome as a slice of bools, one byte per
// allele on the wire.
type BooleanCodec struct{}

func (BooleanCodec) Name() string { return "chromosome_boolean" }

func (BooleanCodec) Construct(pop *core.Population, e *core.Entity) {
	e.Chromosomes = make([]interface{}, pop.NumChromosomes())
	for i := range e.Chromosomes {
		e.Chromosomes[i] = make([]bool, pop.LenChromosomes())
	}
}

func (BooleanCodec) Destruct(pop *core.Population, e *core.Entity) {
	e.Chromosomes = nil
}

func (BooleanCodec) Replicate(pop *core.Population, src, dst *core.Entity, chromosome int) {
	copy(dst.Chromosomes[chromosome].([]bool), src.Chromosomes[chromosome].([]bool))
}

func (BooleanCodec) ToBytes(pop *core.Population, e *core.Entity) []byte {
	buf := make([]byte, 0, pop.NumChromosomes()*pop.LenChromosomes())
	for _, c := range e.Chromosomes {
		for _, v := range c.([]bool) {
			if v {
				buf = append(buf, 1)
			} else {
				buf = append(buf, 0)
			}
		}
	}
	return buf
}

func (BooleanCodec) FromBytes(pop *core.Population, e *core.Entity, buf []byte) {
	want := pop.NumChromosomes() * pop.LenChromosomes()
	if len(buf) != want {
		die("boolean chromosome buffer is %d bytes, want %d", len(buf), want)
	}
	for _, c := range e.Chromosomes {
		alleles := c.([]bool)
		for i := range alleles {
			alleles[i] = buf[0] != 0
			buf = buf[1:]
		}
	}
}

func (BooleanCodec) ToString(pop *core.Population, e *core.Entity) string {
	var b strings.Builder
	for i, c := range e.Chromosomes {
		if i > 0 {
			b.WriteByte(' ')
		}
		for _, v := range c.([]bool) {
			if v {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
	}
	return b.String()
}

// DoubleCodec encodes each chromosome as a slice of float64 alleles.
type DoubleCodec struct{}

func (DoubleCodec) Name() string { return "chromosome_double" }

func (DoubleCodec) Construct(pop *core.Population, e *core.Entity) {
	e.Chromosomes = make([]interface{}, pop.NumChromosomes())
	for i := range e.Chromosomes {
		e.Chromosomes[i] = make([]float64, pop.LenChromosomes())
	}
}

func (DoubleCodec) Destruct(pop *core.Population, e *core.Entity) {
	e.Chromosomes = nil
}

func (DoubleCodec) Replicate(pop *core.Population, src, dst *core.Entity, chromosome int) {
	copy(dst.Chromosomes[chromosome].([]float64), src.Chromosomes[chromosome].([]float64))
}

func (DoubleCodec) ToBytes(pop *core.Population, e *core.Entity) []byte {
	buf := make([]byte, 0, pop.NumChromosomes()*pop.LenChromosomes()*8)
	for _, c := range e.Chromosomes {
		for _, v := range c.([]float64) {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
	}
	return buf
}

func (DoubleCodec) FromBytes(pop *core.Population, e *core.Entity, buf []byte) {
	want := pop.NumChromosomes() * pop.LenChromosomes() * 8
	if len(buf) != want {
		die("double chromosome buffer is %d bytes, want %d", len(buf), want)
	}
	for _, c := range e.Chromosomes {
		alleles := c.([]float64)
		for i := range alleles {
			alleles[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf))
			buf = buf[8:]
		}
	}
}

func (DoubleCodec) ToString(pop *core.Population, e *core.Entity) string {
	var b strings.Builder
	for i, c := range e.Chromosomes {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v", c.([]float64))
	}
	return b.String()
}

// BitstringCodec encodes each chromosome as a packed bit vector of the
// population's chromosome length.
type BitstringCodec struct{}

func (BitstringCodec) Name() string { return "chromosome_bitstring" }

func bitstringBytes(bits int) int { return (bits + 7) / 8 }

// BitstringGet reads one bit from a packed chromosome.
func BitstringGet(bits []byte, i int) bool {
	return bits[i/8]&(1<<(uint(i)%8)) != 0
}

// BitstringSet writes one bit in a packed chromosome.
func BitstringSet(bits []byte, i int, v bool) {
	if v {
		bits[i/8] |= 1 << (uint(i) % 8)
	} else {
		bits[i/8] &^= 1 << (uint(i) % 8)
	}
}

func (BitstringCodec) Construct(pop *core.Population, e *core.Entity) {
	e.Chromosomes = make([]interface{}, pop.NumChromosomes())
	for i := range e.Chromosomes {
		e.Chromosomes[i] = make([]byte, bitstringBytes(pop.LenChromosomes()))
	}
}

func (BitstringCodec) Destruct(pop *core.Population, e *core.Entity) {
	e.Chromosomes = nil
}

func (BitstringCodec) Replicate(pop *core.Population, src, dst *core.Entity, chromosome int) {
	copy(dst.Chromosomes[chromosome].([]byte), src.Chromosomes[chromosome].([]byte))
}

func (BitstringCodec) ToBytes(pop *core.Population, e *core.Entity) []byte {
	buf := make([]byte, 0, pop.NumChromosomes()*bitstringBytes(pop.LenChromosomes()))
	for _, c := range e.Chromosomes {
		buf = append(buf, c.([]byte)...)
	}
	return buf
}

func (BitstringCodec) FromBytes(pop *core.Population, e *core.Entity, buf []byte) {
	per := bitstringBytes(pop.LenChromosomes())
	want := pop.NumChromosomes() * per
	if len(buf) != want {
		die("bitstring chromosome buffer is %d bytes, want %d", len(buf), want)
	}
	for i, c := range e.Chromosomes {
		copy(c.([]byte), buf[i*per:])
	}
}

func (BitstringCodec) ToString(pop *core.Population, e *core.Entity) string {
	var b strings.Builder
	for i, c := range e.Chromosomes {
		if i > 0 {
			b.WriteByte(' ')
		}
		bits := c.([]byte)
		for j := 0; j < pop.LenChromosomes(); j++ {
			if BitstringGet(bits, j) {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
	}
	return b.String()
}
