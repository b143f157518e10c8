// Package snapshot persists populations and entities as binary files. A
// population file carries the structural parameters, the operator bindings
// as registry ids, and every entity's fitness and chromosome encoding, so a
// run can be stopped and restarted across processes. Custom (unregistered)
// operators cannot travel; they are recorded as a sentinel and must be
// rebound after reading.
package snapshot

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"

	"github.com/XiaoConstantine/evo-go/pkg/errors"
)

const (
	populationMagic    = "FORMAT: EVO POPULATION 002"
	populationMagicV1  = "FORMAT: EVO POPULATION 001"
	entityMagic        = "FORMAT: EVO ENTITY 001"
	footer             = "END\x00"
	versionBlockLength = 64
	versionString      = "evo-go"
)

// Callback table slots. The table is written as 18 int32 ids in this order;
// the six codec slots all carry the codec's id. Append-only.
const (
	slotGenerationHook = iota
	slotIterationHook
	slotDataDestructor
	slotDataRefIncrementor
	slotCodecConstruct
	slotCodecDestruct
	slotCodecReplicate
	slotCodecToBytes
	slotCodecFromBytes
	slotCodecToString
	slotEvaluate
	slotSeed
	slotAdapt
	slotSelectOne
	slotSelectTwo
	slotMutate
	slotCrossover
	slotReplace
	numSlots
)

func corrupt(format string, args ...interface{}) {
	errors.Fatalf(errors.SnapshotCorrupt, format, args...)
}

type writer struct {
	w   *bufio.Writer
	err error
}

func (fw *writer) bytes(b []byte) {
	if fw.err != nil {
		return
	}
	_, fw.err = fw.w.Write(b)
}

func (fw *writer) int32(v int32) {
	fw.bytes(binary.LittleEndian.AppendUint32(nil, uint32(v)))
}

func (fw *writer) uint32(v uint32) {
	fw.bytes(binary.LittleEndian.AppendUint32(nil, v))
}

func (fw *writer) float64(v float64) {
	fw.bytes(binary.LittleEndian.AppendUint64(nil, math.Float64bits(v)))
}

type reader struct {
	r   *bufio.Reader
	err error
}

func (fr *reader) bytes(n int) []byte {
	if fr.err != nil {
		return nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(fr.r, buf); err != nil {
		fr.err = errors.Wrap(err, errors.SnapshotCorrupt, "snapshot truncated")
		return nil
	}
	return buf
}

func (fr *reader) int32() int32 {
	b := fr.bytes(4)
	if fr.err != nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

func (fr *reader) uint32() uint32 {
	b := fr.bytes(4)
	if fr.err != nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (fr *reader) float64() float64 {
	b := fr.bytes(8)
	if fr.err != nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func versionBlock() []byte {
	block := make([]byte, versionBlockLength)
	copy(block, versionString)
	return block
}
