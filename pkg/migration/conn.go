// Package migration implements the island-model exchange protocol. Entities
// travel between populations only as serialized snapshots: a count, a
// reference encoding length, then one fitness and one chromosome buffer per
// emigrant. Transports are abstract; anything that can move framed byte
// messages in order can carry the protocol.
package migration

import (
	"encoding/binary"
	"math"

	"github.com/XiaoConstantine/evo-go/pkg/errors"
)

// Conn is a blocking, synchronous, message-oriented transport between two
// islands. Message boundaries are preserved: one Send is one Receive.
type Conn interface {
	Send(msg []byte) error
	Receive() ([]byte, error)
}

// ChannelConn is an in-process Conn over a pair of buffered channels. The
// archipelago engine wires one pipe per ring edge; the buffer is sized so a
// full generation's emigrants never block the sender.
type ChannelConn struct {
	out chan<- []byte
	in  <-chan []byte
}

// NewPipe returns two connected endpoints. Messages sent on one endpoint are
// received on the other, in order.
func NewPipe(buffer int) (*ChannelConn, *ChannelConn) {
	ab := make(chan []byte, buffer)
	ba := make(chan []byte, buffer)
	return &ChannelConn{out: ab, in: ba}, &ChannelConn{out: ba, in: ab}
}

func (c *ChannelConn) Send(msg []byte) error {
	c.out <- msg
	return nil
}

func (c *ChannelConn) Receive() ([]byte, error) {
	msg, ok := <-c.in
	if !ok {
		return nil, errors.New(errors.ProtocolViolation, "transport closed mid-stream")
	}
	return msg, nil
}

// Close shuts the sending side of the pipe. A peer blocked in Receive gets a
// protocol error.
func (c *ChannelConn) Close() {
	close(c.out)
}

// Scalar framing. Every scalar travels as its own little-endian message,
// mirroring one send per value on the original transport.

func sendInt32(conn Conn, v int32) error {
	return conn.Send(binary.LittleEndian.AppendUint32(nil, uint32(v)))
}

func receiveInt32(conn Conn) (int32, error) {
	msg, err := conn.Receive()
	if err != nil {
		return 0, err
	}
	if len(msg) != 4 {
		return 0, errors.New(errors.ProtocolViolation, "int32 frame has wrong size")
	}
	return int32(binary.LittleEndian.Uint32(msg)), nil
}

func sendFloat64(conn Conn, v float64) error {
	return conn.Send(binary.LittleEndian.AppendUint64(nil, math.Float64bits(v)))
}

func receiveFloat64(conn Conn) (float64, error) {
	msg, err := conn.Receive()
	if err != nil {
		return 0, err
	}
	if len(msg) != 8 {
		return 0, errors.New(errors.ProtocolViolation, "float64 frame has wrong size")
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(msg)), nil
}
