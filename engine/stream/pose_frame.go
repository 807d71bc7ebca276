package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
)

// ErrShortFrame is returned when a binary pose frame ends early.
var ErrShortFrame = errors.New("stream: pose frame truncated")

// ObjectPose is the sampled state of one object.
type ObjectPose struct {
	ID       uint64
	Position [3]float32
	Rotation [4]float32
	Scale    [3]float32
	Weights  []float32
}

// PoseFrame is a snapshot of every object in a scene at one tick.
type PoseFrame struct {
	Sequence uint32
	Objects  []ObjectPose
}

const (
	frameHeaderSize = 4 + 2
	poseFixedSize   = 8 + 10*4 + 2
)

// Capture snapshots objs into a frame.
//
// Parameters:
//   - seq: the frame sequence number
//   - objs: the objects, usually scene.Objects()
//
// Returns:
//   - PoseFrame: the snapshot
func Capture(seq uint32, objs []game_object.GameObject) PoseFrame {
	f := PoseFrame{Sequence: seq, Objects: make([]ObjectPose, 0, len(objs))}
	for _, obj := range objs {
		f.Objects = append(f.Objects, ObjectPose{
			ID:       obj.ID(),
			Position: obj.Position(),
			Rotation: obj.Rotation(),
			Scale:    obj.Scale(),
			Weights:  obj.Weights(),
		})
	}
	return f
}

// MarshalBinary encodes the frame little-endian: sequence (u32), object count
// (u16), then per object its id (u64), position, rotation (x, y, z, w) and
// scale as f32, a weight count (u16) and the weights.
func (f PoseFrame) MarshalBinary() ([]byte, error) {
	if len(f.Objects) > math.MaxUint16 {
		return nil, fmt.Errorf("stream: %d objects exceed the frame limit", len(f.Objects))
	}
	size := frameHeaderSize
	for _, o := range f.Objects {
		if len(o.Weights) > math.MaxUint16 {
			return nil, fmt.Errorf("stream: object %d has %d weights", o.ID, len(o.Weights))
		}
		size += poseFixedSize + 4*len(o.Weights)
	}

	data := make([]byte, 0, size)
	data = binary.LittleEndian.AppendUint32(data, f.Sequence)
	data = binary.LittleEndian.AppendUint16(data, uint16(len(f.Objects)))
	for _, o := range f.Objects {
		data = binary.LittleEndian.AppendUint64(data, o.ID)
		data = appendFloats(data, o.Position[:])
		data = appendFloats(data, o.Rotation[:])
		data = appendFloats(data, o.Scale[:])
		data = binary.LittleEndian.AppendUint16(data, uint16(len(o.Weights)))
		data = appendFloats(data, o.Weights)
	}
	return data, nil
}

// UnmarshalBinary decodes a frame written by MarshalBinary.
func (f *PoseFrame) UnmarshalBinary(data []byte) error {
	if len(data) < frameHeaderSize {
		return ErrShortFrame
	}
	f.Sequence = binary.LittleEndian.Uint32(data)
	n := int(binary.LittleEndian.Uint16(data[4:]))
	data = data[frameHeaderSize:]

	f.Objects = make([]ObjectPose, n)
	for i := range f.Objects {
		if len(data) < poseFixedSize {
			return fmt.Errorf("%w: object %d", ErrShortFrame, i)
		}
		o := &f.Objects[i]
		o.ID = binary.LittleEndian.Uint64(data)
		data = readFloats(data[8:], o.Position[:])
		data = readFloats(data, o.Rotation[:])
		data = readFloats(data, o.Scale[:])
		w := int(binary.LittleEndian.Uint16(data))
		data = data[2:]
		if len(data) < 4*w {
			return fmt.Errorf("%w: object %d weights", ErrShortFrame, i)
		}
		if w > 0 {
			o.Weights = make([]float32, w)
			data = readFloats(data, o.Weights)
		}
	}
	return nil
}

func appendFloats(data []byte, vs []float32) []byte {
	for _, v := range vs {
		data = binary.LittleEndian.AppendUint32(data, math.Float32bits(v))
	}
	return data
}

func readFloats(data []byte, dst []float32) []byte {
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return data[4*len(dst):]
}
