package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
)

// bounceBuffer lays out the accessors of bounceDocument:
//
//	0: times       [0, 1]                 8 bytes at 0
//	1: translation [0 0 0] [0 2 0]       24 bytes at 8
//	2: weights     [0 1] [1 0]           16 bytes at 32
//	3: rotation    normalized SHORT VEC4 16 bytes at 48
func bounceBuffer(tb testing.TB) []byte {
	tb.Helper()
	var buf bytes.Buffer
	for _, v := range []any{
		[]float32{0, 1},
		[]float32{0, 0, 0, 0, 2, 0},
		[]float32{0, 1, 1, 0},
		[]int16{0, 0, 0, 32767, 0, 32767, 0, 0},
	} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			tb.Fatal(err)
		}
	}
	return buf.Bytes()
}

// bounceDocument describes one animation, "bounce", with a translation and a
// rotation channel on node "cube" and a STEP weights channel on an unnamed node
// whose mesh has two morph targets with rest weights [0.25 0.75].
// An empty uri leaves the buffer to a GLB binary chunk.
func bounceDocument(tb testing.TB, uri string) []byte {
	tb.Helper()
	buffer := map[string]any{"byteLength": 64}
	if uri != "" {
		buffer["uri"] = uri
	}
	doc := map[string]any{
		"asset": map[string]any{"version": "2.0"},
		"nodes": []any{
			map[string]any{"name": "cube"},
			map[string]any{"mesh": 0},
		},
		"meshes": []any{map[string]any{
			"weights": []float32{0.25, 0.75},
			"primitives": []any{map[string]any{
				"attributes": map[string]any{"POSITION": 1},
				"targets":    []any{map[string]any{"POSITION": 1}, map[string]any{"POSITION": 1}},
			}},
		}},
		"buffers": []any{buffer},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 8},
			map[string]any{"buffer": 0, "byteOffset": 8, "byteLength": 24},
			map[string]any{"buffer": 0, "byteOffset": 32, "byteLength": 16},
			map[string]any{"buffer": 0, "byteOffset": 48, "byteLength": 16},
		},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": gltfComponentTypeFloat, "count": 2, "type": "SCALAR"},
			map[string]any{"bufferView": 1, "componentType": gltfComponentTypeFloat, "count": 2, "type": "VEC3"},
			map[string]any{"bufferView": 2, "componentType": gltfComponentTypeFloat, "count": 4, "type": "SCALAR"},
			map[string]any{"bufferView": 3, "componentType": gltfComponentTypeShort, "normalized": true, "count": 2, "type": "VEC4"},
		},
		"animations": []any{map[string]any{
			"name": "bounce",
			"samplers": []any{
				map[string]any{"input": 0, "output": 1},
				map[string]any{"input": 0, "output": 2, "interpolation": "STEP"},
				map[string]any{"input": 0, "output": 3, "interpolation": "LINEAR"},
			},
			"channels": []any{
				map[string]any{"sampler": 0, "target": map[string]any{"node": 0, "path": "translation"}},
				map[string]any{"sampler": 1, "target": map[string]any{"node": 1, "path": "weights"}},
				map[string]any{"sampler": 2, "target": map[string]any{"node": 0, "path": "rotation"}},
			},
		}},
	}
	b, err := json.Marshal(doc)
	if err != nil {
		tb.Fatal(err)
	}
	return b
}

func bounceGLTF(tb testing.TB) []byte {
	tb.Helper()
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(bounceBuffer(tb))
	return bounceDocument(tb, uri)
}

// patchGLTF decodes doc, lets patch edit it and encodes it again.
func patchGLTF(tb testing.TB, doc []byte, patch func(doc map[string]any)) []byte {
	tb.Helper()
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		tb.Fatal(err)
	}
	patch(m)
	b, err := json.Marshal(m)
	if err != nil {
		tb.Fatal(err)
	}
	return b
}

func bounceGLB(tb testing.TB) []byte {
	tb.Helper()
	jsonChunk := bounceDocument(tb, "")
	for len(jsonChunk)%4 != 0 {
		jsonChunk = append(jsonChunk, ' ')
	}
	binChunk := bounceBuffer(tb)

	var out bytes.Buffer
	write := func(v any) {
		if err := binary.Write(&out, binary.LittleEndian, v); err != nil {
			tb.Fatal(err)
		}
	}
	write(gltfGLBHeader{Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: uint32(12 + 8 + len(jsonChunk) + 8 + len(binChunk))})
	write(gltfGLBChunkHeader{ChunkLength: uint32(len(jsonChunk)), ChunkType: gltfGLBChunkJSON})
	out.Write(jsonChunk)
	write(gltfGLBChunkHeader{ChunkLength: uint32(len(binChunk)), ChunkType: gltfGLBChunkBIN})
	out.Write(binChunk)
	return out.Bytes()
}

// objects returns a resolver over freshly built game objects.
func objects(names ...string) (TargetResolver, map[string]game_object.GameObject) {
	objs := make(map[string]game_object.GameObject, len(names))
	for _, name := range names {
		objs[name] = game_object.NewGameObject(game_object.WithName(name), game_object.WithMorphTargets(2))
	}
	return TargetResolverFunc(func(name string) (animation.Target, bool) {
		obj, ok := objs[name]
		if !ok {
			return nil, false
		}
		return obj, true
	}), objs
}

func channelByPath(tb testing.TB, data ClipData, path animation.Path) animation.ChannelData {
	tb.Helper()
	for _, ch := range data.Channels {
		if ch.Path == path {
			return ch
		}
	}
	tb.Fatalf("clip %q has no %s channel", data.Name, path)
	return animation.ChannelData{}
}
