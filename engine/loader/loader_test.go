package loader

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-bloom/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleBin packs three positions in the XY plane followed by three uint16 indices.
func triangleBin() []byte {
	var buf bytes.Buffer
	for _, f := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		binary.Write(&buf, binary.LittleEndian, math.Float32bits(f))
	}
	for _, i := range []uint16{0, 1, 2} {
		binary.Write(&buf, binary.LittleEndian, i)
	}
	return buf.Bytes()
}

func triangleDoc(buffer map[string]any) map[string]any {
	return map[string]any{
		"asset":  map[string]any{"version": "2.0"},
		"scene":  0,
		"scenes": []any{map[string]any{"name": "helmet", "nodes": []int{0}}},
		"nodes":  []any{map[string]any{"mesh": 0}},
		"meshes": []any{map[string]any{
			"name": "tri",
			"primitives": []any{map[string]any{
				"attributes": map[string]int{"POSITION": 0},
				"indices":    1,
				"material":   0,
			}},
		}},
		"materials": []any{map[string]any{
			"name": "shell",
			"pbrMetallicRoughness": map[string]any{
				"baseColorFactor": []float32{1, 0, 0, 1},
				"metallicFactor":  0.5,
			},
			"emissiveFactor": []float32{1, 1, 1},
			"extensions": map[string]any{
				"KHR_materials_emissive_strength": map[string]any{"emissiveStrength": 2},
			},
		}},
		"accessors": []any{
			map[string]any{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"},
			map[string]any{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"},
		},
		"bufferViews": []any{
			map[string]any{"buffer": 0, "byteOffset": 0, "byteLength": 36},
			map[string]any{"buffer": 0, "byteOffset": 36, "byteLength": 6},
		},
		"buffers": []any{buffer},
	}
}

func pad4(b []byte, fill byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, fill)
	}
	return b
}

func buildGLB(t *testing.T, doc map[string]any, bin []byte) []byte {
	t.Helper()
	js, err := json.Marshal(doc)
	require.NoError(t, err)
	js = pad4(js, ' ')
	bin = pad4(append([]byte(nil), bin...), 0)

	var out bytes.Buffer
	total := 12 + 8 + len(js) + 8 + len(bin)
	binary.Write(&out, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: uint32(total)})
	binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(js)), ChunkType: gltfGLBChunkJSON})
	out.Write(js)
	binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(bin)), ChunkType: gltfGLBChunkBIN})
	out.Write(bin)
	return out.Bytes()
}

func triangleGLB(t *testing.T) []byte {
	return buildGLB(t, triangleDoc(map[string]any{"byteLength": 42}), triangleBin())
}

func assertTriangle(t *testing.T, m model.Model) {
	t.Helper()
	require.NotNil(t, m)
	assert.Equal(t, "helmet", m.Name())
	require.Len(t, m.Meshes(), 1)

	mesh := m.Meshes()[0]
	assert.Equal(t, "tri", mesh.Name)
	assert.Equal(t, []uint32{0, 1, 2}, mesh.Indices)
	require.Len(t, mesh.Vertices, 3)
	assert.Equal(t, [3]float32{1, 0, 0}, mesh.Vertices[1].Position)
	for _, v := range mesh.Vertices {
		assert.Equal(t, [3]float32{0, 0, 1}, v.Normal)
		assert.Equal(t, [4]float32{1, 1, 1, 1}, v.Color)
	}
	assert.Equal(t, 0, mesh.MaterialIndex)
	assert.Equal(t, [3]float32{1, 1, 0}, mesh.BoundingMax)

	require.Len(t, m.Materials(), 1)
	mat := m.Materials()[0]
	assert.Equal(t, "shell", mat.Name)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, mat.BaseColor)
	assert.Equal(t, float32(0.5), mat.Metallic)
	assert.Equal(t, float32(1), mat.Roughness)
	assert.Equal(t, [3]float32{2, 2, 2}, mat.Emissive)
}

func TestDecodeInMemoryGLB(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	m, err := l.Decode("memory", triangleGLB(t))
	require.NoError(t, err)
	assertTriangle(t, m)
	assert.Same(t, m, l.Get("memory"))
}

func TestDecodeEmbeddedDataURI(t *testing.T) {
	uri := "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(triangleBin())
	js, err := json.Marshal(triangleDoc(map[string]any{"byteLength": 42, "uri": uri}))
	require.NoError(t, err)

	m, err := NewLoader(BackendTypeGLTF).Decode("inline.gltf", js)
	require.NoError(t, err)
	assertTriangle(t, m)
}

func TestLoadSyncFromFileReportsProgress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "helmet.glb")
	require.NoError(t, os.WriteFile(path, triangleGLB(t), 0o644))

	var mu sync.Mutex
	var fractions []float32
	l := NewLoader(BackendTypeGLTF, WithOnProgress(func(_ string, f float32) {
		mu.Lock()
		fractions = append(fractions, f)
		mu.Unlock()
	}))

	m, err := l.LoadSync(context.Background(), path)
	require.NoError(t, err)
	assertTriangle(t, m)
	assert.Equal(t, path, m.Source())

	require.NotEmpty(t, fractions)
	assert.Equal(t, float32(1), fractions[len(fractions)-1])
	assert.IsNonDecreasing(t, fractions)

	again, err := l.LoadSync(context.Background(), path)
	require.NoError(t, err)
	assert.Same(t, m, again)
	assert.Len(t, l.Models(), 1)
}

func TestLoadAsyncDeliversThroughDrain(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "helmet.glb")
	require.NoError(t, os.WriteFile(good, triangleGLB(t), 0o644))

	var loaded, failed []Result
	l := NewLoader(BackendTypeGLTF,
		WithOnLoad(func(r Result) { loaded = append(loaded, r) }),
		WithOnError(func(r Result) { failed = append(failed, r) }),
	)
	defer l.Close()

	require.NoError(t, l.Load(context.Background(), good))
	require.NoError(t, l.Load(context.Background(), filepath.Join(dir, "missing.glb")))

	require.Eventually(t, func() bool {
		l.Drain()
		return len(loaded)+len(failed) == 2
	}, 5*time.Second, 5*time.Millisecond)

	require.Len(t, loaded, 1)
	assertTriangle(t, loaded[0].Model)
	require.Len(t, failed, 1)
	assert.Nil(t, failed[0].Model)
	assert.ErrorIs(t, failed[0].Err, os.ErrNotExist)
}

func TestLoadOverHTTP(t *testing.T) {
	glb := triangleGLB(t)
	js, err := json.Marshal(triangleDoc(map[string]any{"byteLength": 42, "uri": "tri.bin"}))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/models/helmet.glb", func(w http.ResponseWriter, _ *http.Request) { w.Write(glb) })
	mux.HandleFunc("/models/helmet.gltf", func(w http.ResponseWriter, _ *http.Request) { w.Write(js) })
	mux.HandleFunc("/models/tri.bin", func(w http.ResponseWriter, _ *http.Request) { w.Write(triangleBin()) })
	srv := httptest.NewServer(mux)
	defer srv.Close()

	l := NewLoader(BackendTypeGLTF, WithHTTPClient(srv.Client()))
	m, err := l.LoadSync(context.Background(), srv.URL+"/models/helmet.glb")
	require.NoError(t, err)
	assertTriangle(t, m)

	m, err = l.LoadSync(context.Background(), srv.URL+"/models/helmet.gltf")
	require.NoError(t, err)
	assertTriangle(t, m)

	_, err = l.LoadSync(context.Background(), srv.URL+"/models/absent.glb")
	assert.Error(t, err)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := NewLoader(BackendTypeGLTF).LoadSync(context.Background(), "helmet.obj")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func dracoDoc() []byte {
	doc := map[string]any{
		"asset":              map[string]any{"version": "2.0"},
		"extensionsUsed":     []string{ExtensionDraco},
		"extensionsRequired": []string{ExtensionDraco},
		"meshes": []any{map[string]any{
			"name": "packed",
			"primitives": []any{map[string]any{
				"attributes": map[string]int{"POSITION": 0},
				"extensions": map[string]any{
					ExtensionDraco: map[string]any{"bufferView": 0, "attributes": map[string]int{"POSITION": 0}},
				},
			}},
		}},
		"accessors":   []any{map[string]any{"componentType": 5126, "count": 3, "type": "VEC3"}},
		"bufferViews": []any{map[string]any{"buffer": 0, "byteLength": 4}},
		"buffers": []any{map[string]any{
			"byteLength": 4,
			"uri":        "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString([]byte{1, 2, 3, 4}),
		}},
	}
	js, _ := json.Marshal(doc)
	return js
}

func TestRequiredExtensionWithoutDecompressor(t *testing.T) {
	_, err := NewLoader(BackendTypeGLTF).Decode("packed.gltf", dracoDoc())
	assert.ErrorIs(t, err, ErrUnsupportedExtension)
}

func TestRegisteredDecompressor(t *testing.T) {
	var got CompressedPrimitive
	d := DecompressorFunc(func(p CompressedPrimitive) ([]model.GPUVertex, []uint32, error) {
		got = p
		return []model.GPUVertex{
			{Position: [3]float32{0, 0, 0}},
			{Position: [3]float32{1, 0, 0}},
			{Position: [3]float32{0, 1, 0}},
		}, []uint32{0, 1, 2}, nil
	})

	m, err := NewLoader(BackendTypeGLTF, WithDecompressor(ExtensionDraco, d)).Decode("packed.gltf", dracoDoc())
	require.NoError(t, err)

	assert.Equal(t, []byte{1, 2, 3, 4}, got.Data)
	assert.Equal(t, map[string]int{"POSITION": 0}, got.Attributes)
	assert.Equal(t, 3, got.VertexCount)

	require.Len(t, m.Meshes(), 1)
	mesh := m.Meshes()[0]
	assert.Equal(t, -1, mesh.MaterialIndex)
	for _, v := range mesh.Vertices {
		assert.Equal(t, [4]float32{1, 1, 1, 1}, v.Color)
		assert.Equal(t, [3]float32{0, 0, 1}, v.Normal)
	}
}

func TestDecoderPanicIsContained(t *testing.T) {
	d := DecompressorFunc(func(CompressedPrimitive) ([]model.GPUVertex, []uint32, error) {
		panic("corrupt stream")
	})
	l := NewLoader(BackendTypeGLTF, WithDecompressor(ExtensionDraco, d))

	var m model.Model
	var err error
	assert.NotPanics(t, func() { m, err = l.Decode("packed.gltf", dracoDoc()) })
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrPanic)
	assert.Nil(t, l.Get("packed.gltf"))

	m, err = l.Decode("memory", triangleGLB(t))
	require.NoError(t, err)
	assertTriangle(t, m)
}

func TestMalformedAssetsFail(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)

	_, err := l.Decode("garbage", []byte("not a model"))
	assert.Error(t, err)

	short := triangleDoc(map[string]any{"byteLength": 42})
	short["accessors"] = []any{
		map[string]any{"bufferView": 0, "componentType": 5126, "count": 30, "type": "VEC3"},
		map[string]any{"bufferView": 1, "componentType": 5123, "count": 3, "type": "SCALAR"},
	}
	_, err = l.Decode("short", buildGLB(t, short, triangleBin()))
	assert.ErrorIs(t, err, errAccessorBounds)

	badIndex := triangleBin()
	binary.LittleEndian.PutUint16(badIndex[40:], 9)
	_, err = l.Decode("bad-index", buildGLB(t, triangleDoc(map[string]any{"byteLength": 42}), badIndex))
	assert.Error(t, err)

	old := triangleDoc(map[string]any{"byteLength": 42})
	old["asset"] = map[string]any{"version": "1.0"}
	_, err = l.Decode("old", buildGLB(t, old, triangleBin()))
	assert.ErrorIs(t, err, errInvalidGLTFVersion)
}

func TestLoadAfterClose(t *testing.T) {
	l := NewLoader(BackendTypeGLTF)
	l.Close()
	l.Close()
	assert.ErrorIs(t, l.Load(context.Background(), "helmet.glb"), ErrClosed)
}
