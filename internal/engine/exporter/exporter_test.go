package exporter

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/model"
	"github.com/Faultbox/pbrview/internal/engine/scene"
)

func addMesh(t *testing.T, sc *scene.Scene, b *scene.Builder, mesh *model.MeshData, tr scene.Transform, keep bool) *scene.MeshInstance {
	t.Helper()
	tr.Update()
	inst, err := b.Upload(mesh, 0, tr, keep)
	require.NoError(t, err)
	sc.AddInstance(inst)
	return inst
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		lines = append(lines, s.Text())
	}
	require.NoError(t, s.Err())
	return lines
}

func withPrefix(lines []string, prefix string) []string {
	var out []string
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			out = append(out, l)
		}
	}
	return out
}

func parseVec(t *testing.T, line string) []float32 {
	t.Helper()
	fields := strings.Fields(line)[1:]
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		require.NoError(t, err, "line %q", line)
		out[i] = float32(v)
	}
	return out
}

func TestExportEmptyScene(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "scene.obj")

	_, err := Export(scene.New(), path, "scene.mtl")
	if !errors.Is(err, ErrEmptyScene) {
		t.Fatalf("expected ErrEmptyScene, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no obj file, stat returned %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "scene.mtl")); !os.IsNotExist(err) {
		t.Errorf("expected no mtl file, stat returned %v", err)
	}
}

func TestExportCounts(t *testing.T) {
	rec := gpu.NewRecorder()
	sc := scene.New()
	b := scene.NewBuilder(rec)
	cube := model.Cube()
	addMesh(t, sc, b, cube, scene.NewTransform(), true)

	path := filepath.Join(t.TempDir(), "nested", "dir", "cube.obj")
	res, err := Export(sc, path, "cube.mtl")
	require.NoError(t, err)

	assert.Equal(t, Result{
		OBJPath:  path,
		MTLPath:  filepath.Join(filepath.Dir(path), "cube.mtl"),
		Meshes:   1,
		Vertices: cube.VertexCount(),
		Faces:    cube.TriangleCount(),
	}, res)

	lines := readLines(t, path)
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, Header, lines[0])
	assert.Equal(t, "mtllib cube.mtl", lines[1])
	assert.Len(t, withPrefix(lines, "v "), 24)
	assert.Len(t, withPrefix(lines, "vn "), 24)
	assert.Len(t, withPrefix(lines, "vt "), 24)
	assert.Len(t, withPrefix(lines, "f "), 12)
	assert.Contains(t, lines, "o mesh_0")
	assert.Contains(t, lines, "usemtl mat_0")
}

func TestExportFilesAreWorldReadable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	rec := gpu.NewRecorder()
	sc := scene.New()
	addMesh(t, sc, scene.NewBuilder(rec), model.Quad(), scene.NewTransform(), true)

	res, err := Export(sc, filepath.Join(t.TempDir(), "quad.obj"), "")
	require.NoError(t, err)

	for _, path := range []string{res.OBJPath, res.MTLPath} {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, FileMode, info.Mode().Perm(), "%s", filepath.Base(path))
	}
}

func TestExportRunningOffsetAndTransform(t *testing.T) {
	rec := gpu.NewRecorder()
	sc := scene.New()
	b := scene.NewBuilder(rec)

	addMesh(t, sc, b, model.Quad(), scene.NewTransform(), true)
	moved := scene.At(mgl32.Vec3{1, 2, 3})
	inst := addMesh(t, sc, b, model.Quad(), moved, true)
	inst.TexturePath = "textures/albedo.png"

	path := filepath.Join(t.TempDir(), "scene.obj")
	res, err := Export(sc, path, "")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Meshes)
	assert.Equal(t, 8, res.Vertices)
	assert.Equal(t, 4, res.Faces)
	assert.Equal(t, DefaultMTLName, filepath.Base(res.MTLPath))

	lines := readLines(t, path)
	faces := withPrefix(lines, "f ")
	require.Len(t, faces, 4)
	assert.Equal(t, "f 1/1/1 2/2/2 3/3/3", faces[0])
	assert.Equal(t, "f 5/5/5 6/6/6 7/7/7", faces[2])
	assert.Equal(t, "f 5/5/5 7/7/7 8/8/8", faces[3])

	verts := withPrefix(lines, "v ")
	require.Len(t, verts, 8)
	assert.Equal(t, []float32{0.5, 1.5, 3}, parseVec(t, verts[4]))

	uvs := withPrefix(lines, "vt ")
	assert.Equal(t, []float32{0, 1}, parseVec(t, uvs[0]), "v is flipped")

	mtl := readLines(t, res.MTLPath)
	assert.Equal(t, []string{
		"newmtl mat_0",
		"Kd 1.000 1.000 1.000",
		"Ka 0.000 0.000 0.000",
		"Ks 0.000 0.000 0.000",
		"",
		"newmtl mat_1",
		"Kd 1.000 1.000 1.000",
		"Ka 0.000 0.000 0.000",
		"Ks 0.000 0.000 0.000",
		"map_Kd textures/albedo.png",
		"",
	}, mtl)
}

func TestExportNormalsUseInverseTranspose(t *testing.T) {
	rec := gpu.NewRecorder()
	sc := scene.New()
	b := scene.NewBuilder(rec)

	// A plane tilted 45 degrees, then squashed along X.
	mesh := &model.MeshData{
		Vertices: []model.Vertex{
			{Position: [3]float32{0, 0, 0}, Normal: [3]float32{1, 1, 0}},
			{Position: [3]float32{1, 0, 0}, Normal: [3]float32{1, 1, 0}},
			{Position: [3]float32{0, 0, 1}, Normal: [3]float32{1, 1, 0}},
		},
		Indices: []uint32{0, 1, 2},
	}
	tr := scene.NewTransform()
	tr.Scale = mgl32.Vec3{2, 1, 1}
	addMesh(t, sc, b, mesh, tr, true)

	path := filepath.Join(t.TempDir(), "n.obj")
	_, err := Export(sc, path, "n.mtl")
	require.NoError(t, err)

	normals := withPrefix(readLines(t, path), "vn ")
	require.Len(t, normals, 3)
	n := parseVec(t, normals[0])
	want := mgl32.Vec3{0.5, 1, 0}.Normalize()
	assert.InDelta(t, want.X(), n[0], 1e-5)
	assert.InDelta(t, want.Y(), n[1], 1e-5)
	assert.InDelta(t, 0, n[2], 1e-5)
}

func TestExportPlaceholderWithoutCPUMesh(t *testing.T) {
	rec := gpu.NewRecorder()
	sc := scene.New()
	b := scene.NewBuilder(rec)
	addMesh(t, sc, b, model.Cube(), scene.NewTransform(), false)

	path := filepath.Join(t.TempDir(), "p.obj")
	res, err := Export(sc, path, "p.mtl")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Vertices)
	assert.Equal(t, 1, res.Faces)

	lines := readLines(t, path)
	assert.Len(t, withPrefix(lines, "v "), 3)
	assert.Equal(t, []string{"f 1/1/1 2/2/2 3/3/3"}, withPrefix(lines, "f "))
}

func TestExportFailureLeavesNoFiles(t *testing.T) {
	rec := gpu.NewRecorder()
	sc := scene.New()
	b := scene.NewBuilder(rec)
	addMesh(t, sc, b, model.Quad(), scene.NewTransform(), true)

	dir := t.TempDir()
	// A directory in place of the obj file makes the final rename fail.
	path := filepath.Join(dir, "blocked.obj")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "child"), 0755))
	_, err := Export(sc, path, "blocked.mtl")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"blocked.obj"}, names, "no mtl or temporaries left")
}
