// Package exporter writes a scene as a Wavefront OBJ file with a
// companion MTL material library.
package exporter

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/pbrview/internal/engine/model"
	"github.com/Faultbox/pbrview/internal/engine/scene"
	"github.com/Faultbox/pbrview/internal/logger"
	pkgmath "github.com/Faultbox/pbrview/pkg/math"
)

// ErrEmptyScene is returned when there is nothing to export.
var ErrEmptyScene = errors.New("scene is empty")

// Header is the first line of every exported OBJ file.
const Header = "# Exported by pbrview"

// DefaultMTLName is used when Export is given no material library name.
const DefaultMTLName = "scene.mtl"

// FileMode is applied to both exported files. Temporaries start owner-only.
const FileMode os.FileMode = 0o644

// Result summarizes what was written.
type Result struct {
	OBJPath  string
	MTLPath  string
	Meshes   int
	Vertices int
	Faces    int
}

// placeholder is exported for instances without a CPU mesh copy.
var placeholder = model.Triangle()

// Export writes sc to objPath and the material library mtlName next to it.
// Vertex positions are baked with each instance's model matrix and normals
// with its inverse-transpose. Both files are written to temporaries and
// renamed, so a failure leaves neither behind.
func Export(sc *scene.Scene, objPath, mtlName string) (Result, error) {
	log := logger.Named("exporter")

	if sc == nil || sc.Empty() {
		log.Warn("nothing to export", zap.String("path", objPath))
		return Result{}, ErrEmptyScene
	}
	if mtlName == "" {
		mtlName = DefaultMTLName
	}

	dir := filepath.Dir(objPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Result{}, fmt.Errorf("creating export directory: %w", err)
	}

	res := Result{OBJPath: objPath, MTLPath: filepath.Join(dir, mtlName)}

	objTmp, err := os.CreateTemp(dir, ".obj-*")
	if err != nil {
		return Result{}, fmt.Errorf("creating obj: %w", err)
	}
	defer os.Remove(objTmp.Name())
	mtlTmp, err := os.CreateTemp(dir, ".mtl-*")
	if err != nil {
		objTmp.Close()
		return Result{}, fmt.Errorf("creating mtl: %w", err)
	}
	defer os.Remove(mtlTmp.Name())

	obj := bufio.NewWriter(objTmp)
	mtl := bufio.NewWriter(mtlTmp)
	writeErr := writeScene(obj, mtl, sc, mtlName, &res)
	if writeErr == nil {
		writeErr = errors.Join(obj.Flush(), mtl.Flush())
	}
	closeErr := errors.Join(
		objTmp.Chmod(FileMode), mtlTmp.Chmod(FileMode),
		objTmp.Close(), mtlTmp.Close())
	if err := errors.Join(writeErr, closeErr); err != nil {
		return Result{}, fmt.Errorf("writing %s: %w", objPath, err)
	}

	if err := os.Rename(mtlTmp.Name(), res.MTLPath); err != nil {
		return Result{}, fmt.Errorf("saving mtl: %w", err)
	}
	if err := os.Rename(objTmp.Name(), objPath); err != nil {
		os.Remove(res.MTLPath)
		return Result{}, fmt.Errorf("saving obj: %w", err)
	}

	log.Info("scene exported",
		zap.String("obj", objPath),
		zap.String("mtl", res.MTLPath),
		zap.Int("meshes", res.Meshes),
		zap.Int("vertices", res.Vertices),
		zap.Int("faces", res.Faces))
	return res, nil
}

func writeScene(obj, mtl io.Writer, sc *scene.Scene, mtlName string, res *Result) error {
	w := &lineWriter{w: obj}
	w.printf("%s\nmtllib %s\n", Header, mtlName)
	m := &lineWriter{w: mtl}

	base := uint32(1)
	for i, inst := range sc.Instances() {
		mesh := inst.Mesh
		if mesh == nil || len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
			mesh = placeholder
		}
		if len(mesh.Indices) < 3 {
			continue
		}

		matName := fmt.Sprintf("mat_%d", i)
		m.printf("newmtl %s\nKd 1.000 1.000 1.000\nKa 0.000 0.000 0.000\nKs 0.000 0.000 0.000\n", matName)
		if inst.TexturePath != "" {
			m.printf("map_Kd %s\n", inst.TexturePath)
		}
		m.printf("\n")

		w.printf("o mesh_%d\nusemtl %s\n", i, matName)
		writeMesh(w, mesh, inst.Transform.Matrix(), base)

		faces := len(mesh.Indices) / 3
		base += uint32(len(mesh.Vertices))
		res.Meshes++
		res.Vertices += len(mesh.Vertices)
		res.Faces += faces
	}
	return errors.Join(w.err, m.err)
}

func writeMesh(w *lineWriter, mesh *model.MeshData, modelMat mgl32.Mat4, base uint32) {
	normalMat := pkgmath.NormalMatrix(modelMat)
	for _, v := range mesh.Vertices {
		p := pkgmath.TransformPoint(modelMat, mgl32.Vec3(v.Position))
		w.printf("v %s %s %s\n", num(p[0]), num(p[1]), num(p[2]))
	}
	for _, v := range mesh.Vertices {
		n := pkgmath.TransformNormal(normalMat, mgl32.Vec3(v.Normal))
		w.printf("vn %s %s %s\n", num(n[0]), num(n[1]), num(n[2]))
	}
	for _, v := range mesh.Vertices {
		w.printf("vt %s %s\n", num(v.TexCoord[0]), num(1-v.TexCoord[1]))
	}
	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		a := base + mesh.Indices[t]
		b := base + mesh.Indices[t+1]
		c := base + mesh.Indices[t+2]
		w.printf("f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
	}
}

func num(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

// lineWriter keeps the first write error.
type lineWriter struct {
	w   io.Writer
	err error
}

func (l *lineWriter) printf(format string, args ...any) {
	if l.err != nil {
		return
	}
	_, l.err = fmt.Fprintf(l.w, format, args...)
}
