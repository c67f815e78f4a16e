// scenetool is a headless CLI for inspecting models, exporting scenes to
// OBJ and decoding draw sort keys.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/pbrview/internal/engine/exporter"
	"github.com/Faultbox/pbrview/internal/engine/gpu"
	"github.com/Faultbox/pbrview/internal/engine/material"
	"github.com/Faultbox/pbrview/internal/engine/model"
	"github.com/Faultbox/pbrview/internal/engine/pipeline"
	"github.com/Faultbox/pbrview/internal/engine/resource"
	"github.com/Faultbox/pbrview/internal/engine/scene"
	"github.com/Faultbox/pbrview/internal/logger"
)

var errUsage = errors.New("usage")

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(command string, args []string, out io.Writer) error {
	switch command {
	case "inspect", "info":
		return cmdInspect(args, out)
	case "export", "x":
		return cmdExport(args, out)
	case "key":
		return cmdKey(args, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		return errUsage
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `scenetool - pbrview scene utility

Usage:
  scenetool <command> [options]

Commands:
  inspect <model.glb>...                      Show mesh and material information
  export [-o dir] [-mtl name] <model.glb>...  Export models to OBJ/MTL
  key <hex>                                   Decode a draw sort key
  key -pass N -material N -depth N            Encode a draw sort key

Examples:
  scenetool inspect helmet.glb
  scenetool export -o out -spread 2 a.glb b.glb
  scenetool key 0x0100000500000100`)
}

// setVerbose routes importer and cache logs to stderr: warnings always,
// everything with -v.
func setVerbose(verbose bool) error {
	if err := logger.Init("warn", ""); err != nil {
		return err
	}
	if verbose {
		logger.SetLevel("debug")
	}
	return nil
}

func cmdInspect(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Log importer details")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: scenetool inspect <model.glb>...")
		return errUsage
	}
	if err := setVerbose(*verbose); err != nil {
		return err
	}

	for _, path := range fs.Args() {
		res, err := model.Import(path)
		if err != nil {
			return err
		}
		size := res.Bounds.Size()
		fmt.Fprintf(out, "Model:     %s\n", path)
		fmt.Fprintf(out, "Vertices:  %d\n", res.VertexCount())
		fmt.Fprintf(out, "Triangles: %d\n", res.TriangleCount())
		fmt.Fprintf(out, "Indices:   %s\n", indexWidth(res.IndexFormat()))
		fmt.Fprintf(out, "Bounds:    %v .. %v (size %.3g x %.3g x %.3g)\n",
			res.Bounds.Min, res.Bounds.Max, size[0], size[1], size[2])

		texture := res.BaseColorTexture
		if texture == "" {
			texture = "(none)"
		}
		fmt.Fprintf(out, "Texture:   %s\n", texture)
		fmt.Fprintf(out, "BaseColor: %v\n", res.Material.BaseColorFactor)
		fmt.Fprintf(out, "Metallic:  %.3g  Roughness: %.3g\n", res.Material.Metallic, res.Material.Roughness)
		for _, w := range res.Warnings {
			fmt.Fprintf(out, "Warning:   %s\n", w)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func indexWidth(f gpu.IndexFormat) string {
	if f == gpu.Index16 {
		return "16-bit"
	}
	return "32-bit"
}

func cmdExport(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	dir := fs.String("o", "export", "Output directory")
	mtlName := fs.String("mtl", exporter.DefaultMTLName, "MTL file name")
	objName := fs.String("name", "scene.obj", "OBJ file name")
	spread := fs.Float64("spread", 0, "Offset each model along X by this distance")
	verbose := fs.Bool("v", false, "Log importer details")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: scenetool export [-o dir] [-mtl name] <model.glb>...")
		return errUsage
	}
	if err := setVerbose(*verbose); err != nil {
		return err
	}

	rec := gpu.NewRecorder()
	cache := resource.NewCache(rec)
	materials := material.NewManager(rec, cache)
	sc := scene.New()
	builder := scene.NewBuilder(rec)
	defer func() {
		sc.Destroy()
		materials.Shutdown()
		cache.Clear()
	}()

	for i, path := range fs.Args() {
		opts := scene.LoadOptions{
			KeepCPU:   true,
			Transform: scene.At(mgl32.Vec3{float32(*spread) * float32(i), 0, 0}),
		}
		if _, _, err := sc.LoadModel(builder, materials, path, opts); err != nil {
			return err
		}
	}

	res, err := exporter.Export(sc, filepath.Join(*dir, *objName), *mtlName)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s and %s: %d meshes, %d vertices, %d faces\n",
		res.OBJPath, res.MTLPath, res.Meshes, res.Vertices, res.Faces)
	return nil
}

func cmdKey(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("key", flag.ContinueOnError)
	pass := fs.Uint64("pass", 0, "Pass id (0-255)")
	mat := fs.Uint64("material", 0, "Material id (24 bits)")
	depth := fs.Uint64("depth", 0, "Quantized depth (32 bits)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if fs.NArg() == 0 {
		if *pass > 0xFF || *mat > 0xFFFFFF || *depth > 0xFFFFFFFF {
			return fmt.Errorf("field out of range: pass=%d material=%d depth=%d", *pass, *mat, *depth)
		}
		key := pipeline.MakeDrawKey(uint8(*pass), uint32(*mat), uint32(*depth))
		fmt.Fprintf(out, "0x%016x\n", uint64(key))
		return nil
	}

	raw := strings.TrimPrefix(strings.ToLower(fs.Arg(0)), "0x")
	v, err := strconv.ParseUint(raw, 16, 64)
	if err != nil {
		return fmt.Errorf("parsing key %q: %w", fs.Arg(0), err)
	}
	key := pipeline.DrawKey(v)
	fmt.Fprintf(out, "Key:      0x%016x\n", uint64(key))
	fmt.Fprintf(out, "Pass:     %d\n", key.Pass())
	fmt.Fprintf(out, "Material: %d\n", key.Material())
	fmt.Fprintf(out, "Depth:    %d\n", key.Depth())
	return nil
}
