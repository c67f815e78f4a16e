// Package shader embeds the GLSL programs used by the renderer.
package shader

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Program names understood by Source.
const (
	ProgramPBR   = "pbr"
	ProgramUnlit = "unlit"
)

// ErrUnknownProgram is returned for a program name without embedded sources.
var ErrUnknownProgram = errors.New("unknown shader program")

//go:embed glsl/*.vert glsl/*.frag
var sources embed.FS

// Source returns the vertex and fragment GLSL of a named program.
func Source(name string) (vertex, fragment string, err error) {
	vs, err := sources.ReadFile(path.Join("glsl", name+".vert"))
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownProgram, name)
	}
	fsrc, err := sources.ReadFile(path.Join("glsl", name+".frag"))
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownProgram, name)
	}
	return string(vs), string(fsrc), nil
}

// Names lists the embedded program names.
func Names() []string {
	entries, err := fs.ReadDir(sources, "glsl")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".vert"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
