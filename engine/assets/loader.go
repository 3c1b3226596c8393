package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/rig-go/engine/loader"
)

// Asset file extensions recognized by LoadFile and LoadDir.
const (
	ExtGraph        = ".animgraph.yaml"
	ExtClip         = ".anim.yaml"
	ExtSkeleton     = ".skel.yaml"
	ExtStateMachine = ".fsm.yaml"
	ExtGLTF         = ".gltf"
	ExtGLB          = ".glb"
)

func (l *library) LoadFile(path string) error {
	// glTF files carry their own buffer references, so the importer owns
	// the file I/O for them.
	if strings.HasSuffix(path, ExtGLTF) || strings.HasSuffix(path, ExtGLB) {
		if err := loader.NewLoader().ImportInto(l, path); err != nil {
			return fmt.Errorf("asset %s: %w", path, err)
		}
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("asset %s: %w", path, err)
	}

	switch {
	case strings.HasSuffix(path, ExtGraph):
		g, err := DecodeGraph(data)
		if err != nil {
			return fmt.Errorf("asset %s: %w", path, err)
		}
		l.AddGraph(g)
	case strings.HasSuffix(path, ExtClip):
		c, err := DecodeClip(data)
		if err != nil {
			return fmt.Errorf("asset %s: %w", path, err)
		}
		l.AddClip(c)
	case strings.HasSuffix(path, ExtSkeleton):
		id, s, err := DecodeSkeleton(data)
		if err != nil {
			return fmt.Errorf("asset %s: %w", path, err)
		}
		l.AddSkeleton(id, s)
	case strings.HasSuffix(path, ExtStateMachine):
		sm, err := DecodeStateMachine(data)
		if err != nil {
			return fmt.Errorf("asset %s: %w", path, err)
		}
		l.AddStateMachine(sm)
	default:
		return fmt.Errorf("asset %s: unrecognized extension", path)
	}
	return nil
}

func (l *library) LoadDir(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch {
		case strings.HasSuffix(path, ExtGraph),
			strings.HasSuffix(path, ExtClip),
			strings.HasSuffix(path, ExtSkeleton),
			strings.HasSuffix(path, ExtStateMachine),
			strings.HasSuffix(path, ExtGLTF),
			strings.HasSuffix(path, ExtGLB):
			return l.LoadFile(path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	// Cross-references only resolve once the whole tree is in, so
	// validation waits for the walk to finish.
	return l.Validate()
}
