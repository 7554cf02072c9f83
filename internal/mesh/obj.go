package mesh

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/wegman-software/voxcity-go/internal/category"
)

// WriteOBJ writes one Wavefront OBJ file for a single mesh. Coordinates are
// local metric; faces are 1-based triangle indices.
func WriteOBJ(path string, cat category.Category, m *Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create obj file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# voxcity-go surface mesh\n")
	fmt.Fprintf(w, "# category: %s color: %s\n", cat, cat.Color().Hex())
	fmt.Fprintf(w, "o %s\n", cat)

	for _, v := range m.Vertices {
		fmt.Fprintf(w, "v %.3f %.3f %.3f\n", v.X, v.Y, v.Z)
	}
	for _, t := range m.Triangles {
		fmt.Fprintf(w, "f %d %d %d\n", t[0]+1, t[1]+1, t[2]+1)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write obj file: %w", err)
	}
	return nil
}

// ExportOBJ writes one OBJ file per category into dir, named after the
// category (e.g. buildings.obj). Files are written concurrently; the first
// error wins. Returns the paths written.
func ExportOBJ(dir string, meshes map[category.Category]*Mesh) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(meshes))
	var g errgroup.Group
	for cat, m := range meshes {
		if len(m.Triangles) == 0 {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%s.obj", cat))
		paths = append(paths, path)

		cat, m := cat, m
		g.Go(func() error {
			return WriteOBJ(path, cat, m)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
