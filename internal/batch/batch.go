// Package batch segments many facade images and writes the results to disk.
package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"gonum.org/v1/plot"

	"github.com/ironsheep/facade-tools-mcp/internal/facade"
	"github.com/ironsheep/facade-tools-mcp/internal/render"
	"github.com/ironsheep/facade-tools-mcp/internal/tile"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
}

// Output file suffixes, appended to the input file's base name.
const (
	SuffixStructure   = "_structure.png"
	SuffixTiles       = "_tiles.png"
	SuffixIrreducible = "_irreducible.png"
	SuffixVertical    = "_vprofile.png"
	SuffixHorizontal  = "_hprofile.png"
	SuffixResult      = ".json"
)

// Collect expands args into a sorted list of image files. Directories are
// walked recursively and contribute every file with a known image
// extension; files named explicitly are taken as is.
func Collect(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && imageExtensions[strings.ToLower(filepath.Ext(p))] {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(out)
	return out, nil
}

// Report summarizes one processed image.
type Report struct {
	Input     string   `json:"input"`
	Outputs   []string `json:"outputs"`
	RowSplits []int    `json:"row_splits"`
	ColSplits []int    `json:"col_splits"`
	Rounds    int      `json:"rounds"`

	// Subdivisions holds every tile's cuts, indexed [row][col], oldest first.
	Subdivisions [][][]tile.Subdivision `json:"subdivisions"`
}

// Runner segments images with a fixed Segmenter and writes results into
// OutDir.
type Runner struct {
	Segmenter *facade.Segmenter
	OutDir    string
}

// Run processes every path. A failing image does not stop the batch; all
// failures are returned joined, alongside the reports of the images that
// succeeded. An image whose outputs would overwrite those of an earlier path
// is skipped with an error.
func (r *Runner) Run(paths []string) ([]Report, error) {
	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var (
		reports []Report
		errs    []error
	)
	owners := make(map[string]string)
	for _, p := range paths {
		stem := r.stem(p)
		if prev, ok := owners[stem]; ok {
			errs = append(errs, fmt.Errorf("%s: outputs would overwrite those of %s", p, prev))
			continue
		}
		owners[stem] = p

		rep, err := r.Process(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
			continue
		}
		reports = append(reports, *rep)
	}
	return reports, errors.Join(errs...)
}

// Process segments one image and writes its overlays, irreducible facade,
// profile plots and JSON result.
func (r *Runner) Process(path string) (*Report, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}

	id, err := cacheID(path)
	if err != nil {
		return nil, err
	}
	res, err := r.Segmenter.Segment(id, img)
	if err != nil {
		return nil, err
	}

	stem := r.stem(path)
	rep := &Report{
		Input:        path,
		RowSplits:    res.RowSplits,
		ColSplits:    res.ColSplits,
		Rounds:       res.Tiles.Round,
		Subdivisions: res.Tiles.Subdivisions(),
	}

	structure, err := render.Structure(img, res.RowSplits, res.ColSplits, render.StructureOptions{
		LineColor: render.DefaultLineColor,
		Labels:    true,
	})
	if err != nil {
		return nil, err
	}
	tiles, err := render.Tiles(img, res.Tiles)
	if err != nil {
		return nil, err
	}

	images := []struct {
		suffix string
		img    image.Image
	}{
		{SuffixStructure, structure},
		{SuffixTiles, tiles},
		{SuffixIrreducible, res.Irreducible.Image()},
	}
	for _, out := range images {
		name := stem + out.suffix
		if err := imgio.Save(name, out.img, imgio.PNGEncoder()); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
		rep.Outputs = append(rep.Outputs, name)
	}

	vplot, err := render.SymmetryPlot("Vertical symmetry", "row", res.Profiles.Vertical, res.RowSplits)
	if err != nil {
		return nil, err
	}
	hplot, err := render.SymmetryPlot("Horizontal symmetry", "column", res.Profiles.Horizontal, res.ColSplits)
	if err != nil {
		return nil, err
	}
	plots := []struct {
		suffix string
		p      *plot.Plot
	}{
		{SuffixVertical, vplot},
		{SuffixHorizontal, hplot},
	}
	for _, pl := range plots {
		data, err := render.EncodePlot(pl.p, 0, 0)
		if err != nil {
			return nil, err
		}
		name := stem + pl.suffix
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
		rep.Outputs = append(rep.Outputs, name)
	}

	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	name := stem + SuffixResult
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", name, err)
	}
	rep.Outputs = append(rep.Outputs, name)

	return rep, nil
}

// stem is the output path prefix of an input image.
func (r *Runner) stem(path string) string {
	return filepath.Join(r.OutDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

// cacheID identifies an image file for the profile cache. Size and
// modification time are part of the id so an image edited in place is
// rescanned.
func cacheID(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s@%d-%d", abs, info.Size(), info.ModTime().UnixNano()), nil
}
