package cli

import (
	"fmt"
	"io"
	"strings"

	cliContext "github.com/transformerlab/interactive/core/cli/context"
	"github.com/transformerlab/interactive/core/gallery"
)

type GalleryCMDFlags struct {
	Gallery  string `env:"LAB_INTERACTIVE_GALLERY" default:"${gallery}" help:"Interactive gallery to read: a path, file://, http(s):// or github:org/repo/file@branch" group:"gallery"`
	BasePath string `env:"LAB_GALLERY_BASE_PATH" type:"path" default:"${basepath}" help:"Trusted root for file:// gallery URLs" group:"gallery"`
}

func (g GalleryCMDFlags) load() (gallery.Entries, error) {
	return gallery.Load(g.Gallery, g.BasePath)
}

type GalleryList struct {
	GalleryCMDFlags `embed:""`

	Out io.Writer `kong:"-"`
}

type GalleryFind struct {
	ID   string `arg:"" optional:"" name:"id" help:"Entry id to look up"`
	Type string `name:"type" short:"t" help:"interactive_type to match when no entry has the id"`

	GalleryCMDFlags `embed:""`

	Out io.Writer `kong:"-"`
}

type GallerySearch struct {
	Term string `arg:"" name:"term" help:"Text to search for in ids, names, types, descriptions and tags"`

	GalleryCMDFlags `embed:""`

	Out io.Writer `kong:"-"`
}

type GalleryCMD struct {
	List   GalleryList   `cmd:"" help:"List the entries of the interactive gallery" default:"withargs"`
	Find   GalleryFind   `cmd:"" help:"Show the entry a launch would use"`
	Search GallerySearch `cmd:"" help:"Search the interactive gallery"`
}

func (gl *GalleryList) Run(ctx *cliContext.Context) error {
	entries, err := gl.load()
	if err != nil {
		return err
	}
	printEntries(writerOrStdout(gl.Out), entries)
	return nil
}

func (gf *GalleryFind) Run(ctx *cliContext.Context) error {
	entries, err := gf.load()
	if err != nil {
		return err
	}
	entry := entries.Find(gf.ID, gf.Type)
	if entry == nil {
		return fmt.Errorf("no interactive gallery entry matches id %q or type %q", gf.ID, gf.Type)
	}

	out := writerOrStdout(gf.Out)
	fmt.Fprintf(out, "id: %s\n", entry.ID)
	fmt.Fprintf(out, "name: %s\n", entry.Name)
	fmt.Fprintf(out, "interactive_type: %s\n", entry.InteractiveType)
	if entry.Description != "" {
		fmt.Fprintf(out, "description: %s\n", entry.Description)
	}
	if len(entry.Tags) > 0 {
		fmt.Fprintf(out, "tags: %s\n", strings.Join(entry.Tags, ", "))
	}
	fmt.Fprintf(out, "schema: %s\n", schemaOf(entry))
	return nil
}

func (gs *GallerySearch) Run(ctx *cliContext.Context) error {
	entries, err := gs.load()
	if err != nil {
		return err
	}
	printEntries(writerOrStdout(gs.Out), entries.Search(gs.Term))
	return nil
}

func printEntries(out io.Writer, entries gallery.Entries) {
	for _, e := range entries {
		if e.Name != "" && e.Name != e.ID {
			fmt.Fprintf(out, " - %s (%s): %s\n", e.ID, e.InteractiveType, e.Name)
		} else {
			fmt.Fprintf(out, " - %s (%s)\n", e.ID, e.InteractiveType)
		}
	}
}

// schemaOf names the command shapes an entry carries, canonical first.
func schemaOf(entry *gallery.Entry) string {
	var shapes []string
	if entry.Logic != nil {
		shapes = append(shapes, "logic")
	}
	if entry.Commands != nil {
		shapes = append(shapes, "commands")
	}
	if entry.Command != "" {
		shapes = append(shapes, "command")
	}
	if len(shapes) == 0 {
		return "none"
	}
	return strings.Join(shapes, ", ")
}
