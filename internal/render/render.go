package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/sigreer/lvmgraph/internal/inventory"
	"github.com/sigreer/lvmgraph/internal/topology"
)

// Output formats
const (
	FormatMermaid = "mermaid"
	FormatJSON    = "json"
	FormatTable   = "table"
)

// TemplateName is the file looked up in the template directory
const TemplateName = "lvm.mermaid"

var (
	ErrTemplateMissing = errors.New("diagram template missing")
	ErrUnknownFormat   = errors.New("unknown output format")
)

//go:embed templates/lvm.mermaid
var embedded embed.FS

var (
	trailingSpace = regexp.MustCompile(`[ \t]+\n`)
	blankRuns     = regexp.MustCompile(`\n{3,}`)
)

type Options struct {
	Format string
	// TemplateDir overrides the embedded template when set
	TemplateDir string
	Mountpoints bool
}

// Renderer writes a reconciled view in one output format
type Renderer struct {
	opts Options
	tmpl *template.Template
}

// templateData is what the diagram template sees
type templateData struct {
	LVs               []inventory.LogicalVolume
	PVs               []inventory.PhysicalVolume
	VGs               []inventory.VolumeGroup
	Disks             []topology.Disk
	Partitions        []topology.Partition
	Thins             []topology.ThinPoolEntry
	RenderMountpoints bool
}

// New validates the format and, for diagrams, loads and parses the template
func New(opts Options) (*Renderer, error) {
	if opts.Format == "" {
		opts.Format = FormatMermaid
	}

	r := &Renderer{opts: opts}
	switch opts.Format {
	case FormatMermaid:
		tmpl, err := loadTemplate(opts.TemplateDir)
		if err != nil {
			return nil, err
		}
		r.tmpl = tmpl
	case FormatJSON, FormatTable:
	default:
		return nil, fmt.Errorf("%w: %q (want %s, %s or %s)", ErrUnknownFormat, opts.Format, FormatMermaid, FormatJSON, FormatTable)
	}
	return r, nil
}

func loadTemplate(dir string) (*template.Template, error) {
	var fsys fs.FS = embedded
	name := "templates/" + TemplateName
	if dir != "" {
		fsys = os.DirFS(dir)
		name = TemplateName
	}

	src, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found in %s", ErrTemplateMissing, TemplateName, templateLocation(dir))
		}
		return nil, fmt.Errorf("reading template: %w", err)
	}

	tmpl, err := template.New(TemplateName).Funcs(funcs).Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return tmpl, nil
}

func templateLocation(dir string) string {
	if dir == "" {
		return "embedded templates"
	}
	return dir
}

// Render writes view to w. Output is produced in full before anything is
// written, so a failing render leaves w untouched.
func (r *Renderer) Render(w io.Writer, view *topology.View) error {
	var buf bytes.Buffer
	var err error

	switch r.opts.Format {
	case FormatJSON:
		err = PrintJSON(&buf, view)
	case FormatTable:
		PrintTable(&buf, view, r.opts.Mountpoints)
	default:
		err = r.diagram(&buf, view)
	}
	if err != nil {
		return err
	}

	_, err = w.Write(buf.Bytes())
	return err
}

func (r *Renderer) diagram(buf *bytes.Buffer, view *topology.View) error {
	data := templateData{
		LVs:               view.LVs,
		PVs:               view.PVs,
		VGs:               view.VGs,
		Disks:             view.Disks,
		Partitions:        view.Partitions,
		Thins:             view.Thins,
		RenderMountpoints: r.opts.Mountpoints,
	}

	var raw bytes.Buffer
	if err := r.tmpl.Execute(&raw, data); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}

	out := trailingSpace.ReplaceAllString(raw.String(), "\n")
	out = blankRuns.ReplaceAllString(out, "\n\n")
	out = strings.TrimLeft(out, "\n")
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	buf.WriteString(out)
	return nil
}
