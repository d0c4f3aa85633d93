package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"text/tabwriter"
)

//go:embed templates/summary.html.tmpl
var templates embed.FS

// Renderer turns a title and a list of steps into a document.
// It holds only the parsed template and is safe for concurrent use.
type Renderer struct {
	tmpl *template.Template
}

type renderedStep struct {
	Label   string
	Columns []string
	Rows    [][]string
}

// NewRenderer parses the embedded HTML template.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templates, "templates/summary.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes the HTML summary to w.
func (r *Renderer) Render(w io.Writer, title string, steps []Step) error {
	data := struct {
		Title string
		Steps []renderedStep
	}{Title: title, Steps: make([]renderedStep, len(steps))}

	for i, s := range steps {
		data.Steps[i] = renderedStep{
			Label:   s.Label,
			Columns: s.Table.Columns(),
			Rows:    s.Table.Rows(),
		}
	}

	if err := r.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	return nil
}

// RenderText writes the steps as aligned plain-text tables.
func RenderText(w io.Writer, title string, steps []Step) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if title != "" {
		fmt.Fprintf(tw, "%s\n\n", title)
	}
	for _, s := range steps {
		fmt.Fprintf(tw, "%s\n", s.Label)
		fmt.Fprintf(tw, "%s\t\n", strings.Join(s.Table.Columns(), "\t"))
		for _, row := range s.Table.Rows() {
			fmt.Fprintf(tw, "%s\t\n", strings.Join(row, "\t"))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
