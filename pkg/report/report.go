package report

import (
	"fmt"
	"html/template"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/image/draw"
)

// Entry describes one completed render run
type Entry struct {
	SceneName        string
	AlgorithmName    string
	AlgorithmAcronym string
	ImageFile        string // relative to the report directory
	ThumbFile        string // relative to the report directory
	Elapsed          time.Duration
}

// Report collects render results for a batch sweep and renders them as an
// HTML gallery plus a terminal summary
type Report struct {
	dir        string
	sceneOrder []string
	entries    map[string][]Entry
}

// New creates a report rooted at the given output directory
func New(dir string) *Report {
	return &Report{
		dir:     dir,
		entries: make(map[string][]Entry),
	}
}

// Dir returns the report's output directory
func (r *Report) Dir() string {
	return r.dir
}

// Add records a completed run. Entries are grouped by scene in insertion
// order.
func (r *Report) Add(entry Entry) {
	if _, seen := r.entries[entry.SceneName]; !seen {
		r.sceneOrder = append(r.sceneOrder, entry.SceneName)
	}
	r.entries[entry.SceneName] = append(r.entries[entry.SceneName], entry)
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><title>Render report</title></head>
<body>
{{range .Scenes}}<h2>{{.Name}}</h2>
<table><tr>
{{range .Entries}}<td><a href="{{.ImageFile}}"><img src="{{.ThumbFile}}" alt="{{.AlgorithmName}}" /></a><br/>{{.AlgorithmAcronym}} ({{.Elapsed}})</td>
{{end}}</tr></table>
{{end}}</body>
</html>
`))

// WriteHTML renders the gallery page into the report directory
func (r *Report) WriteHTML(filename string) error {
	type sceneGroup struct {
		Name    string
		Entries []Entry
	}
	var data struct {
		Scenes []sceneGroup
	}
	for _, name := range r.sceneOrder {
		data.Scenes = append(data.Scenes, sceneGroup{Name: name, Entries: r.entries[name]})
	}

	file, err := os.Create(filepath.Join(r.dir, filename))
	if err != nil {
		return err
	}
	defer file.Close()

	return htmlTemplate.Execute(file, data)
}

// WriteSummary prints a timing table for all recorded runs
func (r *Report) WriteSummary(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Scene", "Algorithm", "Time"})

	for _, name := range r.sceneOrder {
		for _, entry := range r.entries[name] {
			table.Append([]string{
				name,
				entry.AlgorithmName,
				fmt.Sprintf("%.2fs", entry.Elapsed.Seconds()),
			})
		}
	}

	table.Render()
}

// SaveThumbnail downscales an image so its longest edge is size pixels
// and writes it as PNG into the report directory
func (r *Report) SaveThumbnail(img image.Image, filename string, size int) error {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	thumbW, thumbH := size, size
	if w > h {
		thumbH = size * h / w
	} else {
		thumbW = size * w / h
	}

	thumb := image.NewRGBA(image.Rect(0, 0, thumbW, thumbH))
	draw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), img, bounds, draw.Src, nil)

	file, err := os.Create(filepath.Join(r.dir, filename))
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, thumb)
}
