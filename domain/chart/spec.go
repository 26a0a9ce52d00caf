// Package chart describes figures declaratively. A Spec carries data and
// styling only; rendering lives in adapters/render.
package chart

// Kind identifies the figure type.
type Kind string

const (
	KindLine Kind = "line"
	KindPie  Kind = "pie"
)

// Range is an inclusive axis range.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Axis holds axis title and styling.
type Axis struct {
	Title     string  `json:"title,omitempty"`
	Range     *Range  `json:"range,omitempty"`
	LineColor string  `json:"line_color,omitempty"`
	LineWidth float64 `json:"line_width,omitempty"`
	ShowGrid  bool    `json:"show_grid"`
	GridColor string  `json:"grid_color,omitempty"`
	ZeroLine  bool    `json:"zero_line"`
	ShowLine  bool    `json:"show_line"`
}

// LineSeries is one named line. X and Y have equal length.
type LineSeries struct {
	Name  string    `json:"name"`
	X     []string  `json:"x"`
	Y     []float64 `json:"y"`
	Width float64   `json:"width"`
	Color string    `json:"color"`
}

// Slice is one pie category.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// Spec is a renderable figure description. Warnings carry data-quality
// notes that must be shown next to the figure.
type Spec struct {
	Kind       Kind         `json:"kind"`
	Title      string       `json:"title"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Background string       `json:"background,omitempty"`
	XAxis      Axis         `json:"xaxis"`
	YAxis      Axis         `json:"yaxis"`
	Lines      []LineSeries `json:"lines,omitempty"`
	Slices     []Slice      `json:"slices,omitempty"`
	Warnings   []string     `json:"warnings,omitempty"`
}

// SliceValues returns the pie values in slice order.
func (s Spec) SliceValues() []float64 {
	values := make([]float64, len(s.Slices))
	for i, sl := range s.Slices {
		values[i] = sl.Value
	}
	return values
}
