// Package fragments provides template name constants for the dashboard templates
package fragments

// Template names. Page templates are keyed by file name, fragments by their
// {{define}} name.
const (
	// Pages
	Index = "index.html"

	// Fragments swapped by htmx
	Pie   = "pie"
	Error = "error"
)

// GetAllTemplateNames returns every template the dashboard renders
func GetAllTemplateNames() []string {
	return []string{Index, Pie, Error}
}

// IsFragment reports whether name renders a partial rather than a full page
func IsFragment(name string) bool {
	return name == Pie || name == Error
}
