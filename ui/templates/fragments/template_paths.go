// Package fragments provides template name constants for the embedded views
package fragments

// Page templates, named after their files
const (
	LandingPage   = "landing.html"
	DashboardPage = "dashboard.html"
)

// Partials defined inside partials.html
const (
	Table         = "table"
	Heatmap       = "heatmap"
	Exploration   = "exploration"
	Visualisation = "visualisations"
	Prediction    = "prediction"
	Performance   = "performance"
)

// Patterns are the embed paths parsed at startup.
var Patterns = []string{"templates/*.html"}

// GetAllTemplatePaths returns every template the server expects to find
func GetAllTemplatePaths() []string {
	return []string{
		LandingPage,
		DashboardPage,
		Table,
		Heatmap,
		Exploration,
		Visualisation,
		Prediction,
		Performance,
	}
}
