package dashboard

import (
	"context"

	"cardiodash/internal/charts"
	"cardiodash/internal/resources"
)

// VisualisationView is the Visualisations sub-view. The SVG charts are
// served separately under ChartURLs; the heatmap is drawn inline.
type VisualisationView struct {
	ChartURLs   []ChartLink
	Correlation charts.Heatmap
}

// ChartLink points the page at one rendered chart.
type ChartLink struct {
	Title string
	URL   string
}

// VisualisationRenderer builds the three dataset charts.
type VisualisationRenderer struct {
	res    resources.Provider
	charts *charts.Renderer
}

func (r *VisualisationRenderer) Render(_ context.Context, _ Input, v *View) error {
	ds, err := r.res.Dataset()
	if err != nil {
		return err
	}
	// Chart errors belong in the view, not behind a broken <img>.
	if r.charts != nil {
		for _, name := range charts.Names {
			if _, err := r.charts.SVG(name, ds); err != nil {
				return err
			}
		}
	}
	v.Visualisation = &VisualisationView{
		ChartURLs: []ChartLink{
			{Title: "Heart Failure by Age", URL: "/charts/" + charts.AgeHistogram},
			{Title: "Sex Distribution", URL: "/charts/" + charts.SexPie},
		},
		Correlation: charts.CorrelationHeatmap(ds),
	}
	return nil
}
