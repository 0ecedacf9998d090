package dashboard

import (
	"context"
	"fmt"
	"html/template"
	"math/rand/v2"

	"github.com/gomarkdown/markdown"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"cardiodash/domain/clinical"
	"cardiodash/internal/charts"
	"cardiodash/internal/dataset"
	"cardiodash/internal/errors"
	"cardiodash/internal/resources"
)

const (
	pageTitle = "Heart Failure Prediction App"
	introText = `This interactive dashboard predicts the risk of heart failure based on patient medical records.
You can **explore** the dataset, view visual insights, try predictions, and check model performance.`
)

// Input is everything one interaction contributes to a render pass.
type Input struct {
	State SessionState
	// Filter is the Data Exploration filter; nil means the default filter.
	Filter *dataset.Filter
	// Patient holds the prediction form values; nil means the defaults.
	Patient *clinical.PatientInput
	// Predict is set only by the explicit predict action.
	Predict bool
}

// MenuOption is one entry of the sidebar selector or of the compact menu
// links shown while the sidebar is hidden.
type MenuOption struct {
	Menu     Menu
	Selected bool
}

// View describes the page to draw. Exactly one sub-view field is set on
// success; on failure Err is set instead.
type View struct {
	State     SessionState
	Options   []MenuOption
	Shortcuts []MenuOption // set only while the sidebar is hidden
	Title     string
	Intro     template.HTML

	Exploration   *ExplorationView
	Visualisation *VisualisationView
	Prediction    *PredictionView
	Performance   *PerformanceView

	Err error
}

// Renderer fills in one sub-view of v.
type Renderer interface {
	Render(ctx context.Context, in Input, v *View) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, in Input, v *View) error

func (f RendererFunc) Render(ctx context.Context, in Input, v *View) error {
	return f(ctx, in, v)
}

// Controller dispatches a render pass to the renderer of the current menu.
type Controller struct {
	renderers map[Menu]Renderer
	intro     template.HTML
	tracer    trace.Tracer
}

// Options tune the sub-view renderers.
type Options struct {
	SampleSize int
	// Rand supplies the generator for the random sample; nil seeds one per call.
	Rand func() *rand.Rand
}

// NewController wires the four sub-view renderers.
func NewController(res resources.Provider, chartRenderer *charts.Renderer, opts Options) *Controller {
	if opts.SampleSize <= 0 {
		opts.SampleSize = 5
	}
	if opts.Rand == nil {
		opts.Rand = func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
	}
	return newController(map[Menu]Renderer{
		MenuExploration:    &ExplorationRenderer{res: res, sampleSize: opts.SampleSize, rand: opts.Rand},
		MenuVisualisations: &VisualisationRenderer{res: res, charts: chartRenderer},
		MenuPrediction:     &PredictionRenderer{res: res},
		MenuPerformance:    &PerformanceRenderer{res: res},
	})
}

func newController(renderers map[Menu]Renderer) *Controller {
	return &Controller{
		renderers: renderers,
		intro:     RenderMarkdown(introText),
		tracer:    otel.Tracer("cardiodash/dashboard"),
	}
}

// RenderMarkdown converts trusted, compiled-in markdown to HTML.
func RenderMarkdown(md string) template.HTML {
	return template.HTML(markdown.ToHTML([]byte(md), nil, nil))
}

// Render computes the page for one interaction. It reads the persisted state
// as given, resets a corrupted menu, and runs exactly one sub-view renderer.
func (c *Controller) Render(ctx context.Context, in Input) View {
	ctx, span := c.tracer.Start(ctx, "dashboard.Render")
	defer span.End()

	if in.State.Normalize() {
		log.Warn().Msg("[Dashboard] unknown menu in session state, showing default")
	}
	view := View{State: in.State, Title: pageTitle, Intro: c.intro}
	options := make([]MenuOption, len(Menus))
	for i, m := range Menus {
		options[i] = MenuOption{Menu: m, Selected: m == in.State.Menu}
	}
	if in.State.SidebarVisible {
		view.Options = options
	} else {
		view.Shortcuts = options
	}
	span.SetAttributes(
		attribute.String("dashboard.menu", string(in.State.Menu)),
		attribute.Bool("dashboard.sidebar_visible", in.State.SidebarVisible),
		attribute.Bool("dashboard.predict", in.Predict),
	)

	r, ok := c.renderers[in.State.Menu]
	if !ok {
		view.Err = errors.InternalError(fmt.Sprintf("no renderer for %q", in.State.Menu))
		return view
	}
	if err := r.Render(ctx, in, &view); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error().Err(err).Str("menu", string(in.State.Menu)).Msg("[Dashboard] sub-view failed")
		view.Err = err
	}
	return view
}
