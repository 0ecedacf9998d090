// Package resources memoizes the dataset and the model for the lifetime of
// the process. Each is read at most once; later calls return the same value
// or the same load error.
package resources

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"cardiodash/internal/dataset"
	"cardiodash/internal/model"
)

// Provider is what the dashboard reads from. Implementations must return
// shared immutable values.
type Provider interface {
	Dataset() (*dataset.Dataset, error)
	Model() (model.Classifier, error)
}

// State describes one memoized resource.
type State struct {
	Path     string        `json:"path"`
	Loaded   bool          `json:"loaded"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns,omitempty"`
}

// Status is the load state reported by /healthz.
type Status struct {
	Dataset State `json:"dataset"`
	Model   State `json:"model"`
}

// Ready reports whether both resources loaded.
func (s Status) Ready() bool {
	return s.Dataset.Loaded && s.Model.Loaded
}

type once[T any] struct {
	path  string
	load  func(string) (T, error)
	once  sync.Once
	done  chan struct{}
	value T
	err   error
	took  time.Duration
}

func newOnce[T any](path string, load func(string) (T, error)) *once[T] {
	return &once[T]{path: path, load: load, done: make(chan struct{})}
}

func (o *once[T]) get() (T, error) {
	o.once.Do(func() {
		start := time.Now()
		o.value, o.err = o.load(o.path)
		o.took = time.Since(start)
		close(o.done)
	})
	return o.value, o.err
}

func (o *once[T]) state() State {
	s := State{Path: o.path}
	select {
	case <-o.done:
	default:
		return s
	}
	s.Duration = o.took
	if o.err != nil {
		s.Error = o.err.Error()
	} else {
		s.Loaded = true
	}
	return s
}

// Loader lazily loads the dataset and the model from flat files.
type Loader struct {
	dataset *once[*dataset.Dataset]
	model   *once[model.Classifier]
}

// NewLoader prepares a loader; nothing is read until first use or Warm.
func NewLoader(datasetPath, modelPath string) *Loader {
	return &Loader{
		dataset: newOnce(datasetPath, dataset.Load),
		model:   newOnce(modelPath, model.Load),
	}
}

// Dataset returns the shared dataset.
func (l *Loader) Dataset() (*dataset.Dataset, error) {
	return l.dataset.get()
}

// Model returns the shared classifier.
func (l *Loader) Model() (model.Classifier, error) {
	return l.model.get()
}

// Warm loads both resources concurrently. Failures are logged and memoized
// so the affected views can show them; Warm itself never fails.
func (l *Loader) Warm(ctx context.Context) {
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		if _, err := l.Dataset(); err != nil {
			log.Error().Err(err).Str("path", l.dataset.path).Msg("[Resources] dataset unavailable")
		}
		return nil
	})
	g.Go(func() error {
		if _, err := l.Model(); err != nil {
			log.Error().Err(err).Str("path", l.model.path).Msg("[Resources] model unavailable")
		}
		return nil
	})
	_ = g.Wait()

	status := l.Status()
	if !status.Ready() {
		log.Warn().Msg("[Resources] running degraded; set DATASET_PATH and MODEL_PATH (artifact format in README.md)")
	}
	log.Info().
		Bool("dataset", status.Dataset.Loaded).
		Bool("model", status.Model.Loaded).
		Msg("[Resources] warm-up finished")
}

// Status reports what has been loaded so far.
func (l *Loader) Status() Status {
	return Status{Dataset: l.dataset.state(), Model: l.model.state()}
}
