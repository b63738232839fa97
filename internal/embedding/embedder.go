package embedding

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"travelchat/internal/domain"
)

// Encoder is the optional text encoder. A nil backend is a valid state and
// makes every Encode call report "no vector", which callers treat as the
// signal to rank by keywords instead.
type Encoder struct {
	backend domain.Embedder
	logger  arbor.ILogger
}

// NewEncoder wraps backend, which may be nil.
func NewEncoder(backend domain.Embedder, logger arbor.ILogger) *Encoder {
	return &Encoder{backend: backend, logger: logger}
}

// Available reports whether a backend is configured.
func (e *Encoder) Available() bool { return e != nil && e.backend != nil }

// Name returns the backend name, or "none".
func (e *Encoder) Name() string {
	if !e.Available() {
		return "none"
	}
	return e.backend.Name()
}

// Dimension returns the backend vector size, 0 when unknown.
func (e *Encoder) Dimension() int {
	if !e.Available() {
		return 0
	}
	return e.backend.Dimension()
}

// Prepare fits the backend on the corpus.
func (e *Encoder) Prepare(ctx context.Context, corpus []string) (err error) {
	if !e.Available() {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("prepare %s encoder: panic: %v", e.backend.Name(), r)
		}
	}()
	return e.backend.Prepare(ctx, corpus)
}

// Encode returns the vector for text. ok is false when no backend is
// configured or the backend failed; failures are logged, never returned.
func (e *Encoder) Encode(ctx context.Context, text string) (vec []float64, ok bool) {
	if !e.Available() {
		return nil, false
	}
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn().Str("encoder", e.backend.Name()).Str("panic", fmt.Sprintf("%v", r)).Msg("Encoder panicked, degrading to keyword search")
			vec, ok = nil, false
		}
	}()
	v, err := e.backend.Embed(ctx, text)
	if err != nil {
		e.logger.Warn().Err(err).Str("encoder", e.backend.Name()).Msg("Encoding failed, degrading to keyword search")
		return nil, false
	}
	if len(v) == 0 {
		e.logger.Warn().Str("encoder", e.backend.Name()).Msg("Encoder returned an empty vector")
		return nil, false
	}
	if dim := e.backend.Dimension(); dim > 0 && len(v) != dim {
		e.logger.Warn().Int("expected", dim).Int("got", len(v)).Msg("Encoder returned a vector of unexpected dimension")
		return nil, false
	}
	return v, true
}
