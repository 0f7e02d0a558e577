package registry

import "github.com/donaldgifford/deck/internal/pipeline"

// Transformer mutates execution data before it is displayed. Transformers are
// not idempotent; callers apply the chain once per fetched execution.
type Transformer interface {
	Transform(app *pipeline.Application, exec *pipeline.Execution)
}

// TransformerFunc adapts a function to the Transformer interface.
type TransformerFunc func(app *pipeline.Application, exec *pipeline.Execution)

// Transform calls f.
func (f TransformerFunc) Transform(app *pipeline.Application, exec *pipeline.Execution) {
	f(app, exec)
}

// RegisterTransformer appends a transformer to the chain.
func (r *Registry) RegisterTransformer(t Transformer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.transformers = append(r.transformers, t)
}

// Transformers returns the registered transformers in registration order.
func (r *Registry) Transformers() []Transformer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]Transformer(nil), r.transformers...)
}

// ApplyTransformers runs every registered transformer against exec in order.
func (r *Registry) ApplyTransformers(app *pipeline.Application, exec *pipeline.Execution) {
	for _, t := range r.Transformers() {
		t.Transform(app, exec)
	}
}
