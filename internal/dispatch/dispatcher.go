package dispatch

import (
	"context"
	"fmt"

	"github.com/inklab/canvasbridge/internal/document"
	"github.com/inklab/canvasbridge/internal/protocol"
)

// ParamSpec describes one parameter in a command's schema.
type ParamSpec struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Spec declares one command: its catalog entry plus its runner. The runner
// decodes the typed parameter struct and invokes the handler.
type Spec struct {
	Name        string
	Description string
	Parameters  []ParamSpec

	run func(ctx context.Context, doc *document.Context, cmd protocol.Command) (any, error)
}

// command builds a Spec whose parameters decode into P at the dispatch
// boundary, before the handler sees them.
func command[P any](name, description string, params []ParamSpec, handle func(ctx context.Context, doc *document.Context, p P) (any, error)) Spec {
	return Spec{
		Name:        name,
		Description: description,
		Parameters:  params,
		run: func(ctx context.Context, doc *document.Context, cmd protocol.Command) (any, error) {
			var p P
			if err := cmd.DecodeParams(&p); err != nil {
				return nil, err
			}
			return handle(ctx, doc, p)
		},
	}
}

// Dispatcher resolves command names against a static table and executes
// handlers against one document context.
type Dispatcher struct {
	doc   *document.Context
	table map[string]Spec
	order []string
}

// New creates a dispatcher bound to a document context.
func New(doc *document.Context) *Dispatcher {
	d := &Dispatcher{
		doc:   doc,
		table: make(map[string]Spec),
	}
	for _, spec := range d.specs() {
		d.table[spec.Name] = spec
		d.order = append(d.order, spec.Name)
	}
	return d
}

// Catalog returns every command spec in registration order.
func (d *Dispatcher) Catalog() []Spec {
	out := make([]Spec, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.table[name])
	}
	return out
}

// Dispatch executes a command and always yields exactly one response
// carrying the command's id. Handler resolution is an exact string match;
// all failures, panics included, become error responses.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd protocol.Command) (resp protocol.Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = protocol.NewError(cmd.ID, fmt.Sprintf("internal error in %s: %v", cmd.Method, r))
		}
	}()

	spec, ok := d.table[cmd.Method]
	if !ok {
		return protocol.NewError(cmd.ID, fmt.Sprintf("Unknown command: %s", cmd.Method))
	}

	result, err := spec.run(ctx, d.doc, cmd)
	if err != nil {
		return protocol.NewError(cmd.ID, err.Error())
	}
	return protocol.NewResult(cmd.ID, result)
}
