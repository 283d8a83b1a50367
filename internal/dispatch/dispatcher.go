// Package dispatch turns option activations into choice requests.
package dispatch

import (
	"errors"
	"fmt"

	"inkpad/internal/narrative"
	"inkpad/internal/syncer"
)

var (
	// ErrNotActive rejects choices while the story is empty or has ended.
	ErrNotActive = errors.New("no choices available")
	// ErrNoSuchOption rejects an index outside the current option list.
	ErrNoSuchOption = errors.New("no such option")
)

// Renderer is the read side of narrative.Renderer the gate needs.
type Renderer interface {
	State() narrative.State
	Options() []narrative.Option
}

// Chooser issues choice requests; *syncer.Synchronizer implements it.
type Chooser interface {
	Choose(index int) (syncer.Request, error)
}

// Dispatcher gates choices on renderer state.
type Dispatcher struct {
	renderer Renderer
	chooser  Chooser
}

func New(renderer Renderer, chooser Chooser) *Dispatcher {
	return &Dispatcher{renderer: renderer, chooser: chooser}
}

// Dispatch builds the request for option index. The caller sends and
// resolves it like any other request.
func (d *Dispatcher) Dispatch(index int) (syncer.Request, error) {
	if state := d.renderer.State(); state != narrative.StateActive {
		return syncer.Request{}, fmt.Errorf("%w: story is %s", ErrNotActive, state)
	}
	opts := d.renderer.Options()
	if index < 0 || index >= len(opts) {
		return syncer.Request{}, fmt.Errorf("%w: %d of %d", ErrNoSuchOption, index+1, len(opts))
	}
	return d.chooser.Choose(opts[index].Index)
}
