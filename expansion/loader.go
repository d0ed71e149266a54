// Package expansion holds the concrete engine.Expansion implementations:
// a dynamically loaded shared object speaking the four-symbol C ABI, a
// sound device, and a random-noise generator for testing and demos.
package expansion

import (
	"fmt"

	"github.com/ebitengine/purego"
	"svc16/engine"
)

// The four symbols every expansion shared object must export, named after
// the sample expansion in the original implementation.
const (
	symAPIVersion = "svc16_expansion_api_version"
	symOnInit     = "svc16_expansion_on_init"
	symOnDeinit   = "svc16_expansion_on_deinit"
	symTriggered  = "svc16_expansion_triggered"
)

// LoadError reports why a shared object could not be adopted as an
// engine.Expansion: the library failed to open, a required symbol was
// missing, or its reported API version doesn't match what the engine
// accepts.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load expansion %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Plugin is an engine.Expansion backed by a dynamically loaded shared
// object. Its four methods call straight through to the C symbols that
// were resolved at load time; the engine never knows the difference
// between this and a native implementation such as Sound or Random.
type Plugin struct {
	handle uintptr

	apiVersion func() uint32
	onInit     func()
	onDeinit   func()
	triggered  func(buf *uint16)
}

// LoadPlugin opens the shared object at path, resolves its four required
// symbols, and validates that it reports engine.ExpansionAPIVersion. The
// returned Plugin is ready to pass to engine.New.
func LoadPlugin(path string) (*Plugin, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	p := &Plugin{handle: handle}
	for _, s := range []struct {
		fptr interface{}
		name string
	}{
		{&p.apiVersion, symAPIVersion},
		{&p.onInit, symOnInit},
		{&p.onDeinit, symOnDeinit},
		{&p.triggered, symTriggered},
	} {
		sym, err := purego.Dlsym(handle, s.name)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		purego.RegisterFunc(s.fptr, sym)
	}

	if v := p.apiVersion(); v != engine.ExpansionAPIVersion {
		return nil, &LoadError{
			Path: path,
			Err:  fmt.Errorf("api version %d, engine wants %d", v, engine.ExpansionAPIVersion),
		}
	}
	return p, nil
}

// APIVersion reports the version the loaded object returned at load time.
func (p *Plugin) APIVersion() uint32 { return engine.ExpansionAPIVersion }

// OnInit calls the loaded object's init symbol.
func (p *Plugin) OnInit() { p.onInit() }

// OnDeinit calls the loaded object's deinit symbol.
func (p *Plugin) OnDeinit() { p.onDeinit() }

// ExpansionTriggered passes the scratch buffer to the loaded object by
// pointer to its first element, matching the C ABI's fixed-size array
// parameter.
func (p *Plugin) ExpansionTriggered(buf []uint16) {
	if len(buf) == 0 {
		return
	}
	p.triggered(&buf[0])
}
