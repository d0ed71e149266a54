package engine

// Engine is THE CORE virtual machine: three fixed memory banks, an
// instruction pointer, the sync-handshake registers, and an optional
// expansion. It has no internal threads and performs no I/O; every
// guest-visible effect is driven by a call to Step or PerformSync.
type Engine struct {
	main    bank
	screen  bank
	utility bank

	ip uint16

	posDest, keyDest uint16
	syncPending      bool
	expansionPending bool

	expansion    Expansion
	expansionSet bool
}

// DebugEvent is what DEBUG yields to the caller: the raw argument plus the
// two memory reads it names, exactly the triple spec.md ties to opcode 10.
type DebugEvent struct {
	A1 uint16
	A2 uint16
	A3 uint16
}

// New constructs an engine: banks start zeroed, then the program is copied
// into main memory prefix-wise (truncated if too long, zero-padded if
// short). If expansion is nil, a no-op expansion is installed in its place
// and OnInit/OnDeinit still fire against it - the "no expansion installed"
// case is realized by that stand-in, not by nil-checks scattered through
// the sync controller.
func New(program []uint16, expansion Expansion) *Engine {
	e := &Engine{}
	if len(program) > MemSize {
		program = program[:MemSize]
	}
	e.main.loadProgram(program)

	e.expansionSet = expansion != nil
	if expansion == nil {
		expansion = nullExpansion{}
	}
	e.expansion = expansion
	e.expansion.OnInit()

	return e
}

// HasExpansion reports whether New was given a real expansion, as opposed
// to the built-in no-op stand-in.
func (e *Engine) HasExpansion() bool {
	return e.expansionSet
}

// Close runs the installed expansion's OnDeinit exactly once. Re-running a
// closed engine has no defined semantics (spec.md §9: re-initialization is
// done by discarding the engine and constructing a fresh one).
func (e *Engine) Close() {
	e.expansion.OnDeinit()
}

// Get reads a word of main memory for debugger/inspection purposes. It
// never mutates engine state.
func (e *Engine) Get(addr uint16) uint16 {
	return e.main.read(addr)
}

// ReadInstruction returns the four words at IP, for debuggers.
func (e *Engine) ReadInstruction() [4]uint16 {
	instr := fetch(&e.main, e.ip)
	return [4]uint16{instr.Opcode, instr.A1, instr.A2, instr.A3}
}

// WantsToSync reports whether the guest has executed SYNC since the last
// PerformSync. It is advisory only - the engine never blocks on its own.
func (e *Engine) WantsToSync() bool {
	return e.syncPending
}

// Step executes exactly one instruction and returns (a) nothing, (b) a
// DEBUG event, or (c) an error. It never blocks.
func (e *Engine) Step() (*DebugEvent, error) {
	return e.execNext()
}

// PerformSync implements the host<->guest frame handshake described in
// spec.md §4.3:
//
//  1. dest receives a byte-for-byte copy of the screen buffer.
//  2. If SYNC raised sync_pending, it is cleared and the two input codes are
//     written to the addresses SYNC named.
//  3. If SYNC raised expansion_pending, the installed expansion (or the
//     no-op stand-in) sees a freshly zeroed scratch buffer and its result
//     becomes the new utility buffer; expansion_pending is cleared.
func (e *Engine) PerformSync(posCode, keyCode uint16, dest []uint16) error {
	if len(dest) != MemSize {
		return &InvalidDestinationError{Got: len(dest)}
	}
	copy(dest, e.screen[:])

	if e.syncPending {
		e.syncPending = false
		e.main.write(e.posDest, posCode)
		e.main.write(e.keyDest, keyCode)
	}

	if e.expansionPending {
		var scratch bank
		e.expansion.ExpansionTriggered(scratch[:])
		e.utility = scratch
		e.expansionPending = false
	}

	return nil
}
