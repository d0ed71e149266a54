package engine

import "testing"

// countingExpansion records how many times it was triggered and writes a
// fixed marker byte, modeling the S5 scenario from spec.md.
type countingExpansion struct {
	triggers int
}

func (c *countingExpansion) APIVersion() uint32 { return ExpansionAPIVersion }
func (c *countingExpansion) OnInit()            {}
func (c *countingExpansion) OnDeinit()          {}
func (c *countingExpansion) ExpansionTriggered(buf []uint16) {
	c.triggers++
	buf[0] = 0xAA
}

func program(words ...uint16) []uint16 {
	return words
}

// S1 - hello screen: SET 0 72 0; PRINT 0 0 0; SYNC 0 0 0. SET makes
// M[0] = 72, so PRINT writes S[M[0]] = M[0], i.e. S[72] = 72.
func TestHelloScreen(t *testing.T) {
	p := program(
		OpSet, 0, 72, 0,
		OpPrint, 0, 0, 0,
		OpSync, 0, 0, 0,
	)
	e := New(p, nil)
	for i := 0; i < 3; i++ {
		if _, err := e.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	if !e.WantsToSync() {
		t.Fatal("expected wants_to_sync after SYNC")
	}

	dest := make([]uint16, MemSize)
	if err := e.PerformSync(0, 0, dest); err != nil {
		t.Fatalf("perform_sync: %v", err)
	}
	if dest[72] != 72 {
		t.Fatalf("dest[72] = %d, want 72", dest[72])
	}
	for i := 0; i < MemSize; i++ {
		if i != 72 && dest[i] != 0 {
			t.Fatalf("dest[%d] = %d, want 0", i, dest[i])
		}
	}
	if e.WantsToSync() {
		t.Fatal("wants_to_sync should be false immediately after perform_sync")
	}
}

// S2 - division trap: SET 0 10 0; SET 1 0 0; DIV 0 1 2.
func TestDivisionTrap(t *testing.T) {
	p := program(
		OpSet, 0, 10, 0,
		OpSet, 1, 0, 0,
		OpDiv, 0, 1, 2,
	)
	e := New(p, nil)
	for i := 0; i < 2; i++ {
		if _, err := e.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	_, err := e.Step()
	if err == nil {
		t.Fatal("expected ZeroDivisionError")
	}
	zde, ok := err.(*ZeroDivisionError)
	if !ok {
		t.Fatalf("got error %v (%T), want *ZeroDivisionError", err, err)
	}
	if zde.Numerator != 10 {
		t.Fatalf("numerator = %d, want 10", zde.Numerator)
	}
	// M[2] still holds the program word it was loaded with (the 10 of
	// SET 0 10 0).
	if e.Get(2) != 10 {
		t.Fatalf("M[2] = %d, want 10 (unmutated)", e.Get(2))
	}
	if e.ReadInstruction()[0] != OpDiv {
		t.Fatal("IP should still point at the faulting DIV instruction")
	}
}

// S3 - invalid opcode.
func TestInvalidOpcode(t *testing.T) {
	p := program(16, 0, 0, 0)
	e := New(p, nil)
	_, err := e.Step()
	iie, ok := err.(*InvalidInstructionError)
	if !ok {
		t.Fatalf("got error %v (%T), want *InvalidInstructionError", err, err)
	}
	if iie.Opcode != 16 {
		t.Fatalf("opcode = %d, want 16", iie.Opcode)
	}
	if e.ReadInstruction()[0] != 16 {
		t.Fatal("IP should not have advanced")
	}
}

// S4 - IP-capture SET.
func TestSetCapturesIP(t *testing.T) {
	p := make([]uint16, 8)
	// addr 0: SET 100 0 1
	p[0], p[1], p[2], p[3] = OpSet, 100, 0, 1
	// addr 4: SET 100 0 1
	p[4], p[5], p[6], p[7] = OpSet, 100, 0, 1
	e := New(p, nil)
	if _, err := e.Step(); err != nil {
		t.Fatal(err)
	}
	if got := e.Get(100); got != 0 {
		t.Fatalf("M[100] = %d after first SET, want 0", got)
	}
	if _, err := e.Step(); err != nil {
		t.Fatal(err)
	}
	if got := e.Get(100); got != 4 {
		t.Fatalf("M[100] = %d after second SET, want 4", got)
	}
}

// S5 - expansion trigger with an installed expansion.
func TestExpansionTriggerInstalled(t *testing.T) {
	exp := &countingExpansion{}
	p := program(OpSync, 0, 0, 1)
	e := New(p, exp)
	if _, err := e.Step(); err != nil {
		t.Fatal(err)
	}
	dest := make([]uint16, MemSize)
	if err := e.PerformSync(0, 0, dest); err != nil {
		t.Fatal(err)
	}
	if exp.triggers != 1 {
		t.Fatalf("triggers = %d, want 1", exp.triggers)
	}
	if got := e.utility.read(0); got != 0xAA {
		t.Fatalf("U[0] = %#x, want 0xAA", got)
	}
	if got := e.utility.read(1); got != 0 {
		t.Fatalf("U[1] = %d, want 0", got)
	}

	// A subsequent SYNC with a3=0 must leave U untouched.
	e.ip = 0
	e.main.loadProgram(program(OpSync, 0, 0, 0))
	if _, err := e.Step(); err != nil {
		t.Fatal(err)
	}
	if err := e.PerformSync(0, 0, dest); err != nil {
		t.Fatal(err)
	}
	if got := e.utility.read(0); got != 0xAA {
		t.Fatalf("U[0] changed to %#x after a non-expansion sync", got)
	}
}

// S6 - expansion trigger without an expansion installed.
func TestExpansionTriggerNoExpansion(t *testing.T) {
	p := make([]uint16, 0, 16)
	// Fill U[0] via PRINT(mode=1), then SYNC with expansion bit set.
	p = append(p, OpSet, 0, 0xBEEF, 0) // M[0] = 0xBEEF
	p = append(p, OpSet, 1, 0, 0)      // M[1] = 0 (index)
	p = append(p, OpPrint, 0, 1, 1)    // U[M[1]] = M[0]
	p = append(p, OpSync, 0, 0, 1)
	e := New(p, nil)
	for i := 0; i < 4; i++ {
		if _, err := e.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	dest := make([]uint16, MemSize)
	if err := e.PerformSync(0, 0, dest); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < MemSize; i++ {
		if got := e.utility.read(uint16(i)); got != 0 {
			t.Fatalf("U[%d] = %d, want 0", i, got)
		}
	}
}

// Round-trip: PRINT then READ on S and U at the same index.
func TestPrintReadRoundTrip(t *testing.T) {
	for mode := uint16(0); mode <= 1; mode++ {
		p := program(
			OpSet, 0, 0x1234, 0, // M[0] = value
			OpSet, 1, 42, 0, // M[1] = index
			OpPrint, 0, 1, mode,
			OpRead, 1, 2, mode, // M[2] = bank[M[1]]
		)
		e := New(p, nil)
		for i := 0; i < 4; i++ {
			if _, err := e.Step(); err != nil {
				t.Fatal(err)
			}
		}
		if got := e.Get(2); got != 0x1234 {
			t.Fatalf("mode %d: M[2] = %#x, want 0x1234", mode, got)
		}
	}
}

// Round-trip: REF then DEREF against the same base/offset.
func TestRefDerefRoundTrip(t *testing.T) {
	p := program(
		OpSet, 0, 1000, 0, // M[0] = base
		OpSet, 1, 0xCAFE, 0, // M[1] = value
		OpRef, 0, 1, 5, // M[M[0]+5] = M[1]
		OpDeref, 0, 2, 5, // M[2] = M[M[0]+5]
	)
	e := New(p, nil)
	for i := 0; i < 4; i++ {
		if _, err := e.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if got := e.Get(2); got != 0xCAFE {
		t.Fatalf("M[2] = %#x, want 0xCAFE", got)
	}
}

// Boundary: an instruction straddling 65535->0 decodes by word-wise wrap.
func TestInstructionWrapsAcrossMemoryEnd(t *testing.T) {
	e := New(nil, nil)
	e.main.write(65535, OpSet)
	e.main.write(0, 7) // a1
	e.main.write(1, 9) // a2
	e.main.write(2, 0) // a3
	e.ip = 65535
	if _, err := e.Step(); err != nil {
		t.Fatal(err)
	}
	if got := e.Get(7); got != 9 {
		t.Fatalf("M[7] = %d, want 9", got)
	}
	if e.ip != 3 {
		t.Fatalf("IP = %d, want 3", e.ip)
	}
}

// Boundary: GOTO with a1=65535, a2=4 lands at IP=3 when M[65535]=65535.
func TestGotoWraps(t *testing.T) {
	e := New(nil, nil)
	e.main.write(65535, 65535)
	e.main.write(0, OpGoto)
	e.main.write(1, 65535)
	e.main.write(2, 4)
	e.main.write(3, 10) // a3 names address 10, left zeroed -> @a3 == 0, branch taken
	if _, err := e.Step(); err != nil {
		t.Fatal(err)
	}
	if e.ip != 3 {
		t.Fatalf("IP = %d, want 3", e.ip)
	}
}

// Boundary: SKIP with a1=1, a2=2 moves IP back by one instruction (4 words).
func TestSkipBackward(t *testing.T) {
	e := New(nil, nil)
	e.ip = 40
	e.main.write(40, OpSkip)
	e.main.write(41, 1)
	e.main.write(42, 2)
	e.main.write(43, 0)
	if _, err := e.Step(); err != nil {
		t.Fatal(err)
	}
	if e.ip != 36 {
		t.Fatalf("IP = %d, want 36", e.ip)
	}
}

// DEBUG returns its triple without mutating memory.
func TestDebugEvent(t *testing.T) {
	p := program(
		OpSet, 10, 111, 0,
		OpDebug, 7, 10, 0,
	)
	e := New(p, nil)
	if _, err := e.Step(); err != nil {
		t.Fatal(err)
	}
	ev, err := e.Step()
	if err != nil {
		t.Fatal(err)
	}
	if ev == nil {
		t.Fatal("expected a debug event")
	}
	if ev.A1 != 7 || ev.A2 != 111 || ev.A3 != 0 {
		t.Fatalf("got %+v", ev)
	}
}

// PerformSync rejects a mis-sized destination slice.
func TestPerformSyncValidatesDestinationLength(t *testing.T) {
	e := New(nil, nil)
	err := e.PerformSync(0, 0, make([]uint16, 10))
	if err == nil {
		t.Fatal("expected an error for a short destination")
	}
}

func TestArithmeticWraps(t *testing.T) {
	p := program(
		OpSet, 0, 65535, 0,
		OpSet, 1, 2, 0,
		OpAdd, 0, 1, 2,
	)
	e := New(p, nil)
	for i := 0; i < 3; i++ {
		if _, err := e.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if got := e.Get(2); got != 1 {
		t.Fatalf("65535+2 = %d, want 1 (wrapped)", got)
	}
}
