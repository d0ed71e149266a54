package engine

// Opcode values. Anything outside this range is InvalidInstructionError.
const (
	OpSet   uint16 = 0
	OpGoto  uint16 = 1
	OpSkip  uint16 = 2
	OpAdd   uint16 = 3
	OpSub   uint16 = 4
	OpMul   uint16 = 5
	OpDiv   uint16 = 6
	OpCmp   uint16 = 7
	OpDeref uint16 = 8
	OpRef   uint16 = 9
	OpDebug uint16 = 10
	OpPrint uint16 = 11
	OpRead  uint16 = 12
	OpBand  uint16 = 13
	OpXor   uint16 = 14
	OpSync  uint16 = 15
)

// execNext fetches and executes exactly one instruction at the current IP.
// Every arithmetic operation below is plain uint16 arithmetic, which the Go
// spec already defines as wrapping modulo 2^16 - no explicit mod is needed
// anywhere in this switch.
func (e *Engine) execNext() (*DebugEvent, error) {
	ip := e.ip
	instr := fetch(&e.main, ip)

	switch instr.Opcode {
	case OpSet:
		if instr.A3 == 0 {
			e.main.write(instr.A1, instr.A2)
		} else {
			// Captures the pre-advance IP.
			e.main.write(instr.A1, ip)
		}
		e.ip = ip + 4

	case OpGoto:
		if e.main.read(instr.A3) == 0 {
			e.ip = e.main.read(instr.A1) + instr.A2
		} else {
			e.ip = ip + 4
		}

	case OpSkip:
		if e.main.read(instr.A3) == 0 {
			e.ip = ip + 4*instr.A1 - 4*instr.A2
		} else {
			e.ip = ip + 4
		}

	case OpAdd:
		e.main.write(instr.A3, e.main.read(instr.A1)+e.main.read(instr.A2))
		e.ip = ip + 4

	case OpSub:
		e.main.write(instr.A3, e.main.read(instr.A1)-e.main.read(instr.A2))
		e.ip = ip + 4

	case OpMul:
		e.main.write(instr.A3, e.main.read(instr.A1)*e.main.read(instr.A2))
		e.ip = ip + 4

	case OpDiv:
		numerator := e.main.read(instr.A1)
		divisor := e.main.read(instr.A2)
		if divisor == 0 {
			return nil, &ZeroDivisionError{Numerator: numerator}
		}
		e.main.write(instr.A3, numerator/divisor)
		e.ip = ip + 4

	case OpCmp:
		var result uint16
		if e.main.read(instr.A1) < e.main.read(instr.A2) {
			result = 1
		}
		e.main.write(instr.A3, result)
		e.ip = ip + 4

	case OpDeref:
		// a3 is an immediate offset, not @a3.
		addr := e.main.read(instr.A1) + instr.A3
		e.main.write(instr.A2, e.main.read(addr))
		e.ip = ip + 4

	case OpRef:
		addr := e.main.read(instr.A1) + instr.A3
		e.main.write(addr, e.main.read(instr.A2))
		e.ip = ip + 4

	case OpDebug:
		ev := &DebugEvent{
			A1: instr.A1,
			A2: e.main.read(instr.A2),
			A3: e.main.read(instr.A3),
		}
		e.ip = ip + 4
		return ev, nil

	case OpPrint:
		b := e.ioBank(instr.A3)
		b.write(e.main.read(instr.A2), e.main.read(instr.A1))
		e.ip = ip + 4

	case OpRead:
		b := e.ioBank(instr.A3)
		e.main.write(instr.A2, b.read(e.main.read(instr.A1)))
		e.ip = ip + 4

	case OpBand:
		e.main.write(instr.A3, e.main.read(instr.A1)&e.main.read(instr.A2))
		e.ip = ip + 4

	case OpXor:
		e.main.write(instr.A3, e.main.read(instr.A1)^e.main.read(instr.A2))
		e.ip = ip + 4

	case OpSync:
		e.syncPending = true
		e.posDest = instr.A1
		e.keyDest = instr.A2
		if instr.A3 > 0 {
			e.expansionPending = true
		}
		e.ip = ip + 4

	default:
		return nil, &InvalidInstructionError{Opcode: instr.Opcode}
	}

	return nil, nil
}

// ioBank picks the screen buffer (mode 0) or the utility buffer (mode 1),
// as used by PRINT and READ.
func (e *Engine) ioBank(mode uint16) *bank {
	if mode == 0 {
		return &e.screen
	}
	return &e.utility
}
