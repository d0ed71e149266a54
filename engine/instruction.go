package engine

// Instruction is the four words read at IP: an opcode and three arguments
// whose meaning depends on the opcode (see exec.go).
type Instruction struct {
	Opcode uint16
	A1     uint16
	A2     uint16
	A3     uint16
}

// fetch reads the instruction at ip, wrapping address arithmetic the same
// way an instruction straddling 65535->0 would.
func fetch(m *bank, ip uint16) Instruction {
	return Instruction{
		Opcode: m.read(ip),
		A1:     m.read(ip + 1),
		A2:     m.read(ip + 2),
		A3:     m.read(ip + 3),
	}
}
