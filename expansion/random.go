package expansion

import "math/rand"

// Random is an engine.Expansion that ignores the scratch buffer it's
// handed and fills it with noise, the same contract the reference
// implementation's RandomExpansion exposes. It's useful for fuzzing guest
// programs that read the utility buffer without needing a real device.
type Random struct{}

func (Random) APIVersion() uint32 { return 1 }
func (Random) OnInit()            {}
func (Random) OnDeinit()          {}

func (Random) ExpansionTriggered(buf []uint16) {
	for i := range buf {
		buf[i] = uint16(rand.Intn(1 << 16))
	}
}
