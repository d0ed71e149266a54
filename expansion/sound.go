package expansion

import (
	"fmt"
	"sync"

	"github.com/golang/glog"
	"github.com/gordonklaus/portaudio"
)

// sampleRate matches the fixed rate the reference SoundExpansion treats the
// utility buffer's contents as: one word per sample, signed 16-bit PCM.
const sampleRate = 16000

// Sound is an engine.Expansion that treats the triggering utility buffer
// as a block of signed 16-bit PCM samples and plays it through the host's
// default audio device: a buffered channel feeds a callback running on
// PortAudio's own thread.
type Sound struct {
	stream *portaudio.Stream
	queue  chan float32

	mu      sync.Mutex
	samples []uint16
}

// NewSound opens the default output stream. Callers must call Close when
// the engine shuts down.
func NewSound() (*Sound, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("expansion: portaudio init: %w", err)
	}
	s := &Sound{queue: make(chan float32, sampleRate)}

	cb := func(out []float32) {
		for i := range out {
			select {
			case x := <-s.queue:
				out[i] = x
			default:
				out[i] = 0
			}
		}
	}
	stream, err := portaudio.OpenDefaultStream(0, 1, sampleRate, 0, cb)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("expansion: open default stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("expansion: start stream: %w", err)
	}
	s.stream = stream
	return s, nil
}

func (s *Sound) APIVersion() uint32 { return 1 }

func (s *Sound) OnInit() {
	glog.Info("sound expansion initialized")
}

func (s *Sound) OnDeinit() {
	if err := s.stream.Stop(); err != nil {
		glog.Warningf("sound expansion: stop stream: %v", err)
	}
}

// ExpansionTriggered reinterprets buf as signed 16-bit PCM, normalizes it
// to [-1, 1] the same way the reference implementation does, and enqueues
// it for playback. It does not retain buf past the call.
func (s *Sound) ExpansionTriggered(buf []uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range buf {
		sample := float32(int16(u)) / 32768.0
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}
		select {
		case s.queue <- sample:
		default:
			// Queue full: drop the sample rather than block the engine.
		}
	}
}

// Close stops the stream and releases the PortAudio host API.
func (s *Sound) Close() {
	if s.stream != nil {
		s.stream.Close()
	}
	portaudio.Terminate()
}
