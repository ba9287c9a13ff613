// Package uplinksim implements an UplinkSource for testing and
// simulation: commands are queued as raw ASCII lines rather than arriving
// over an actual Iridium modem session, but the authorization and
// suppression rules are identical to the real collaborator's contract.
package uplinksim

import (
	"context"
	"sync"

	"github.com/highaltitude/cutdown/pkg/collab"
)

// Source is an UplinkSource backed by a queue of raw command lines. Each
// call to PollRemoteCut dequeues and authorizes at most one line.
type Source struct {
	mu           sync.Mutex
	queue        []string
	serialNumber uint32
	token        string
	suppressed   bool
}

// New returns an uplink source authorizing against the given serial
// number and token (section 6's "CUT,<serial>,<token>" grammar).
func New(serialNumber uint32, token string) *Source {
	return &Source{serialNumber: serialNumber, token: token}
}

// Enqueue adds a raw command line to be considered on a future poll, as
// if it had just arrived over the air.
func (s *Source) Enqueue(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, line)
}

// Suppress permanently stops granting remote-cut edges, mirroring the
// collaborator's responsibility to suppress the command once cut_fired
// or terminated (section 6). The instrument layer calls this once the
// core reports either latch.
func (s *Source) Suppress() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suppressed = true
}

// PollRemoteCut dequeues at most one command line and reports whether it
// authorized a remote cut this tick.
func (s *Source) PollRemoteCut(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.suppressed || len(s.queue) == 0 {
		return false, nil
	}

	line := s.queue[0]
	s.queue = s.queue[1:]

	return collab.ParseRemoteCutCommand(line, s.serialNumber, s.token), nil
}
