package engine

import "github.com/oocraftrabbitoo/truinlag/internal/protocol"

// Request is one external command entering the engine's serialized queue
// through Submit; scheduler loopbacks travel on the engine's separate
// loopback channel instead. A nil Reply means the result is discarded.
type Request struct {
	Session *uint64
	Command protocol.Command
	Reply   chan Result
}

// Result is the pair (response_action, optional_broadcast_action) from
// spec.md §4.1.
type Result struct {
	Action    protocol.ResponseAction
	Broadcast protocol.BroadcastAction
}
