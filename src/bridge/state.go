// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package bridge

// State is the lifecycle stage of a client context.
type State int

const (
	// StateUnconfigured is a fresh context, before InitFull.
	StateUnconfigured State = iota
	// StateInitialized is an initialised engine with no handshake in progress.
	StateInitialized
	// StateHandshaking follows a successful Reset.
	StateHandshaking
	// StateEstablished is reached once the peer has been authenticated.
	StateEstablished
	// StateFailed is a closed engine with an error recorded.
	StateFailed
)

var stateNames = [...]string{
	StateUnconfigured: "unconfigured",
	StateInitialized:  "initialized",
	StateHandshaking:  "handshaking",
	StateEstablished:  "established",
	StateFailed:       "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
