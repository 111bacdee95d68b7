// Package kiosk drives a speech capture device and a playback device through
// the agent's turn protocol.
package kiosk

import "fmt"

type State int

const (
	Idle State = iota
	Listening
	AwaitingAgent
	Speaking
	Disconnected
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Listening:
		return "listening"
	case AwaitingAgent:
		return "awaiting_agent"
	case Speaking:
		return "speaking"
	case Disconnected:
		return "disconnected"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// InputEnabled reports whether a manual listen request is allowed.
func (s State) InputEnabled() bool { return s == Idle }

type Input int

const (
	ListenCmd Input = iota
	SpeakCmd
	Captured
	CaptureFailed
	Played
	PlaybackFailed
	ManualListen
	ConnLost
)

func (in Input) String() string {
	switch in {
	case ListenCmd:
		return "listen"
	case SpeakCmd:
		return "speak"
	case Captured:
		return "captured"
	case CaptureFailed:
		return "capture_failed"
	case Played:
		return "played"
	case PlaybackFailed:
		return "playback_failed"
	case ManualListen:
		return "manual_listen"
	case ConnLost:
		return "conn_lost"
	}
	return fmt.Sprintf("Input(%d)", int(in))
}

// Next is the pure transition function. ok is false when the input does not
// apply in s and must be ignored.
func Next(s State, in Input) (State, bool) {
	if s == Disconnected {
		return s, false
	}
	switch in {
	case ConnLost:
		return Disconnected, true
	case ListenCmd:
		if s == Listening {
			return s, false
		}
		return Listening, true
	case ManualListen:
		if s == Idle {
			return Listening, true
		}
	case SpeakCmd:
		return Speaking, true
	case Captured:
		if s == Listening {
			return AwaitingAgent, true
		}
	case CaptureFailed:
		if s == Listening {
			return Idle, true
		}
	case Played, PlaybackFailed:
		if s == Speaking {
			return Idle, true
		}
	}
	return s, false
}
