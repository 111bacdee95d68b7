package floor

import "fmt"

// State is whose turn it is in one session.
type State int

const (
	AwaitingPrompt State = iota
	Speaking
	Listening
	Processing
	Terminated
)

func (s State) String() string {
	switch s {
	case AwaitingPrompt:
		return "AWAITING_PROMPT"
	case Speaking:
		return "SPEAKING"
	case Listening:
		return "LISTENING"
	case Processing:
		return "PROCESSING"
	case Terminated:
		return "TERMINATED"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

type Event int

const (
	SetPrompt Event = iota
	SpeechEnded
	UserSpeech
	ResponseReady
	Disconnect
)

func (e Event) String() string {
	switch e {
	case SetPrompt:
		return "setPrompt"
	case SpeechEnded:
		return "speechEnded"
	case UserSpeech:
		return "userSpeech"
	case ResponseReady:
		return "responseReady"
	case Disconnect:
		return "disconnect"
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// Next is the pure transition function. ok is false when the event does not
// apply in state s, in which case s is returned unchanged.
//
// The client drives setPrompt, speechEnded and userSpeech and may send them
// in any live state; the agent answers each of them regardless. Only the
// agent produces ResponseReady, and only while processing.
func Next(s State, e Event) (State, bool) {
	if s == Terminated {
		return Terminated, false
	}
	switch e {
	case Disconnect:
		return Terminated, true
	case SetPrompt:
		return Speaking, true
	case SpeechEnded:
		return Listening, true
	case UserSpeech:
		return Processing, true
	case ResponseReady:
		if s == Processing {
			return Speaking, true
		}
	}
	return s, false
}

// Transition is reported to observers on every state change.
type Transition struct {
	From, To State
	Event    Event
}

// Manager tracks one session's turn state. It is not safe for concurrent use;
// the session's read loop owns it.
type Manager struct {
	state    State
	onChange func(Transition)
}

func New(onChange func(Transition)) *Manager {
	return &Manager{state: AwaitingPrompt, onChange: onChange}
}

func (m *Manager) State() State { return m.state }

// Fire applies e and reports whether it was accepted.
func (m *Manager) Fire(e Event) bool {
	to, ok := Next(m.state, e)
	if !ok {
		return false
	}
	from := m.state
	m.state = to
	if from != to && m.onChange != nil {
		m.onChange(Transition{From: from, To: to, Event: e})
	}
	return true
}
