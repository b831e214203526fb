package workflow

import (
	"fmt"
	"sort"
)

// Transitions maps a state and trigger to the state the trigger leads to
type Transitions map[State]map[Trigger]State

// Machine tracks one application's position in a lifecycle.
// It is not safe for concurrent use.
type Machine struct {
	state       State
	transitions Transitions
}

// NewMachine positions a machine at state within the given lifecycle
func NewMachine(transitions Transitions, state State) (*Machine, error) {
	if !state.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, state)
	}
	return &Machine{state: state, transitions: transitions}, nil
}

// State returns the current state
func (m *Machine) State() State {
	return m.state
}

// CanFire reports whether trigger leads anywhere from the current state
func (m *Machine) CanFire(trigger Trigger) bool {
	_, ok := m.transitions[m.state][trigger]
	return ok
}

// Fire moves the machine along trigger
func (m *Machine) Fire(trigger Trigger) error {
	next, ok := m.transitions[m.state][trigger]
	if !ok {
		return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, trigger, m.state)
	}
	m.state = next
	return nil
}

// PermittedTriggers returns the triggers available from the current state, sorted
func (m *Machine) PermittedTriggers() []Trigger {
	triggers := make([]Trigger, 0, len(m.transitions[m.state]))
	for trigger := range m.transitions[m.state] {
		triggers = append(triggers, trigger)
	}
	sort.Slice(triggers, func(i, j int) bool { return triggers[i] < triggers[j] })
	return triggers
}
