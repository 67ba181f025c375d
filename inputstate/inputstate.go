// Package inputstate implements C5: conversion from a per-step level
// snapshot of "is this input held" into the press/release edge events the
// mod actually consumes, so callers never need to track prior state
// themselves.
package inputstate

import "github.com/go-mclib/mcio/types"

// Manager converts level state into edge events across steps. The zero
// value is ready to use (pressed_set starts empty), matching the spec's
// "on env reset the manager is dropped and recreated" behavior — callers
// just construct a new Manager.
type Manager struct {
	pressedSet map[types.InputID]struct{}
}

// New returns a Manager with no inputs currently held.
func New() *Manager {
	return &Manager{pressedSet: make(map[types.InputID]struct{})}
}

// Step computes the edge events for this tick given the set of ids held
// down (pressed) and the set explicitly released this tick, then updates
// internal state. If an id appears in both pressed and released, pressed
// wins (the id stays down) — matching the spec's tie-break.
//
// All presses are emitted before all releases. Presses follow the order of
// the pressed slice; releases follow the iteration order of the internal
// held set, which is not defined.
func (m *Manager) Step(pressed, released []types.InputID) []types.InputEvent {
	if m.pressedSet == nil {
		m.pressedSet = make(map[types.InputID]struct{})
	}
	releasedSet := make(map[types.InputID]struct{}, len(released))
	for _, id := range released {
		releasedSet[id] = struct{}{}
	}

	var events []types.InputEvent

	for _, id := range pressed {
		if _, already := m.pressedSet[id]; !already {
			events = append(events, types.InputEvent{Type: id.Type, Code: id.Code, Action: types.ActionPress})
		}
	}
	for id := range m.pressedSet {
		if _, stillPressed := contains(pressed, id); stillPressed {
			continue
		}
		if _, wasReleased := releasedSet[id]; wasReleased {
			events = append(events, types.InputEvent{Type: id.Type, Code: id.Code, Action: types.ActionRelease})
		}
	}

	for _, id := range pressed {
		m.pressedSet[id] = struct{}{}
	}
	for id := range releasedSet {
		if _, stillPressed := contains(pressed, id); !stillPressed {
			delete(m.pressedSet, id)
		}
	}

	return events
}

func contains(ids []types.InputID, target types.InputID) (struct{}, bool) {
	for _, id := range ids {
		if id == target {
			return struct{}{}, true
		}
	}
	return struct{}{}, false
}

// Partition splits an action map (action-name -> truthy value) into
// pressed/released InputID sets using the provided action-name -> InputID
// mapping. Any truthy value (non-zero) is pressed; zero is released.
// Action-map keys absent from ids are ignored.
func Partition(actionMap map[string]float64, ids map[string]types.InputID) (pressed, released []types.InputID) {
	for name, value := range actionMap {
		id, ok := ids[name]
		if !ok {
			continue
		}
		if value != 0 {
			pressed = append(pressed, id)
		} else {
			released = append(released, id)
		}
	}
	return pressed, released
}
