// Package dashboard computes the dashboard page for one interaction: it keeps
// the navigation state consistent and dispatches to exactly one sub-view.
package dashboard

import (
	"encoding/json"
	"fmt"

	"cardiodash/internal/errors"
)

// Menu names a dashboard sub-view.
type Menu string

const (
	MenuExploration    Menu = "Data Exploration"
	MenuVisualisations Menu = "Visualisations"
	MenuPrediction     Menu = "Model Prediction"
	MenuPerformance    Menu = "Model Performance"
)

// DefaultMenu is shown on first render and after a corrupted state is reset.
const DefaultMenu = MenuExploration

// Menus lists the selector options in display order.
var Menus = []Menu{MenuExploration, MenuVisualisations, MenuPrediction, MenuPerformance}

// Valid reports whether m is one of Menus.
func (m Menu) Valid() bool {
	for _, known := range Menus {
		if m == known {
			return true
		}
	}
	return false
}

// ParseMenu accepts only the exact option names.
func ParseMenu(s string) (Menu, error) {
	m := Menu(s)
	if !m.Valid() {
		return "", errors.InvalidInput(fmt.Sprintf("unknown menu %q", s))
	}
	return m, nil
}

// SessionState is the per-browser navigation state. Sidebar visibility and
// the selected menu change independently.
type SessionState struct {
	SidebarVisible bool `json:"sidebar_visible"`
	Menu           Menu `json:"menu"`
}

// DefaultState is the state of a new session.
func DefaultState() SessionState {
	return SessionState{SidebarVisible: true, Menu: DefaultMenu}
}

// ToggleSidebar flips sidebar visibility. The menu is left alone.
func (s *SessionState) ToggleSidebar() {
	s.SidebarVisible = !s.SidebarVisible
}

// SelectFromSidebar applies a selector choice. The selector only exists while
// the sidebar is visible, so a choice arriving while it is hidden is ignored.
func (s *SessionState) SelectFromSidebar(m Menu) bool {
	if !s.SidebarVisible {
		return false
	}
	return s.Navigate(m)
}

// Navigate switches sub-view directly, regardless of sidebar visibility.
func (s *SessionState) Navigate(m Menu) bool {
	if !m.Valid() {
		return false
	}
	s.Menu = m
	return true
}

// Normalize resets an out-of-set menu to the default. It reports whether a
// reset happened.
func (s *SessionState) Normalize() bool {
	if s.Menu.Valid() {
		return false
	}
	s.Menu = DefaultMenu
	return true
}

// EncodeState serializes state for the session store.
func EncodeState(s SessionState) ([]byte, error) {
	return json.Marshal(s)
}

// DecodeState restores stored state. Unreadable bytes yield the default
// state; a missing sidebar flag means visible.
func DecodeState(data []byte) (SessionState, bool) {
	var raw struct {
		SidebarVisible *bool `json:"sidebar_visible"`
		Menu           Menu  `json:"menu"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return DefaultState(), false
	}
	state := DefaultState()
	if raw.SidebarVisible != nil {
		state.SidebarVisible = *raw.SidebarVisible
	}
	state.Menu = raw.Menu
	reset := state.Normalize()
	return state, !reset
}
