// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package shell tracks which dashboard view is mounted.
package shell

import (
	"sync"

	"github.com/pdiddy/nexus/pkg/types"
)

// Resetter is a surface whose state is discarded when the shell leaves it.
type Resetter interface {
	Reset()
}

// NavItem is one sidebar entry.
type NavItem struct {
	View   types.ViewState `json:"view"`
	Label  string          `json:"label"`
	Active bool            `json:"active"`
}

// Surface describes the mounted view.
type Surface struct {
	View  types.ViewState `json:"view"`
	Title string          `json:"title"`
}

var labels = map[types.ViewState]string{
	types.ViewDashboard:  "Overview",
	types.ViewSearch:     "Paper Discovery",
	types.ViewSimulation: "Outcome Simulator",
	types.ViewSaved:      "Saved Research",
}

// Shell holds the current view. It starts on the dashboard.
type Shell struct {
	mu       sync.Mutex
	current  types.ViewState
	surfaces map[types.ViewState]Resetter
}

// New returns a shell on the dashboard. surfaces maps views to the state
// that must be reset when the user navigates away from them.
func New(surfaces map[types.ViewState]Resetter) *Shell {
	owned := make(map[types.ViewState]Resetter, len(surfaces))
	for v, r := range surfaces {
		if r != nil {
			owned[v] = r
		}
	}
	return &Shell{current: types.ViewDashboard, surfaces: owned}
}

// Navigate switches to v. Unknown views fall back to the dashboard.
// Leaving a surface resets it; navigating to the current view does not.
func (s *Shell) Navigate(v types.ViewState) types.ViewState {
	if !v.Valid() {
		v = types.ViewDashboard
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if v == s.current {
		return v
	}
	if r, ok := s.surfaces[s.current]; ok {
		r.Reset()
	}
	s.current = v
	return v
}

// Current returns the selected view.
func (s *Shell) Current() types.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Active describes the mounted view.
func (s *Shell) Active() Surface {
	v := s.Current()
	return Surface{View: v, Title: labels[v]}
}

// NavItems lists the sidebar in display order with the current view marked.
func (s *Shell) NavItems() []NavItem {
	current := s.Current()
	views := types.ViewStates()
	items := make([]NavItem, 0, len(views))
	for _, v := range views {
		items = append(items, NavItem{View: v, Label: labels[v], Active: v == current})
	}
	return items
}

// State is the snapshot served to clients.
type State struct {
	Current types.ViewState `json:"current"`
	Nav     []NavItem       `json:"nav"`
}

// State returns the current view and sidebar.
func (s *Shell) State() State {
	return State{Current: s.Current(), Nav: s.NavItems()}
}
