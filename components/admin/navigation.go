package admin

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrInvalidTransition is returned when an intent is not allowed from the current state.
var ErrInvalidTransition = errors.New("admin: invalid navigation transition")

// ViewState is the view currently shown for a feature area.
type ViewState string

const (
	StateListing     ViewState = "listing"
	StateCreating    ViewState = "creating"
	StateEditing     ViewState = "editing"
	StateConfiguring ViewState = "configuring"
)

// Intent is a user action that moves a Navigator between states.
type Intent string

const (
	IntentCreate    Intent = "create"
	IntentEdit      Intent = "edit"
	IntentSubmit    Intent = "submit"
	IntentCancel    Intent = "cancel"
	IntentConfigure Intent = "configure"
	IntentSave      Intent = "save"
)

// Area names a feature area with its own navigation state.
type Area string

const (
	AreaWidgets Area = "widgets"
	AreaModels  Area = "models"
	AreaUsers   Area = "users"
)

// NavState is a snapshot of a Navigator. RecordID is set while editing or configuring.
type NavState struct {
	View     ViewState `json:"view"`
	RecordID string    `json:"record_id,omitempty"`
	Tab      string    `json:"tab,omitempty"`
}

type transition struct {
	from   ViewState
	intent Intent
}

var transitions = map[transition]ViewState{
	{StateListing, IntentCreate}:     StateCreating,
	{StateListing, IntentEdit}:       StateEditing,
	{StateListing, IntentConfigure}:  StateConfiguring,
	{StateCreating, IntentSubmit}:    StateListing,
	{StateCreating, IntentCancel}:    StateListing,
	{StateEditing, IntentSubmit}:     StateListing,
	{StateEditing, IntentCancel}:     StateListing,
	{StateEditing, IntentConfigure}:  StateConfiguring,
	{StateConfiguring, IntentSave}:   StateListing,
	{StateConfiguring, IntentCancel}: StateListing,
}

// Navigator is the list/form/sub-resource state machine of one feature area.
// It has no terminal state.
type Navigator struct {
	mu    sync.Mutex
	area  Area
	tabs  []string
	state NavState
}

// NewNavigator starts in the listing state on the first tab, if any.
func NewNavigator(area Area, tabs ...string) *Navigator {
	n := &Navigator{area: area, tabs: append([]string(nil), tabs...)}
	n.state.View = StateListing
	if len(n.tabs) > 0 {
		n.state.Tab = n.tabs[0]
	}
	return n
}

// Area returns the feature area the navigator belongs to.
func (n *Navigator) Area() Area {
	return n.area
}

// State returns the current state.
func (n *Navigator) State() NavState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Dispatch applies intent. Edit and configure need the target record id; the
// configure intent from editing reuses the record being edited when id is empty.
func (n *Navigator) Dispatch(intent Intent, recordID string) (NavState, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	next, ok := transitions[transition{n.state.View, intent}]
	if !ok {
		return n.state, fmt.Errorf("admin: %s %s from %s: %w", n.area, intent, n.state.View, ErrInvalidTransition)
	}
	switch next {
	case StateEditing, StateConfiguring:
		if recordID == "" {
			recordID = n.state.RecordID
		}
		if recordID == "" {
			return n.state, fmt.Errorf("admin: %s %s requires a record id: %w", n.area, intent, ErrInvalidTransition)
		}
		if n.state.View == StateEditing && next == StateConfiguring && recordID != n.state.RecordID {
			return n.state, fmt.Errorf("admin: %s configure %q while editing %q: %w", n.area, recordID, n.state.RecordID, ErrInvalidTransition)
		}
	default:
		recordID = ""
	}
	n.state.View = next
	n.state.RecordID = recordID
	return n.state, nil
}

// SelectTab switches the visible tab. Only allowed while listing so staged
// form state is never left behind.
func (n *Navigator) SelectTab(tab string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.hasTab(tab) {
		return fmt.Errorf("admin: %s has no tab %q: %w", n.area, tab, ErrInvalidTransition)
	}
	if n.state.View != StateListing {
		return fmt.Errorf("admin: %s tab change while %s: %w", n.area, n.state.View, ErrInvalidTransition)
	}
	n.state.Tab = tab
	return nil
}

// Tabs lists the tabs of the area.
func (n *Navigator) Tabs() []string {
	return append([]string(nil), n.tabs...)
}

func (n *Navigator) hasTab(tab string) bool {
	for _, t := range n.tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// Navigation keeps one Navigator per feature area.
type Navigation struct {
	mu    sync.RWMutex
	areas map[Area]*Navigator
}

// NewNavigation registers the default feature areas.
func NewNavigation() *Navigation {
	nav := &Navigation{areas: map[Area]*Navigator{}}
	nav.Register(NewNavigator(AreaWidgets))
	nav.Register(NewNavigator(AreaModels))
	nav.Register(NewNavigator(AreaUsers, "users", "roles", "permissions"))
	return nav
}

// Register adds or replaces the navigator for its area.
func (n *Navigation) Register(nav *Navigator) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.areas[nav.Area()] = nav
}

// Navigator returns the navigator registered for area.
func (n *Navigation) Navigator(area Area) (*Navigator, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	nav, ok := n.areas[area]
	return nav, ok
}

// Areas lists the registered areas in name order.
func (n *Navigation) Areas() []Area {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]Area, 0, len(n.areas))
	for area := range n.areas {
		out = append(out, area)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
