package cfg

import "strings"

// ActionCode identifies the operation a bind performs.
type ActionCode int

const (
	ActionNone ActionCode = iota
	ActionReloadConfig
	ActionQuit
	ActionRun
	ActionCloseWindow
	ActionMinimizeWindow
	ActionNextWindow
	ActionPreviousWindow
	ActionToggleFullscreen
	ActionMoveWindow
	ActionResizeBy
	ActionShowWindowList
)

// ParamKind is the shape of an action's parameter.
type ParamKind int

const (
	ParamNone ParamKind = iota
	ParamQuad
	ParamString
)

// Mapping of action names -> action codes
var actionNames = map[string]ActionCode{
	"reload":            ActionReloadConfig,
	"quit":              ActionQuit,
	"run":               ActionRun,
	"close_window":      ActionCloseWindow,
	"minimize_window":   ActionMinimizeWindow,
	"next_window":       ActionNextWindow,
	"previous_window":   ActionPreviousWindow,
	"toggle_fullscreen": ActionToggleFullscreen,
	"move_window":       ActionMoveWindow,
	"resize_by":         ActionResizeBy,
	"show_window_list":  ActionShowWindowList,
}

// Mapping of action codes -> parameter kinds. Codes that are absent take no
// parameter. The association is fixed: it never varies per action instance.
var paramKinds = map[ActionCode]ParamKind{
	ActionRun:      ParamString,
	ActionResizeBy: ParamQuad,
}

// Param is the parameter of an action. Which fields are meaningful is
// dictated solely by the action code, via ParamKindOf.
type Param struct {
	Quad [4]int
	Str  string
}

// Action is a single bound operation together with its typed parameter.
type Action struct {
	Code  ActionCode
	Param Param
}

// ParamKindOf returns the parameter kind for the given action code.
func ParamKindOf(code ActionCode) ParamKind {
	return paramKinds[code]
}

// Clone returns a deep copy of the action. The copy is dispatched on the
// parameter kind so that fields not belonging to the kind never leak into
// the duplicate.
func (a Action) Clone() Action {
	dup := Action{Code: a.Code}
	switch ParamKindOf(a.Code) {
	case ParamQuad:
		dup.Param.Quad = a.Param.Quad
	case ParamString:
		dup.Param.Str = strings.Clone(a.Param.Str)
	}
	return dup
}

// cloneActions deep-copies a sequence of actions.
func cloneActions(actions []Action) []Action {
	dup := make([]Action, len(actions))
	for i, action := range actions {
		dup[i] = action.Clone()
	}
	return dup
}

// String implements Stringer.
func (c ActionCode) String() string {
	for name, code := range actionNames {
		if code == c {
			return name
		}
	}
	return "none"
}
