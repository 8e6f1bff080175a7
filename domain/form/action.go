package form

// Action is a single change applied to a form's state.
// The set of actions is closed; only types in this package implement it.
type Action interface {
	actionName() string
}

// EditField replaces the text value of a field.
type EditField struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// SetFlag sets a boolean field.
type SetFlag struct {
	Field string `json:"field"`
	On    bool   `json:"on"`
}

// SelectOptions replaces the ordered selection of a multi-select field.
type SelectOptions struct {
	Field  string   `json:"field"`
	Values []string `json:"values"`
}

// Submit starts validation.
type Submit struct{}

// Reject ends validation with a local validation message.
type Reject struct {
	Message string `json:"message"`
}

// Accept ends validation successfully and marks the form busy.
type Accept struct{}

// Succeed records a successful remote call.
type Succeed struct{}

// Fail records a failed remote call.
type Fail struct {
	Message string `json:"message"`
}

func (EditField) actionName() string     { return "edit-field" }
func (SetFlag) actionName() string       { return "set-flag" }
func (SelectOptions) actionName() string { return "select-options" }
func (Submit) actionName() string        { return "submit" }
func (Reject) actionName() string        { return "reject" }
func (Accept) actionName() string        { return "accept" }
func (Succeed) actionName() string       { return "succeed" }
func (Fail) actionName() string          { return "fail" }

// IsFieldAction reports whether a changes user input rather than the lifecycle.
func IsFieldAction(a Action) bool {
	switch a.(type) {
	case EditField, SetFlag, SelectOptions:
		return true
	default:
		return false
	}
}
