package operator

// AutoConfirm wraps a Port so that PromptYesNo always answers true,
// announcing the auto-confirmation instead of asking (spec.md §6:
// "Auto-confirm short-circuits prompt_yes_no to always return TRUE with
// an announcing emit").
type AutoConfirm struct {
	Port
}

// NewAutoConfirm wraps inner with the --yes short-circuit.
func NewAutoConfirm(inner Port) *AutoConfirm {
	return &AutoConfirm{Port: inner}
}

func (a *AutoConfirm) PromptYesNo(question string, _ bool) bool {
	a.Emit(question + " (auto-confirmed: yes)")
	return true
}
