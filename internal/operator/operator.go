// Package operator is the operator I/O port from spec.md §6: prompt,
// read-line and emit-line, the only way the interactive controller talks
// to a human.
package operator

// Port is the abstract operator interface. EOF from ReadLine is
// equivalent to the operator typing "done" (spec.md §4.G).
type Port interface {
	// Prompt writes a prompt line without a trailing newline expectation
	// from the operator; the next ReadLine call supplies the response.
	Prompt(line string)
	// PromptYesNo asks a yes/no question with the given default and
	// returns the operator's answer.
	PromptYesNo(question string, def bool) bool
	// ReadLine blocks for one line of operator input. ok is false on EOF.
	ReadLine() (line string, ok bool)
	// Emit writes an informational line.
	Emit(line string)
	// EmitError writes an error line.
	EmitError(line string)
}
