package native

import "fmt"

// CallError indicates that an engine call returned the sentinel failure
// code. Message is the engine's own diagnostic, captured at the moment of
// failure.
type CallError struct {
	Component string
	Message   string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s call failed: %s", e.Component, e.Message)
}

// Check validates the result code of an engine call. On the sentinel
// failure code it returns a *CallError naming the component and carrying
// the engine's last-error message; on any other code it returns nil.
//
// The last-error accessor is only queried on the failure path, keeping the
// success path free of extra boundary crossings.
func Check(eng Engine, code int, component string) error {
	if code == CodeError {
		return &CallError{Component: component, Message: eng.LastError()}
	}
	return nil
}
