package logic

import "fmt"

// InputError rejects a submission the user can correct and resubmit
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Message is the corrective text shown to the user
func (e *InputError) Message() string {
	return fmt.Sprintf("Invalid %s: %s", e.Field, e.Reason)
}

// InferenceError means the model could not produce a usable answer
type InferenceError struct {
	Perspective string
	Err         error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference (%s first): %v", e.Perspective, e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// UnavailableMessage is shown to the user for any InferenceError
const UnavailableMessage = "Prediction unavailable, try again."
