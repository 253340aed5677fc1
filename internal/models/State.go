package models

// User-visible messages, in the provider locale the lookup requests.
const (
	MessageCityRequired = "Por favor ingresa una ciudad."
	MessageCityNotFound = "Ciudad no encontrada. Intenta otra."
	MessageConnection   = "Error al obtener datos. Verifica tu conexión."
)

// FailureKind classifies why the last lookup produced an error message.
type FailureKind string

const (
	FailureNone       FailureKind = ""
	FailureValidation FailureKind = "validation"
	FailureNotFound   FailureKind = "not_found"
	FailureTransient  FailureKind = "transient"
)

// Message returns the fixed user-visible text for the kind.
func (k FailureKind) Message() string {
	switch k {
	case FailureValidation:
		return MessageCityRequired
	case FailureNotFound:
		return MessageCityNotFound
	case FailureTransient:
		return MessageConnection
	}
	return ""
}

// State is what a presentation surface binds to. Result and ErrorMessage are
// never both set once a lookup has completed; Busy is true only while the
// latest lookup is in flight.
type State struct {
	Query        string      `json:"query" example:"Madrid"`
	Result       *Weather    `json:"result,omitempty"`
	ErrorMessage string      `json:"error_message,omitempty" example:"Ciudad no encontrada. Intenta otra."`
	Busy         bool        `json:"busy"`
	Failure      FailureKind `json:"failure,omitempty" example:"not_found"`
}

// Clone returns a copy that shares nothing with s.
func (s State) Clone() State {
	if s.Result != nil {
		r := *s.Result
		s.Result = &r
	}
	return s
}

func (s State) HasResult() bool {
	return s.Result != nil
}

func (s State) HasError() bool {
	return s.ErrorMessage != ""
}
