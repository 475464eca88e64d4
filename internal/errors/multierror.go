package errors

import "strings"

type MultiError struct {
	Name   string
	Errors []error
}

func NewMultiError(name string) *MultiError {
	return &MultiError{Name: name}
}

func (m *MultiError) Append(err error) {
	if err == nil {
		return
	}
	var me *MultiError
	if As(err, &me) {
		m.Errors = append(m.Errors, me.Errors...)
		return
	}
	m.Errors = append(m.Errors, err)
}

func (m *MultiError) Error() string {
	var sb strings.Builder
	sb.WriteString(m.Name + ":")
	for _, err := range m.Errors {
		sb.WriteString("\n " + err.Error())
	}
	return sb.String()
}

// ToErr returns nil when no error has been collected, so the result can
// be returned directly from functions with an error return.
func (m *MultiError) ToErr() error {
	if m == nil || len(m.Errors) == 0 {
		return nil
	}
	return m
}
