package services

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var ErrForbidden = errors.New("only the host can change this room")

// NonFieldErrors is the FormErrors key for messages that belong to the form
// as a whole.
const NonFieldErrors = "__all__"

// FormErrors maps a form field to its validation messages.
type FormErrors map[string][]string

func (e FormErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FormErrors) AddNonField(message string) {
	e.Add(NonFieldErrors, message)
}

func (e FormErrors) Empty() bool {
	return len(e) == 0
}

// Err returns e as an error, or nil when there are no messages.
func (e FormErrors) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e FormErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e[f], "; "))
	}
	return "invalid form: " + strings.Join(parts, ", ")
}

// AsFormErrors unwraps err into FormErrors when it is one.
func AsFormErrors(err error) (FormErrors, bool) {
	var fe FormErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
