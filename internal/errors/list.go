package errors

import (
	stderrors "errors"
	"strings"
)

// List gathers every configuration error found while loading a grammar,
// so that all of them can be reported at once.
type List []*ConfigurationError

func (l List) Error() string {
	msgs := make([]string, len(l))
	for i, e := range l {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

func (l List) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// Err returns nil for an empty list and the list itself otherwise.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// HasErrors reports whether the list holds anything above warning level.
func (l List) HasErrors() bool {
	for _, e := range l {
		if e.Level == Error {
			return true
		}
	}
	return false
}

// Collect extracts the configuration errors wrapped in err.
func Collect(err error) List {
	if err == nil {
		return nil
	}
	var list List
	if stderrors.As(err, &list) {
		return list
	}
	var single *ConfigurationError
	if stderrors.As(err, &single) {
		return List{single}
	}
	return nil
}

// IsConfigurationError reports whether err carries at least one configuration error.
func IsConfigurationError(err error) bool {
	return len(Collect(err)) > 0
}
