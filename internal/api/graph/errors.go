package graph

import (
	"errors"

	"staffdir/internal/common"
)

// resolverError carries a client-facing message plus structured extensions
// (code, field violations). graphql-go picks the extensions up through the
// ExtendedError interface when formatting the response.
type resolverError struct {
	message    string
	extensions map[string]interface{}
}

func (e *resolverError) Error() string { return e.message }

func (e *resolverError) Extensions() map[string]interface{} { return e.extensions }

// wrapErr maps a domain error onto the API error taxonomy. Unexpected errors
// keep their message but surface as internal.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}

	extensions := map[string]interface{}{
		"code": common.CodeFromError(err),
	}

	var validationErr *common.ValidationError
	if errors.As(err, &validationErr) {
		extensions["violations"] = validationErr.Violations
	}

	return &resolverError{message: err.Error(), extensions: extensions}
}
