package metrics

import (
	"errors"
	"fmt"
	"strings"
)

// MissingColumnError reports the required columns absent from a loaded
// table, detected before aggregation is attempted.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("metrics: missing required columns: %s", strings.Join(e.Columns, ", "))
}

// IsMissingColumn returns true if the error chain contains a *MissingColumnError.
func IsMissingColumn(err error) bool {
	var mc *MissingColumnError
	return errors.As(err, &mc)
}
