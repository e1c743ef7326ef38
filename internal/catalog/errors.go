package catalog

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

var (
	ErrCatalogUnavailable = errors.New("exercise catalog unavailable")
	ErrInvalidCatalog     = errors.New("invalid catalog document")
)

// UnavailableError is returned when no candidate source could provide the catalog.
// Errs combines the failure of every source tried, in order.
type UnavailableError struct {
	Tried []string
	Errs  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s, tried [%s]: %s", ErrCatalogUnavailable, strings.Join(e.Tried, ", "), e.Errs)
}

func (e *UnavailableError) Unwrap() []error {
	return append([]error{ErrCatalogUnavailable}, multierr.Errors(e.Errs)...)
}
