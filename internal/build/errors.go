package build

import (
	"errors"
	"fmt"
)

// NotFoundError reports a deployment-number filter that matched zero records,
// or more than one. An ambiguous filter is a caller error and says so.
type NotFoundError struct {
	DeploymentNumber string
	Matches          int
}

func (e *NotFoundError) Error() string {
	if e.Matches == 0 {
		return fmt.Sprintf("deployment %q: no matching deployment record", e.DeploymentNumber)
	}
	return fmt.Sprintf("deployment %q: ambiguous filter matched %d deployment records", e.DeploymentNumber, e.Matches)
}

// IntegrityError reports a parent chain that exceeded the ancestry depth
// bound, which indicates a parent cycle or anomalous data on the server.
type IntegrityError struct {
	URL   string
	Depth int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("part %s: ancestor chain exceeds %d levels (parent cycle on the server?)", e.URL, e.Depth)
}

// IsNotFound reports whether err is a zero-or-ambiguous deployment lookup.
func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}

// IsIntegrity reports whether err is an ancestry depth-bound violation.
func IsIntegrity(err error) bool {
	var iErr *IntegrityError
	return errors.As(err, &iErr)
}
