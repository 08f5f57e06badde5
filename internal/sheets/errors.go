package sheets

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// ErrNoActiveSheet is returned when an operation is attempted before a
// spreadsheet has been selected. It never reaches the remote service.
var ErrNoActiveSheet = errors.New("no active spreadsheet")

// IsAuthError reports whether err is an authorization-class remote failure
// (HTTP 401/403). These are the only errors the executor retries.
func IsAuthError(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden
}
