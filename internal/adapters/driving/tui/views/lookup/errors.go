package lookup

import "errors"

// ErrNoLookupService indicates that no lookup service was provided.
var ErrNoLookupService = errors.New("lookup service is required")
