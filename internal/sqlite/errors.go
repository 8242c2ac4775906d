package sqlite

import "errors"

var errNoDocument = errors.New("document does not exist")
