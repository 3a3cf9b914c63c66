package sharerepo

import "errors"

var ErrNotFound = errors.New("share not found")
