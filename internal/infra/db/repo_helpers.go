package db

import "errors"

var errDBUnavailable = errors.New("database unavailable")
