package project

import "errors"

// ErrNodeNotFound is returned when a unique id is not part of the project.
var ErrNodeNotFound = errors.New("node not found")
