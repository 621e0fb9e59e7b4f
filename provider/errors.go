package provider

import "errors"

// ErrOutOfRange indicates an access outside the memory a provider can reach.
var ErrOutOfRange = errors.New("address outside provider memory")
