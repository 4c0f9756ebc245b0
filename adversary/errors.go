package adversary

import "errors"

// ErrNegativeBudget is returned by New when budget < 0.
var ErrNegativeBudget = errors.New("adversary: budget must be >= 0")
