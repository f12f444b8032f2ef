package snapshot

import "errors"

var ErrInvalidRange = errors.New("invalid snapshot range")
