package depend

import "errors"

// ErrInvalidDependsOn is returned when a dependency identifier of an
// unrecognized kind is supplied.
var ErrInvalidDependsOn = errors.New("depend: invalid depends-on identifier")

func IsInvalidDependsOn(err error) bool { return errors.Is(err, ErrInvalidDependsOn) }
