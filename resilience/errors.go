package resilience

import "errors"

// ErrBreakerOpen is returned when the breaker is open and the request was
// not attempted. Callers should treat it as an executor failure and fall
// back rather than retry immediately.
var ErrBreakerOpen = errors.New("resilience: breaker open")
