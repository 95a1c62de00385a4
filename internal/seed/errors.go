package seed

import "errors"

// Error constants.
var (
	ErrUnhealthy = errors.New("service health check failed")
	ErrStatus    = errors.New("unexpected response status")
	ErrEmpty     = errors.New("board layout has no slots")
	ErrVerify    = errors.New("ranking verification failed")
)
