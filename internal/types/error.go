package types

import "errors"

var ErrInvalidSignature = errors.New("invalid signature")
var ErrPayloadTooLarge = errors.New("payload too large")
var ErrRateLimited = errors.New("rate limit exceeded")
