package domain

import (
	"errors"

	"github.com/alanyoungcy/cpmmquote/internal/cpmm"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrMarketResolved = errors.New("market is resolved")
	ErrInvalidAmount  = errors.New("amount must be a positive finite number")
	ErrInvalidAction  = errors.New("unknown quote action")
	ErrInvalidPools   = cpmm.ErrInvalidPools
)
