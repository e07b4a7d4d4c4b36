package service

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrForbidden       = errors.New("not allowed")
	ErrNotBookable     = errors.New("ticket is not open for booking")
	ErrDeparturePassed = errors.New("departure time has passed")
	ErrSoldOut         = errors.New("not enough seats left")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrLockBusy        = errors.New("ticket is busy, try again")
	ErrNotPayable      = errors.New("booking is not payable")
	ErrNotEditable     = errors.New("rejected listings cannot be edited")
	ErrAlreadyDecided  = errors.New("booking already decided")
)
