package biddingerrors

import (
	"context"
	"errors"
	"fmt"
)

// Repository-level errors
var (
	ErrRequestNotFound  = errors.New("request not found")
	ErrRoundNotFound    = errors.New("bidding round not found")
	ErrNoActiveRound    = errors.New("no active bidding round")
	ErrNoBids           = errors.New("no bids found for round")
	ErrActiveRoundTaken = errors.New("organization already has an active round")
	ErrStorage          = errors.New("storage unavailable")
)

// business logic errors
var (
	ErrValidation        = errors.New("validation failed")
	ErrBidTooLow         = errors.New("bid amount too low")
	ErrRoundClosed       = errors.New("bidding round closed")
	ErrInvalidTransition = errors.New("invalid request status transition")
	ErrUnauthorized      = errors.New("unauthorized")
)

// Reason codes returned to API clients
const (
	CodeBidTooLow         = "BidTooLowError"
	CodeRoundClosed       = "RoundClosedError"
	CodeStorage           = "StorageError"
	CodeValidation        = "ValidationError"
	CodeNotFound          = "NotFound"
	CodeInvalidTransition = "InvalidTransition"
	CodeUnauthorized      = "Unauthorized"
	CodeInternal          = "InternalError"
)

// BidTooLowError carries the amounts a rejected bidder needs to re-bid
// without another round trip.
type BidTooLowError struct {
	WinningAmount int64
	MinimumAmount int64
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("%s - current winning bid is %d, minimum bid is %d",
		ErrBidTooLow.Error(), e.WinningAmount, e.MinimumAmount)
}

// Is lets errors.Is(err, ErrBidTooLow) match a *BidTooLowError
func (e *BidTooLowError) Is(target error) bool {
	return target == ErrBidTooLow
}

// Storage marks err as a persistence failure unless it already carries a
// domain meaning, so callers can tell the two apart.
func Storage(op string, err error) error {
	if err == nil || errors.Is(err, ErrStorage) || isDomain(err) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

func isDomain(err error) bool {
	for _, target := range []error{
		ErrRequestNotFound, ErrRoundNotFound, ErrNoActiveRound, ErrNoBids, ErrActiveRoundTaken,
		ErrValidation, ErrBidTooLow, ErrRoundClosed, ErrInvalidTransition, ErrUnauthorized,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Code maps an error to its machine-readable reason code
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBidTooLow):
		return CodeBidTooLow
	case errors.Is(err, ErrRoundClosed), errors.Is(err, ErrActiveRoundTaken):
		return CodeRoundClosed
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrRequestNotFound), errors.Is(err, ErrRoundNotFound), errors.Is(err, ErrNoActiveRound), errors.Is(err, ErrNoBids):
		return CodeNotFound
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrStorage):
		return CodeStorage
	default:
		return CodeInternal
	}
}

// FromCode maps a reason code back to its sentinel error
func FromCode(code string) error {
	switch code {
	case CodeBidTooLow:
		return ErrBidTooLow
	case CodeRoundClosed:
		return ErrRoundClosed
	case CodeValidation:
		return ErrValidation
	case CodeNotFound:
		return ErrRequestNotFound
	case CodeInvalidTransition:
		return ErrInvalidTransition
	case CodeUnauthorized:
		return ErrUnauthorized
	case CodeStorage:
		return ErrStorage
	default:
		return nil
	}
}
