package xerrors

import (
	"errors"
	"fmt"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	ErrCodeSuccess uint32 = abcitypes.CodeTypeOK + iota
	ErrCodeOrdinary
	ErrCodeLedger
	ErrCodeCommit
	ErrCodeInvalidAddress
	ErrCodeInvalidRewardAmount
	ErrCodeInvalidRewardInterval
	ErrCodeInvalidPeriodStart
	ErrCodeInvalidStakeAmount
	ErrCodeNoActiveStake
	ErrCodeInsufficientAllowance
	ErrCodeInsufficientBalance
	ErrCodeUnauthorized
	ErrCodeNotFoundPeriod
	ErrCodeNotFoundStake
	ErrCodeNotFoundToken
	ErrCodeReentrant
)

const (
	ErrCodeQuery uint32 = 1000 + iota
	ErrCodeInvalidQueryPath
	ErrCodeInvalidQueryParams
	ErrCodeNotFoundResult
	ErrLast
)

var (
	ErrOverFlow = New(ErrCodeOrdinary, "overflow")
	ErrLedger   = New(ErrCodeLedger, "ledger failed")
	ErrCommit   = New(ErrCodeCommit, "Commit failed")
	ErrQuery    = New(ErrCodeQuery, "query failed")

	ErrInvalidAddress        = New(ErrCodeInvalidAddress, "invalid address")
	ErrInvalidRewardAmount   = New(ErrCodeInvalidRewardAmount, "invalid reward amount")
	ErrInvalidRewardInterval = New(ErrCodeInvalidRewardInterval, "invalid reward interval")
	ErrInvalidPeriodStart    = New(ErrCodeInvalidPeriodStart, "invalid period start")
	ErrInvalidStakeAmount    = New(ErrCodeInvalidStakeAmount, "invalid stake amount")
	ErrNoActiveStake         = New(ErrCodeNoActiveStake, "no active stake")
	ErrInsufficientAllowance = New(ErrCodeInsufficientAllowance, "insufficient allowance")
	ErrInsufficientBalance   = New(ErrCodeInsufficientBalance, "insufficient balance")
	ErrUnauthorized          = New(ErrCodeUnauthorized, "unauthorized")
	ErrNotFoundPeriod        = New(ErrCodeNotFoundPeriod, "not found reward period")
	ErrNotFoundStake         = New(ErrCodeNotFoundStake, "not found stake")
	ErrNotFoundToken         = New(ErrCodeNotFoundToken, "not found token")
	ErrReentrant             = New(ErrCodeReentrant, "reentrant call")

	ErrInvalidQueryPath   = New(ErrCodeInvalidQueryPath, "invalid query path")
	ErrInvalidQueryParams = New(ErrCodeInvalidQueryParams, "invalid query parameters")

	ErrNotFoundResult = New(ErrCodeNotFoundResult, "not found result")
)

type XError interface {
	Code() uint32
	Cause() error
	Error() string
	Msg() string
	Wrap(error) XError
	Wrapf(string, ...any) XError
	Contains(XError) bool
	Equal(XError) bool
	Is(error) bool
	Unwrap() error
}

type xerror struct {
	code  uint32
	msg   string
	cause error
}

func New(code uint32, msg string) XError {
	return &xerror{
		code: code,
		msg:  msg,
	}
}

func NewOrdinary(msg string) XError {
	return &xerror{
		code: ErrCodeOrdinary,
		msg:  msg,
	}
}

func From(err error) XError {
	if err == nil {
		return nil
	}
	var xerr XError
	if errors.As(err, &xerr) {
		return xerr
	}
	return NewOrdinary(err.Error())
}

func Wrap(err error, msg string) XError {
	return &xerror{
		code:  ErrCodeOrdinary,
		msg:   msg,
		cause: err,
	}
}

func (xerr *xerror) Code() uint32 {
	return xerr.code
}

func (xerr *xerror) Error() string {
	msg := xerr.msg

	if xerr.cause != nil {
		msg += "\n\t" + xerr.cause.Error()
	}

	return msg
}

func (xerr *xerror) Msg() string {
	return xerr.msg
}

func (xerr *xerror) Cause() error {
	return xerr.cause
}

func (xerr *xerror) Unwrap() error {
	return xerr.cause
}

func (xerr *xerror) Wrap(err error) XError {
	if xerr.cause != nil {
		if cerr, ok := xerr.cause.(*xerror); ok {
			return &xerror{
				code:  xerr.code,
				msg:   xerr.msg,
				cause: cerr.Wrap(err),
			}
		}
	}
	return &xerror{
		code:  xerr.code,
		msg:   xerr.msg,
		cause: err,
	}
}

func (xerr *xerror) Wrapf(format string, args ...any) XError {
	return xerr.Wrap(New(ErrCodeOrdinary, fmt.Sprintf(format, args...)))
}

func (xerr *xerror) Contains(other XError) bool {
	if xerr.code == other.Code() && xerr.msg == other.Msg() {
		return true
	} else if xerr.cause != nil {
		if _xerr, ok := xerr.cause.(*xerror); ok {
			return _xerr.Contains(other)
		} else {
			return errors.Is(xerr.cause, other)
		}
	}
	return false
}

func (xerr *xerror) Equal(other XError) bool {
	return xerr.code == other.Code()
}

// Is reports whether target is an XError with the same code and message.
// errors.Is walks the cause chain through Unwrap.
func (xerr *xerror) Is(target error) bool {
	other, ok := target.(*xerror)
	if !ok {
		return false
	}
	return xerr.code == other.code && xerr.msg == other.msg
}
