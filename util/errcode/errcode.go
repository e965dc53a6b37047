// Package errcode carries machine-readable error codes from services to
// controllers without tying either side to the other's error values.
package errcode

import "errors"

type Code string

type codedError struct {
	code Code
	msg  string
}

func (e codedError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return string(e.code)
}

func (e codedError) Code() Code { return e.code }

// New returns an error carrying c.
func New(c Code) error { return codedError{code: c} }

// Newf returns an error carrying c with a human readable message.
func Newf(c Code, msg string) error { return codedError{code: c, msg: msg} }

// Of extracts the code from err, looking through wrapping. Errors without a
// code yield "".
func Of(err error) Code {
	var ce interface{ Code() Code }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}
