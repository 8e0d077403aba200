package errors

import "fmt"

var (
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrOnlyCensoredFiles = fmt.Errorf("censored directory contains directories")
	ErrEmptyWords        = fmt.Errorf("no words have been found")
	ErrUnknownStatus     = fmt.Errorf("unknown status")
	ErrNoDestination     = fmt.Errorf("a message needs a channel or a user as destination")
	ErrContentTooLarge   = fmt.Errorf("message contents exceed the maximum length")
)
