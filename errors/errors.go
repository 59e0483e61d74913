package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrStorage     = fmt.Errorf("storage failure")
	ErrCompletion  = fmt.Errorf("completion failure")
	ErrEmptyWords  = fmt.Errorf("no words have been found")
)
