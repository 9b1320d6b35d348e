package transport

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// IsCanceled reports whether err is a transport cancellation. Cancellation
// is recovered locally only by the hierarchy comparator; everywhere else it
// surfaces as an ordinary error.
func IsCanceled(err error) bool {
	if err == nil {
		return false
	}
	return status.Code(err) == codes.Canceled
}

// Canceledf builds a cancellation status error.
func Canceledf(format string, args ...any) error {
	return status.Errorf(codes.Canceled, format, args...)
}
