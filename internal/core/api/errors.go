package api

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/solatis/formlogic/internal/core/db"
	"github.com/solatis/formlogic/internal/types"
)

// errJournal marks a failure of the purge journal store.
var errJournal = errors.New("purge journal unavailable")

// toStatus maps service errors onto gRPC status codes.
// Bad input maps to INVALID_ARGUMENT, an unknown purge id to NOT_FOUND and
// journal failures to UNAVAILABLE.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, errJournal):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, db.ErrEntryNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, types.ErrTooManyFields),
		errors.Is(err, types.ErrTooManyRuleNodes),
		errors.Is(err, types.ErrUnsupportedValue),
		errors.Is(err, types.ErrFieldNotFound),
		errors.Is(err, types.ErrInvalidPath):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
