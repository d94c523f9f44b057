// Package errors provides the structured error type used by disksnap to classify
// failures and map them to process exit codes.
//
// Every failure surfaced by a command carries one of the ErrorCode values:
// argument validation problems are ErrCodeInvalidRequest, a credential chain with
// no working source is ErrCodeUnauthorized, a missing source disk is
// ErrCodeNotFound, and provider request failures keep the code derived from the
// HTTP status of the management API response.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeNotFound,
//	    "managed disk not found",
//	    respErr,
//	    map[string]any{
//	        "diskID": diskID,
//	    },
//	)
//	os.Exit(errors.ExitCode(err))
package errors
