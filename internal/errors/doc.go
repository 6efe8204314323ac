// Package errors provides structured error handling for combat-api.
//
// Errors carry a Code, a user-facing message, optional metadata, and an
// optional wrapped cause. Codes follow the gRPC taxonomy so handlers can
// translate with ToGRPCError without re-deriving semantics per call site.
//
// Creating errors:
//
//	err := errors.NotFound("combat session not found")
//	err := errors.InvalidArgumentf("party size must be 1-3, got %d", n)
//
// Adding metadata:
//
//	err := errors.FailedPrecondition("session is not in progress").
//	    WithMeta("session_id", sessionID).
//	    WithMeta("status", session.Status)
//
// Wrapping:
//
//	if err := repo.Get(ctx, id); err != nil {
//	    return errors.Wrap(err, "failed to load combat session")
//	}
//
// Checking:
//
//	if errors.IsAlreadyExists(err) {
//	    // hero is already fighting
//	}
//
// Layer guidelines: repositories return NotFound/AlreadyExists with IDs in
// metadata; orchestrators return InvalidArgument for bad input,
// PermissionDenied for ownership failures, FailedPrecondition for state
// conflicts, and ResourceExhausted when the dice inventory runs dry.
package errors
