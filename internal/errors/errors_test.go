package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/guildworks/combat-api/internal/errors"
)

func TestErrorMessage(t *testing.T) {
	err := errors.NotFound("combat session not found")
	assert.Equal(t, "NOT_FOUND: combat session not found", err.Error())

	wrapped := errors.Wrap(fmt.Errorf("connection refused"), "failed to load session")
	assert.Equal(t, "INTERNAL: failed to load session: connection refused", wrapped.Error())
}

func TestWrapPreservesCode(t *testing.T) {
	inner := errors.AlreadyExists("hero is already in combat")
	outer := errors.Wrap(inner, "failed to start combat")

	assert.True(t, errors.IsAlreadyExists(outer))
	assert.Equal(t, errors.CodeAlreadyExists, errors.GetCode(outer))
}

func TestWrapWithCode(t *testing.T) {
	inner := fmt.Errorf("redis: nil")
	err := errors.WrapWithCode(inner, errors.CodeNotFound, "quest not found")

	assert.True(t, errors.IsNotFound(err))
	assert.ErrorIs(t, err, inner)
}

func TestWithMeta(t *testing.T) {
	err := errors.FailedPrecondition("session is not in progress").
		WithMeta("session_id", "combat_1").
		WithMeta("status", "FLED")

	meta := errors.GetMeta(err)
	assert.Equal(t, "combat_1", meta["session_id"])
	assert.Equal(t, "FLED", meta["status"])
}

func TestPredicates(t *testing.T) {
	assert.True(t, errors.IsInvalidArgument(errors.InvalidArgument("bad")))
	assert.True(t, errors.IsPermissionDenied(errors.PermissionDenied("no")))
	assert.True(t, errors.IsResourceExhausted(errors.ResourceExhausted("out of dice")))
	assert.False(t, errors.IsNotFound(errors.Internal("boom")))
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
}

func TestValidationBuilder(t *testing.T) {
	vb := errors.NewValidationBuilder()
	assert.NoError(t, vb.Build())

	vb.RequiredField("quest_id")
	errors.ValidateRange("party_size", 4, 1, 3, vb)
	err := vb.Build()

	assert.Error(t, err)
	assert.True(t, errors.IsInvalidArgument(err))
	assert.Contains(t, err.Error(), "quest_id")
	assert.Contains(t, err.Error(), "party_size")
}

func TestToGRPCError(t *testing.T) {
	err := errors.ToGRPCError(errors.ResourceExhausted("no d10 dice remaining"))
	st, ok := status.FromError(err)
	assert.True(t, ok)
	assert.Equal(t, codes.ResourceExhausted, st.Code())
	assert.Equal(t, "no d10 dice remaining", st.Message())

	assert.NoError(t, errors.ToGRPCError(nil))
}

func TestFromGRPCError(t *testing.T) {
	grpcErr := status.Error(codes.FailedPrecondition, "session already completed")
	err := errors.FromGRPCError(grpcErr)
	assert.True(t, errors.IsFailedPrecondition(err))
	assert.Equal(t, "session already completed", errors.GetMessage(err))
}
