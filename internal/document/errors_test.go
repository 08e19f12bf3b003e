package document

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActionError_StatusAndDescription(t *testing.T) {
	cases := []struct {
		err    *ActionError
		status int
		desc   string
	}{
		{NewActionError(CodeBadRequest, "Document name is required"), http.StatusBadRequest, "Document name is required"},
		{WrapActionError(CodeNotFound, errors.New("404")), http.StatusBadRequest, "Destination folder not found"},
		{WrapActionError(CodeCannotMoveToDestination, nil), http.StatusBadRequest, "Cannot move document to destination folder"},
		{WrapActionError(CodeTryAgainLater, nil), http.StatusServiceUnavailable, "Try again later"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.status, tc.err.Status(), tc.err.Code)
		require.Equal(t, tc.desc, tc.err.Description())
	}
}

func TestAsActionError(t *testing.T) {
	inner := WrapActionError(CodeCannotCreateDocument, errors.New("quota"))
	wrapped := fmt.Errorf("step 3: %w", inner)

	ae := AsActionError(wrapped)
	require.Same(t, inner, ae)
	require.ErrorContains(t, ae, "quota")

	ae = AsActionError(context.Canceled)
	require.Equal(t, CodeTryAgainLater, ae.Code)
	require.ErrorIs(t, ae, context.Canceled)

	// a cancelled Drive call is not a missing folder
	ae = AsActionError(WrapActionError(CodeNotFound, fmt.Errorf("get folder: %w", context.DeadlineExceeded)))
	require.Equal(t, CodeTryAgainLater, ae.Code)
	require.Equal(t, "Request cancelled", ae.Description())
	require.Equal(t, http.StatusServiceUnavailable, ae.Status())

	ae = AsActionError(errors.New("boom"))
	require.Equal(t, CodeTryAgainLater, ae.Code)
	require.Equal(t, http.StatusServiceUnavailable, ae.Status())
}
