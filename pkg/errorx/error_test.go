package errorx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(BadRequest, "Not found chain %s", "ethereum")
	require.Equal(t, "Not found chain ethereum", err.Error())
	require.Equal(t, http.StatusBadRequest, err.HTTPStatus())
}

func TestWrapped(t *testing.T) {
	wrapped := fmt.Errorf("mint: %w", New(MintFailed, "Error minting NFT"))

	var errx Error
	require.True(t, errors.As(wrapped, &errx))
	require.Equal(t, MintFailed, errx.Code)
	require.Equal(t, http.StatusInternalServerError, errx.HTTPStatus())
	require.Equal(t, http.StatusInternalServerError, Unknown.HTTPStatus())
}
