package authenticator_test

import (
	"testing"
	"time"

	"github.com/bridgeart/backend/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

type accessToken struct {
	ID      string `json:"id"`
	Address string `json:"address"`
}

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine("secret")
	token, err := engine.Generate(time.Minute, accessToken{ID: "user1", Address: "0xabc"})
	require.NoError(t, err)

	var got accessToken
	require.NoError(t, engine.Verify(token, &got))
	require.Equal(t, accessToken{ID: "user1", Address: "0xabc"}, got)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine("secret")
	token, err := engine.Generate(time.Nanosecond, accessToken{ID: "user1"})
	require.NoError(t, err)

	time.Sleep(time.Millisecond)

	var got accessToken
	require.Error(t, engine.Verify(token, &got))
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := authenticator.NewTokenEngine("secret").Generate(time.Minute, accessToken{ID: "user1"})
	require.NoError(t, err)

	var got accessToken
	require.Error(t, authenticator.NewTokenEngine("other").Verify(token, &got))
}
