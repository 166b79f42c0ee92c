package pinata

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/bridgeart/backend/config"
	"github.com/bridgeart/backend/pkg/api"
	"github.com/stretchr/testify/require"
)

func TestPinJSON(t *testing.T) {
	generator := &api.MockGenerator{
		Client: api.MockClient{
			Response: &api.Response{Code: 200, Body: api.JSON{"IpfsHash": "QmHash"}},
		},
	}

	e := NewWithGenerator(config.PinataConfigs{Token: "token"}, generator)
	hash, err := e.PinJSON(context.Background(), "metadata.json", api.JSON{"name": "BridgeArt NFT"})
	require.NoError(t, err)
	require.Equal(t, "QmHash", hash)
	require.Equal(t, "ipfs://QmHash", e.URI(hash))
	require.Equal(t, "https://gateway.pinata.cloud/ipfs/QmHash", e.GatewayURL(hash))

	require.Equal(t, "/pinning/pinJSONToIPFS", generator.Path)
	require.Equal(t, http.MethodPost, generator.Client.Method)

	body, ok := generator.Client.BodyArgs.(api.JSON)
	require.True(t, ok)
	require.Equal(t, api.JSON{"name": "BridgeArt NFT"}, body["pinataContent"])
	require.Equal(t, api.JSON{"name": "metadata.json"}, body["pinataMetadata"])
}

func TestPinFile(t *testing.T) {
	tests := []struct {
		name    string
		client  api.MockClient
		wantErr bool
	}{
		{
			name:   "ok",
			client: api.MockClient{Response: &api.Response{Code: 200, Body: api.JSON{"IpfsHash": "QmFile"}}},
		},
		{
			name:    "bad status",
			client:  api.MockClient{Response: &api.Response{Code: 401, Body: api.JSON{"error": "unauthorized"}}},
			wantErr: true,
		},
		{
			name:    "transport error",
			client:  api.MockClient{Err: errors.New("connection refused")},
			wantErr: true,
		},
		{
			name:    "missing hash",
			client:  api.MockClient{Response: &api.Response{Code: 200, Body: api.JSON{}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := &api.MockGenerator{Client: tt.client}
			e := NewWithGenerator(config.PinataConfigs{Token: "token", Gateway: "https://ipfs.test/ipfs"}, generator)

			hash, err := e.PinFile(context.Background(), "a.png", strings.NewReader("data"))
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, "QmFile", hash)
			require.Equal(t, "https://ipfs.test/ipfs/QmFile", e.GatewayURL(hash))
			require.Equal(t, "/pinning/pinFileToIPFS", generator.Path)

			form, ok := generator.Client.BodyArgs.(api.FormData)
			require.True(t, ok)
			require.Equal(t, "a.png", form.Files["file"].Name)
		})
	}
}
