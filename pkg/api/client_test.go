package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bridgeart/backend/pkg/api"
	"github.com/stretchr/testify/require"
)

func TestClient_POSTJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/images", r.URL.Path)
		require.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.Unmarshal(b, &body))
		require.Equal(t, "a cat", body["prompt"])

		w.Write([]byte(`{"data":[{"url":"https://img/1.png"}]}`))
	}))
	defer srv.Close()

	resp, err := api.NewGenerator(srv.URL).New("/v1/%s", "images").
		Body(api.JSON{"prompt": "a cat"}).
		POST(context.Background(), api.Bearer("key"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Code)

	var decoded struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	require.NoError(t, resp.Decode(&decoded))
	require.Equal(t, "https://img/1.png", decoded.Data[0].URL)

	data, err := resp.Body.(api.JSON).Get("data")
	require.NoError(t, err)
	require.Len(t, data, 1)
}

func TestClient_GETQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "a b", r.URL.Query().Get("q"))
		w.Write([]byte(`[1,2,3]`))
	}))
	defer srv.Close()

	resp, err := api.NewGenerator(srv.URL).New("/search").
		Query(api.Parameter{"q": "a b"}).
		GET(context.Background())
	require.NoError(t, err)

	arr, ok := resp.Body.(api.Array)
	require.True(t, ok)
	require.Len(t, arr, 3)
}

func TestClient_AllDomainsFail(t *testing.T) {
	_, err := api.NewGenerator("http://127.0.0.1:1").New("/x").GET(context.Background())
	require.Error(t, err)
}

func TestJSON_Get(t *testing.T) {
	j := api.JSON{"error": map[string]any{"message": "bad prompt"}, "n": float64(2)}

	msg, err := j.GetString("error.message")
	require.NoError(t, err)
	require.Equal(t, "bad prompt", msg)

	n, err := j.Get("n")
	require.NoError(t, err)
	require.Equal(t, float64(2), n)

	_, err = j.GetString("n")
	require.Error(t, err)

	_, err = j.GetString("missing")
	require.Error(t, err)
}

func TestParameter_Encode(t *testing.T) {
	p := api.Parameter{"q": "a b&c=d", "chain": "ethereum"}
	require.Equal(t, "chain=ethereum&q=a+b%26c%3Dd", p.Encode())

	r, contentType, err := p.ToReader()
	require.NoError(t, err)
	require.Equal(t, "application/x-www-form-urlencoded", contentType)

	b, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, p.Encode(), string(b))
}
