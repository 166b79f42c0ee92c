package pinata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bridgeart/backend/config"
	"github.com/bridgeart/backend/pkg/api"
)

const defaultGateway = "https://gateway.pinata.cloud/ipfs/"

type Endpoint struct {
	Token   string
	Gateway string

	apiGenerator api.Generator
}

func New(cfg config.PinataConfigs) *Endpoint {
	return NewWithGenerator(cfg, api.NewGenerator("https://api.pinata.cloud"))
}

func NewWithGenerator(cfg config.PinataConfigs, generator api.Generator) *Endpoint {
	gateway := cfg.Gateway
	if gateway == "" {
		gateway = defaultGateway
	}

	return &Endpoint{
		Token:        cfg.Token,
		Gateway:      gateway,
		apiGenerator: generator,
	}
}

func (e *Endpoint) PinFile(ctx context.Context, name string, f io.Reader) (string, error) {
	resp, err := e.apiGenerator.New("/pinning/pinFileToIPFS").
		Body(api.FormData{
			Files: map[string]api.FormDataFile{
				"file": {
					Name:    name,
					Content: f,
				},
			},
		}).
		POST(ctx, api.Bearer(e.Token))
	if err != nil {
		return "", err
	}

	return ipfsHash(resp)
}

func (e *Endpoint) PinJSON(ctx context.Context, name string, content any) (string, error) {
	resp, err := e.apiGenerator.New("/pinning/pinJSONToIPFS").
		Body(api.JSON{
			"pinataMetadata": api.JSON{"name": name},
			"pinataContent":  content,
		}).
		POST(ctx, api.Bearer(e.Token))
	if err != nil {
		return "", err
	}

	return ipfsHash(resp)
}

// URI returns the ipfs:// form used as token URI.
func (e *Endpoint) URI(hash string) string {
	return "ipfs://" + hash
}

func (e *Endpoint) GatewayURL(hash string) string {
	return strings.TrimSuffix(e.Gateway, "/") + "/" + hash
}

func ipfsHash(resp *api.Response) (string, error) {
	if !resp.IsSuccess() {
		return "", fmt.Errorf("pinata returned status %d", resp.Code)
	}

	body, ok := resp.Body.(api.JSON)
	if !ok {
		return "", errors.New("fail to push ipfs")
	}

	ipfs, err := body.GetString("IpfsHash")
	if err != nil {
		return "", err
	}

	if ipfs == "" {
		return "", errors.New("empty ipfs hash")
	}

	return ipfs, nil
}
