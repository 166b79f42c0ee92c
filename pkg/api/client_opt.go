package api

import (
	"net/http"
)

type authorizationOpt struct {
	value string
}

// Bearer sets the Authorization header of the request to a bearer token.
func Bearer(token string) *authorizationOpt {
	return &authorizationOpt{value: "Bearer " + token}
}

func (opt *authorizationOpt) Do(_ defaultClient, req *http.Request) {
	req.Header.Set("Authorization", opt.value)
}
