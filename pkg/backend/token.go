package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

type Credentials struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// TokenClient exchanges client credentials for a bearer token. Tokens are not
// cached: every call to Token performs a fresh grant.
type TokenClient struct {
	cfg        clientcredentials.Config
	httpClient *http.Client
	timeout    time.Duration
}

func NewTokenClient(creds Credentials, httpClient *http.Client, timeout time.Duration) *TokenClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TokenClient{
		cfg: clientcredentials.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			TokenURL:     creds.TokenURL,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: httpClient,
		timeout:    timeout,
	}
}

// Token posts grant_type=client_credentials with client_id and client_secret
// as a URL-encoded form and returns the access_token of the JSON response.
func (c *TokenClient) Token(ctx context.Context) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := c.cfg.Token(ctx)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return "", fmt.Errorf("token endpoint returned %d: %w", re.Response.StatusCode, err)
		}
		return "", fmt.Errorf("token request: %w", err)
	}
	return tok.AccessToken, nil
}
