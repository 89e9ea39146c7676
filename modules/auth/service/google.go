package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"campus-events/core/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProfile is the subset of the Google userinfo payload the sign-in
// flow consumes.
type GoogleProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleExchanger swaps an OAuth authorization code for the user's Google
// profile.
type GoogleExchanger interface {
	Exchange(ctx context.Context, code string) (*GoogleProfile, error)
}

// googleOAuth implements GoogleExchanger against the real Google endpoints.
type googleOAuth struct {
	conf *oauth2.Config
}

func NewGoogleExchanger(cfg config.GoogleAPIConfig) GoogleExchanger {
	return &googleOAuth{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (g *googleOAuth) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	resp, err := g.conf.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode google userinfo: %w", err)
	}
	if profile.ID == "" || profile.Email == "" {
		return nil, fmt.Errorf("google userinfo missing id or email")
	}
	return &profile, nil
}
