package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/abelbrown/byteme/internal/model"
)

type followedChannelsResponse struct {
	ChannelIDs []string `json:"channel_ids"`
	Channels   []struct {
		ChannelID string `json:"channel_id"`
	} `json:"channels"`
}

// FollowedChannels returns the ids of every channel the user follows.
func (c *Client) FollowedChannels(ctx context.Context) ([]string, error) {
	var resp followedChannelsResponse
	if err := c.do(ctx, http.MethodGet, "/user/followed-channels", true, nil, &resp); err != nil {
		return nil, err
	}
	ids := append([]string(nil), resp.ChannelIDs...)
	for _, ch := range resp.Channels {
		if ch.ChannelID != "" {
			ids = append(ids, ch.ChannelID)
		}
	}
	return ids, nil
}

type followRequest struct {
	ChannelID string `json:"channel_id"`
	Follow    bool   `json:"follow"`
}

type successResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
}

func (r successResponse) err() error {
	if r.Success != nil && !*r.Success {
		if r.Message != "" {
			return errors.Join(ErrRejected, errors.New(r.Message))
		}
		return ErrRejected
	}
	return nil
}

// FollowChannel follows (follow=true) or unfollows a channel.
func (c *Client) FollowChannel(ctx context.Context, channelID string, follow bool) error {
	var resp successResponse
	req := followRequest{ChannelID: channelID, Follow: follow}
	if err := c.do(ctx, http.MethodPost, "/user/follow-channel", true, req, &resp); err != nil {
		return err
	}
	return resp.err()
}

type categoriesPayload struct {
	Categories []string `json:"categories"`
}

// Categories returns the user's selected category ids.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var resp categoriesPayload
	if err := c.do(ctx, http.MethodGet, "/user/get-categories", true, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// UpdateCategories replaces the user's selected category ids.
func (c *Client) UpdateCategories(ctx context.Context, ids []string) error {
	var resp successResponse
	if err := c.do(ctx, http.MethodPost, "/user/update-categories", true, categoriesPayload{Categories: ids}, &resp); err != nil {
		return err
	}
	return resp.err()
}

// AvailableCategories lists every category the backend knows about.
func (c *Client) AvailableCategories(ctx context.Context) ([]model.Category, error) {
	var resp struct {
		Categories []model.Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/categories", false, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// SaveItem adds a Byte to the saved collection. A 409 maps to
// ErrAlreadySaved.
func (c *Client) SaveItem(ctx context.Context, id string) error {
	err := c.do(ctx, http.MethodPost, savedPath(id), true, nil, nil)
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusConflict {
		return ErrAlreadySaved
	}
	return err
}

// UnsaveItem removes a Byte from the saved collection.
func (c *Client) UnsaveItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, savedPath(id), true, nil, nil)
}

func savedPath(id string) string {
	return "/user/saved-feeds/" + url.PathEscape(id)
}

type googleAuthRequest struct {
	IDToken string `json:"id_token"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	Token       string `json:"token"`
}

func (r tokenResponse) token() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.Token
}

// ExchangeGoogleToken trades an identity-provider id token for a backend
// session token.
func (c *Client) ExchangeGoogleToken(ctx context.Context, idToken string) (string, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return "", errors.New("empty id token")
	}
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/google", false, googleAuthRequest{IDToken: idToken}, &resp); err != nil {
		return "", err
	}
	if resp.token() == "" {
		return "", errors.New("auth response missing token")
	}
	return resp.token(), nil
}
