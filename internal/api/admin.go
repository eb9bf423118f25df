package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/abelbrown/byteme/internal/model"
)

// AdminClient calls the /admin endpoints with a separately issued token.
type AdminClient struct {
	c      *Client
	tokens TokenSource
}

// Admin returns an AdminClient sharing c's transport and pacing.
func (c *Client) Admin(tokens TokenSource) *AdminClient {
	return &AdminClient{c: c, tokens: tokens}
}

type adminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges admin credentials for an admin token.
func (a *AdminClient) Login(ctx context.Context, username, password string) (string, error) {
	var resp tokenResponse
	if err := a.c.do(ctx, http.MethodPost, "/admin/login", false, adminLoginRequest{Username: username, Password: password}, &resp); err != nil {
		return "", err
	}
	if resp.token() == "" {
		return "", errors.New("admin login response missing token")
	}
	return resp.token(), nil
}

func (a *AdminClient) call(ctx context.Context, method, path string, in, out any) error {
	return a.c.doWithToken(ctx, method, path, authToken(true, a.tokens), in, out)
}

// ListInfluencers returns all influencers.
func (a *AdminClient) ListInfluencers(ctx context.Context) ([]model.Influencer, error) {
	var resp struct {
		Data []model.Influencer `json:"data"`
	}
	if err := a.call(ctx, http.MethodGet, "/admin/influencers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreateInfluencer creates an influencer and returns the stored record.
func (a *AdminClient) CreateInfluencer(ctx context.Context, in model.Influencer) (model.Influencer, error) {
	var out model.Influencer
	err := a.call(ctx, http.MethodPost, "/admin/influencers", in, &out)
	return out, err
}

// UpdateInfluencer replaces an influencer record.
func (a *AdminClient) UpdateInfluencer(ctx context.Context, in model.Influencer) (model.Influencer, error) {
	if in.ID == "" {
		return model.Influencer{}, errors.New("influencer id required")
	}
	var out model.Influencer
	err := a.call(ctx, http.MethodPut, "/admin/influencers/"+url.PathEscape(in.ID), in, &out)
	return out, err
}

// DeleteInfluencer removes an influencer.
func (a *AdminClient) DeleteInfluencer(ctx context.Context, id string) error {
	return a.call(ctx, http.MethodDelete, "/admin/influencers/"+url.PathEscape(id), nil, nil)
}

// ListPosts returns all posts.
func (a *AdminClient) ListPosts(ctx context.Context) ([]model.Post, error) {
	var resp struct {
		Data []model.Post `json:"data"`
	}
	if err := a.call(ctx, http.MethodGet, "/admin/posts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreatePost creates a post.
func (a *AdminClient) CreatePost(ctx context.Context, in model.Post) (model.Post, error) {
	var out model.Post
	err := a.call(ctx, http.MethodPost, "/admin/posts", in, &out)
	return out, err
}

// DeletePost removes a post.
func (a *AdminClient) DeletePost(ctx context.Context, id string) error {
	return a.call(ctx, http.MethodDelete, "/admin/posts/"+url.PathEscape(id), nil, nil)
}

// ListPrompts returns all prompt templates.
func (a *AdminClient) ListPrompts(ctx context.Context) ([]model.PromptTemplate, error) {
	var resp struct {
		Data []model.PromptTemplate `json:"data"`
	}
	if err := a.call(ctx, http.MethodGet, "/admin/prompts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// CreatePrompt creates a prompt template.
func (a *AdminClient) CreatePrompt(ctx context.Context, in model.PromptTemplate) (model.PromptTemplate, error) {
	var out model.PromptTemplate
	err := a.call(ctx, http.MethodPost, "/admin/prompts", in, &out)
	return out, err
}

// UpdatePrompt replaces a prompt template.
func (a *AdminClient) UpdatePrompt(ctx context.Context, in model.PromptTemplate) (model.PromptTemplate, error) {
	if in.ID == "" {
		return model.PromptTemplate{}, errors.New("prompt id required")
	}
	var out model.PromptTemplate
	err := a.call(ctx, http.MethodPut, "/admin/prompts/"+url.PathEscape(in.ID), in, &out)
	return out, err
}

// DeletePrompt removes a prompt template.
func (a *AdminClient) DeletePrompt(ctx context.Context, id string) error {
	return a.call(ctx, http.MethodDelete, "/admin/prompts/"+url.PathEscape(id), nil, nil)
}
