// Copyright 2026 The setup-repo Authors
// SPDX-License-Identifier: Apache-2.0

// Package github is a minimal client for the parts of the GitHub REST API
// this tool needs: listing an owner's repositories. It is not a general
// purpose API client.
package github

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ulysses-bp/setup-repo/internal/model"
)

const (
	defaultBaseURL = "https://api.github.com"
	perPage        = 100
	apiVersion     = "2022-11-28"
)

// Client talks to the GitHub REST API. Stateless across calls aside from
// the underlying connection pool.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     zerolog.Logger
}

// Options configure a Client.
type Options struct {
	// BaseURL overrides the API endpoint; empty means api.github.com.
	BaseURL string
	// Token is the bearer credential; empty means unauthenticated
	// (public repositories only).
	Token string
	// SkipVerify disables TLS certificate verification, for hosts behind
	// an intercepting corporate CA.
	SkipVerify bool
}

func New(opts Options, log zerolog.Logger) *Client {
	base := opts.BaseURL
	if base == "" {
		base = defaultBaseURL
	}

	transport := http.DefaultTransport
	if opts.SkipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		baseURL: base,
		token:   opts.Token,
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		log: log,
	}
}

// Repositories fetches the complete repository list for owner, paging
// until an empty page. Items that fail validation are logged and skipped;
// an HTTP error aborts the whole fetch, since the sync engine requires a
// fully known list before parallel work begins.
//
// When the token authenticates as owner itself, the /user/repos endpoint
// is used so that private repositories are included.
func (c *Client) Repositories(ctx context.Context, owner string) ([]model.Repository, error) {
	if owner == "" {
		return nil, fmt.Errorf("owner must not be empty")
	}

	path := "/users/" + url.PathEscape(owner) + "/repos"
	query := url.Values{"per_page": {strconv.Itoa(perPage)}}

	if c.token != "" {
		if login, err := c.authenticatedUser(ctx); err == nil && strings.EqualFold(login, owner) {
			path = "/user/repos"
			query.Set("affiliation", "owner,collaborator,organization_member")
		}
	}

	var repos []model.Repository
	for page := 1; ; page++ {
		query.Set("page", strconv.Itoa(page))

		var items []model.Repository
		if err := c.getJSON(ctx, path+"?"+query.Encode(), &items); err != nil {
			return nil, fmt.Errorf("list repositories for %s (page %d): %w", owner, page, err)
		}
		if len(items) == 0 {
			break
		}

		for _, repo := range items {
			if repo.DefaultBranch == "" {
				repo.DefaultBranch = "main"
			}
			if err := repo.Validate(); err != nil {
				// A malformed entry must not sink the rest of the list.
				c.log.Warn().Str("repo", repo.Name).Str("error", err.Error()).Msg("invalid_repo_data")
				continue
			}
			repos = append(repos, repo)
		}
	}

	c.log.Info().Str("owner", owner).Int("count", len(repos)).Msg("fetched_repositories")
	return repos, nil
}

// authenticatedUser returns the login of the token's user.
func (c *Client) authenticatedUser(ctx context.Context) (string, error) {
	var user struct {
		Login string `json:"login"`
	}
	if err := c.getJSON(ctx, "/user", &user); err != nil {
		return "", err
	}
	return user.Login, nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: %s: %s", path, resp.Status, body)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
