// Copyright 2026 The setup-repo Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	CloneURL      string `json:"clone_url"`
	SSHURL        string `json:"ssh_url"`
	DefaultBranch string `json:"default_branch,omitempty"`
}

func makeRepos(start, count int) []fakeRepo {
	repos := make([]fakeRepo, count)
	for i := range repos {
		name := fmt.Sprintf("repo-%03d", start+i)
		repos[i] = fakeRepo{
			Name:          name,
			FullName:      "acme/" + name,
			CloneURL:      "https://github.com/acme/" + name + ".git",
			SSHURL:        "git@github.com:acme/" + name + ".git",
			DefaultBranch: "main",
		}
	}
	return repos
}

// pagedServer serves /users/acme/repos with the given page sizes.
func pagedServer(t *testing.T, pageSizes []int) *httptest.Server {
	t.Helper()
	starts := make([]int, len(pageSizes))
	for i := 1; i < len(pageSizes); i++ {
		starts[i] = starts[i-1] + pageSizes[i-1]
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/acme/repos" {
			http.NotFound(w, r)
			return
		}
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		require.GreaterOrEqual(t, page, 1)
		var repos []fakeRepo
		if page <= len(pageSizes) {
			repos = makeRepos(starts[page-1], pageSizes[page-1])
		}
		if repos == nil {
			repos = []fakeRepo{}
		}
		json.NewEncoder(w).Encode(repos)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRepositoriesPagination(t *testing.T) {
	srv := pagedServer(t, []int{100, 100, 37})

	c := New(Options{BaseURL: srv.URL}, zerolog.Nop())
	repos, err := c.Repositories(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, repos, 237)

	seen := make(map[string]bool)
	for _, repo := range repos {
		assert.False(t, seen[repo.Name], "duplicate repo %s", repo.Name)
		seen[repo.Name] = true
	}
}

func TestRepositoriesSkipsMalformedItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		if page != "1" {
			fmt.Fprint(w, "[]")
			return
		}
		repos := makeRepos(0, 2)
		// One entry with no clone URLs must not sink the rest.
		fmt.Fprintf(w, `[{"name":"broken","full_name":"acme/broken"},%s]`, mustJSON(repos))
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL}, zerolog.Nop())
	repos, err := c.Repositories(context.Background(), "acme")
	require.NoError(t, err)
	assert.Len(t, repos, 2)
}

func mustJSON(repos []fakeRepo) string {
	b, _ := json.Marshal(repos)
	return string(b[1 : len(b)-1])
}

func TestRepositoriesDefaultBranchFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, "[]")
			return
		}
		repos := makeRepos(0, 1)
		repos[0].DefaultBranch = ""
		json.NewEncoder(w).Encode(repos)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL}, zerolog.Nop())
	repos, err := c.Repositories(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "main", repos[0].DefaultBranch)
}

func TestRepositoriesHTTPErrorAbortsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Server Error"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL}, zerolog.Nop())
	_, err := c.Repositories(context.Background(), "acme")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestRepositoriesEmptyOwner(t *testing.T) {
	c := New(Options{}, zerolog.Nop())
	_, err := c.Repositories(context.Background(), "")
	assert.Error(t, err)
}

func TestRepositoriesSendsBearerToken(t *testing.T) {
	var sawAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAuth = r.Header.Get("Authorization")
		if r.URL.Path == "/user" {
			fmt.Fprint(w, `{"login":"someone-else"}`)
			return
		}
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, Token: "tok123"}, zerolog.Nop())
	_, err := c.Repositories(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok123", sawAuth)
}

func TestRepositoriesUsesUserEndpointForOwnRepos(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/user":
			fmt.Fprint(w, `{"login":"Acme"}`)
		case "/user/repos":
			if r.URL.Query().Get("page") == "1" {
				assert.Contains(t, r.URL.Query().Get("affiliation"), "owner")
				json.NewEncoder(w).Encode(makeRepos(0, 3))
				return
			}
			fmt.Fprint(w, "[]")
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, Token: "tok123"}, zerolog.Nop())
	repos, err := c.Repositories(context.Background(), "acme")
	require.NoError(t, err)
	assert.Len(t, repos, 3)
	assert.Contains(t, paths, "/user")
	assert.Contains(t, paths, "/user/repos")
}

func TestRepositoriesUnauthenticatedSkipsUserLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/user" {
			t.Error("unauthenticated client must not call /user")
		}
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL}, zerolog.Nop())
	_, err := c.Repositories(context.Background(), "acme")
	require.NoError(t, err)
}
