// Package github collects GitHub billing usage (Actions, Packages,
// storage) for an organization and converts it to FOCUS records.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/CruGlobal/datadog-custom-costs/internal/config"
	"github.com/CruGlobal/datadog-custom-costs/internal/errors"
	"github.com/CruGlobal/datadog-custom-costs/internal/transport"
)

const apiVersion = "2022-11-28"

// UsageItem is one SKU usage line from the billing usage report
type UsageItem struct {
	Product        string  `json:"product"`
	SKU            string  `json:"sku"`
	UnitType       string  `json:"unitType"`
	Quantity       float64 `json:"quantity"`
	PricePerUnit   float64 `json:"pricePerUnit"`
	NetAmount      float64 `json:"netAmount"`
	RepositoryName string  `json:"repositoryName"`
}

// Client talks to the GitHub REST API
type Client struct {
	http    *http.Client
	baseURL string
	org     string
}

// NewClient validates credentials and builds a REST client
func NewClient(cfg config.GitHubConfig, httpCfg config.HTTPConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		http:    transport.NewClient(transport.FromConfig(httpCfg, cfg.Token)),
		baseURL: cfg.BaseURL,
		org:     cfg.Org,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	rawURL := c.baseURL + path
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Transport(fmt.Sprintf("GitHub API request %s failed", path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		switch resp.StatusCode {
		case 401:
			return errors.Auth("Authentication failed. Check your GITHUB_TOKEN.")
		case 403:
			return errors.Permission("Forbidden. Token may lack billing:read scope.")
		case 404:
			return errors.NotFound("organization or repository", path)
		default:
			return errors.ClassifyHTTP(resp.StatusCode,
				fmt.Sprintf("GitHub API request %s failed: %s", path, body))
		}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// UsageItems fetches the organization's billing usage for a scope.
// Year-only scopes return the whole year, year+month one month, and
// year+month+day a single day.
func (c *Client) UsageItems(ctx context.Context, scope Scope) ([]UsageItem, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(scope.Year))
	if scope.Month > 0 {
		query.Set("month", strconv.Itoa(scope.Month))
	}
	if scope.Day > 0 {
		query.Set("day", strconv.Itoa(scope.Day))
	}

	var response struct {
		UsageItems []UsageItem `json:"usageItems"`
	}
	if err := c.get(ctx, "/orgs/"+c.org+"/settings/billing/usage", query, &response); err != nil {
		return nil, err
	}
	return response.UsageItems, nil
}

// RepositoryTopics fetches a repository's topic list for service
// attribution. Callers treat failure as degradable.
func (c *Client) RepositoryTopics(ctx context.Context, repository string) ([]string, error) {
	var response struct {
		Topics []string `json:"topics"`
	}
	if err := c.get(ctx, "/repos/"+c.org+"/"+repository, nil, &response); err != nil {
		return nil, err
	}
	return response.Topics, nil
}
