// Package neon collects Neon database consumption and prices it under the
// usage-based plan, per project, per day.
package neon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/CruGlobal/datadog-custom-costs/core/paging"
	"github.com/CruGlobal/datadog-custom-costs/internal/config"
	"github.com/CruGlobal/datadog-custom-costs/internal/errors"
	"github.com/CruGlobal/datadog-custom-costs/internal/transport"
)

// pageLimit is the consumption and metadata page size
const pageLimit = 100

// ProjectConsumption is one project's usage for the requested window.
// Consumption entries stay raw; the version-selected extractor owns their
// shape.
type ProjectConsumption struct {
	ProjectID string `json:"project_id"`
	Periods   []struct {
		Consumption []json.RawMessage `json:"consumption"`
	} `json:"periods"`
}

// Client talks to the Neon console API
type Client struct {
	http    *http.Client
	baseURL string
	orgID   string
}

// NewClient validates credentials and builds a console API client.
// Credential validation happens here, before any network call.
func NewClient(cfg config.NeonConfig, httpCfg config.HTTPConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		http:    transport.NewClient(transport.FromConfig(httpCfg, cfg.APIKey)),
		baseURL: cfg.BaseURL,
		orgID:   cfg.OrgID,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Transport(fmt.Sprintf("Neon API request %s failed", path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		switch resp.StatusCode {
		case 401:
			return errors.Auth("Authentication failed. Check your NEON_API_KEY.")
		case 403:
			return errors.Permission("Forbidden. API key may lack required permissions.")
		default:
			return errors.ClassifyHTTP(resp.StatusCode,
				fmt.Sprintf("Neon API request %s failed: %s", path, body))
		}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// ProjectNames fetches the organization's project metadata and returns an
// id-to-name lookup. One call, bounded by the page limit; callers treat a
// failure here as degradable, not fatal.
func (c *Client) ProjectNames(ctx context.Context) (map[string]string, error) {
	query := url.Values{}
	query.Set("org_id", c.orgID)
	query.Set("limit", strconv.Itoa(pageLimit))

	var response struct {
		Projects []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"projects"`
	}
	if err := c.get(ctx, "/projects", query, &response); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(response.Projects))
	for _, p := range response.Projects {
		if p.Name != "" {
			names[p.ID] = p.Name
		} else {
			names[p.ID] = p.ID
		}
	}
	return names, nil
}

// ConsumptionPage fetches one page of per-project consumption for the UTC
// window, daily granularity. The returned cursor drives pagination.
func (c *Client) ConsumptionPage(ctx context.Context, from, to time.Time, cursor string) (paging.Page[ProjectConsumption], error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(pageLimit))
	query.Set("from", from.UTC().Format("2006-01-02T15:04:05Z"))
	query.Set("to", to.UTC().Format("2006-01-02T15:04:05Z"))
	query.Set("granularity", "daily")
	query.Set("org_id", c.orgID)
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	var response struct {
		Projects   []ProjectConsumption `json:"projects"`
		Pagination struct {
			Cursor string `json:"cursor"`
		} `json:"pagination"`
	}
	if err := c.get(ctx, "/consumption_history/projects", query, &response); err != nil {
		return paging.Page[ProjectConsumption]{}, err
	}

	return paging.Page[ProjectConsumption]{
		Items:  response.Projects,
		Cursor: response.Pagination.Cursor,
	}, nil
}
