package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/existflow/unicompass/internal/model"
)

// ListParams are the query and filter fields encoded into a listing
// request. Empty fields are never sent, so an unset filter imposes no
// constraint on the server side either.
type ListParams struct {
	Query      string
	Country    string
	City       string
	Course     string
	Degree     string
	MaxAppFee  string
	MaxTuition string
	Page       string // opaque continuation from a previous Page.Next
	PageSize   int
}

func (p ListParams) encode() string {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("search", p.Query)
	set("country", p.Country)
	set("city", p.City)
	set("course", p.Course)
	set("degree_level", p.Degree)
	set("max_application_fee", p.MaxAppFee)
	set("max_tuition_fee", p.MaxTuition)
	set("page", p.Page)
	if p.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// Page is one page of listing results. Next is the opaque continuation
// token; empty means no further pages.
type Page struct {
	Results []model.University
	Next    string
	Count   int
}

// ListUniversities fetches one page of the catalog. The endpoint answers
// either with the paginated envelope {results,next,count} or, in its older
// form, a bare array; both are tolerated.
func (c *Client) ListUniversities(ctx context.Context, params ListParams) (*Page, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "GET", "/api/universities/"+params.encode(), nil, &raw, true); err != nil {
		return nil, err
	}
	return parsePage(raw)
}

func parsePage(raw json.RawMessage) (*Page, error) {
	trimmed := trimLeadingSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var results []model.University
		if err := json.Unmarshal(raw, &results); err != nil {
			return nil, fmt.Errorf("malformed listing: %w", err)
		}
		return &Page{Results: results, Count: len(results)}, nil
	}

	var envelope struct {
		Results []model.University `json:"results"`
		Next    *string            `json:"next"`
		Count   int                `json:"count"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("malformed listing: %w", err)
	}
	page := &Page{Results: envelope.Results, Count: envelope.Count}
	if envelope.Next != nil {
		page.Next = nextPageParam(*envelope.Next)
	}
	return page, nil
}

func trimLeadingSpace(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t' || b[0] == '\n' || b[0] == '\r') {
		b = b[1:]
	}
	return b
}

// nextPageParam extracts the page parameter from a continuation URL. The
// server sends a full URL; only the page number matters to us, and a link
// that cannot be parsed is treated as opaque and passed through.
func nextPageParam(next string) string {
	if next == "" {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil {
		return next
	}
	if page := u.Query().Get("page"); page != "" {
		return page
	}
	return next
}

// GetUniversity fetches a single catalog record by id.
func (c *Client) GetUniversity(ctx context.Context, id int) (*model.University, error) {
	var u model.University
	if err := c.do(ctx, "GET", fmt.Sprintf("/api/universities/%d/", id), nil, &u, true); err != nil {
		return nil, err
	}
	return &u, nil
}
