// Package omdb implements the external movie metadata lookup client.
//
// The client issues a single HTTP GET per lookup against a configured base
// URL with "t" (title) and "apikey" query parameters, bounded by the
// configured timeout. There is no retry and no caching: every call is a fresh
// network round trip.
//
// Outcomes are deliberately split three ways so callers can choose how much
// to distinguish:
//   - (*Details, nil): the service confirmed the title.
//   - ErrNotFound: the service answered but had no usable record. A non-2xx
//     status, a malformed payload, and an explicit "not found" response are
//     all collapsed into this one outcome.
//   - any other error: a genuine transport failure (timeout, connection
//     refused), returned distinct from ErrNotFound.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when the metadata service has no record for the
// requested title, or when its answer cannot be interpreted as one.
var ErrNotFound = errors.New("movie metadata not found")

// maxBodyBytes caps how much of a lookup response is read.
const maxBodyBytes = 1 << 20

// Details is the normalized metadata record for a single movie title.
type Details struct {
	Title    string
	Director string
	Year     int
	Rating   float64 // source scale 0-10
}

// Client performs metadata lookups against an OMDb-compatible endpoint.
// The zero value is not usable; construct with New.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// New returns a Client bound to baseURL/apiKey with the given per-request
// timeout. A timeout <= 0 defaults to 10 seconds.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// lookupResponse mirrors the service's wire format. Year and imdbRating are
// numeric in spirit but arrive as strings from some deployments, so both are
// decoded leniently.
type lookupResponse struct {
	Found    bool      `json:"found"`
	Title    string    `json:"Title"`
	Director string    `json:"Director"`
	Year     flexInt   `json:"Year"`
	Rating   flexFloat `json:"imdbRating"`
}

// FetchDetails looks up a movie by title.
//
// It returns ErrNotFound for any answer the service actually produced that
// does not confirm the title (non-200 status, undecodable body, found=false).
// Transport failures are returned as wrapped errors so the caller can tell
// "the service said no" from "the service never answered".
func (c *Client) FetchDetails(ctx context.Context, title string) (*Details, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("omdb: invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("t", title)
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("omdb: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		// Timeout, DNS failure, refused connection: a distinct, unrecovered
		// condition rather than a "no match" answer.
		return nil, fmt.Errorf("omdb: lookup %q: %w", title, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrNotFound
	}

	var body lookupResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&body); err != nil {
		return nil, ErrNotFound
	}
	if !body.Found {
		return nil, ErrNotFound
	}

	return &Details{
		Title:    body.Title,
		Director: body.Director,
		Year:     int(body.Year),
		Rating:   float64(body.Rating),
	}, nil
}

// flexInt decodes a JSON number or a numeric string. Unparseable values
// (e.g. "N/A") decode to zero rather than failing the whole payload.
type flexInt int

func (v *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*v = 0
		return nil
	}
	*v = flexInt(n)
	return nil
}

// flexFloat decodes a JSON number or a numeric string, zero on junk.
type flexFloat float64

func (v *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*v = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*v = 0
		return nil
	}
	*v = flexFloat(f)
	return nil
}
