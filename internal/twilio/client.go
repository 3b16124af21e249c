package twilio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jmehdipour/matcha-call/internal/model"
)

const DefaultBaseURL = "https://api.twilio.com/2010-04-01"

type Options struct {
	BaseURL    string
	AccountSID string
	AuthToken  string
	Timeout    time.Duration // 0 = none
}

// Client places calls through the Twilio REST API.
type Client struct {
	baseURL    string
	base       *url.URL
	baseErr    error
	accountSID string
	authToken  string
	client     *http.Client
}

func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	base, err := url.Parse(baseURL)

	return &Client{
		baseURL:    baseURL,
		base:       base,
		baseErr:    err,
		accountSID: opts.AccountSID,
		authToken:  opts.AuthToken,
		client:     &http.Client{Timeout: opts.Timeout},
	}
}

// CallsURL embeds the account sid as-is. It is for display; requests go through callsURL.
func (c *Client) CallsURL() string {
	return c.baseURL + "/Accounts/" + c.accountSID + "/Calls.json"
}

// callsURL sets the sid into the decoded path so any character, a stray '%' included,
// is escaped on the wire rather than rejected.
func (c *Client) callsURL() (string, error) {
	if c.baseErr != nil {
		return "", c.baseErr
	}

	u := *c.base
	u.Path = c.base.Path + "/Accounts/" + c.accountSID + "/Calls.json"
	u.RawPath = ""

	return u.String(), nil
}

// CreateCall posts one call request and decodes the JSON answer.
// Any HTTP status is returned as a response; only transport and decode failures are errors.
func (c *Client) CreateCall(ctx context.Context, call model.Call) (model.CallResponse, error) {
	target, err := c.callsURL()
	if err != nil {
		return model.CallResponse{}, fmt.Errorf("twilio: build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(call.Form().Encode()))
	if err != nil {
		return model.CallResponse{}, fmt.Errorf("twilio: build request: %w", err)
	}

	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return model.CallResponse{}, fmt.Errorf("twilio: create call: %w", err)
	}

	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return model.CallResponse{}, fmt.Errorf("twilio: read body status=%d: %w", res.StatusCode, err)
	}

	body, err := decodeJSON(raw)
	if err != nil {
		return model.CallResponse{}, fmt.Errorf("twilio: decode body status=%d: %w", res.StatusCode, err)
	}

	return model.CallResponse{StatusCode: res.StatusCode, Body: body}, nil
}

func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON value")
	}

	return v, nil
}
