// Package email sends transactional mail through Postmark. The only mail
// the app sends today is the finder-report notification to a pet's owner.
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"net/http"

	"github.com/hartmanbaily-coder/losttofound/internal/model"
	"github.com/hartmanbaily-coder/losttofound/internal/report"
)

const postmarkEndpoint = "https://api.postmarkapp.com/email"

type Client struct {
	serverToken string
	fromEmail   string
	baseURL     string
	httpClient  *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func NewClient(serverToken, fromEmail, baseURL string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		baseURL:     baseURL,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the server token is set.
func (c *Client) Configured() bool {
	return c.serverToken != ""
}

type postmarkEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// SendFinderReport notifies the owner that someone submitted a report
// through their pet's public page.
func (c *Client) SendFinderReport(toEmail, petName string, msg *model.FinderMessage) error {
	if !c.Configured() {
		return fmt.Errorf("email client not configured: missing server token")
	}

	var subject, lead string
	if msg.ReportType == report.KindHave {
		subject = fmt.Sprintf("Someone has %s with them", petName)
		lead = fmt.Sprintf("A finder says they have %s with them right now.", petName)
	} else {
		subject = fmt.Sprintf("Someone just saw %s", petName)
		lead = fmt.Sprintf("A finder reports a sighting of %s.", petName)
	}

	location := ""
	if msg.GeneralLocation != nil && *msg.GeneralLocation != "" {
		location = fmt.Sprintf("General area: %s\n", *msg.GeneralLocation)
	}

	dashboardURL := c.baseURL + "/dashboard"
	textBody := fmt.Sprintf("%s\n\nTheir message:\n%s\n\n%sRead and reply from your dashboard:\n%s\n",
		lead, msg.Message, location, dashboardURL)

	htmlLocation := ""
	if location != "" {
		htmlLocation = fmt.Sprintf("<p>General area: %s</p>", html.EscapeString(*msg.GeneralLocation))
	}
	htmlBody := fmt.Sprintf(
		`<p>%s</p><blockquote>%s</blockquote>%s<p><a href="%s">Open your dashboard</a></p>`,
		html.EscapeString(lead), html.EscapeString(msg.Message), htmlLocation, dashboardURL,
	)

	payload := postmarkEmail{
		From:     c.fromEmail,
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlBody,
		TextBody: textBody,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequest("POST", postmarkEndpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("postmark API error: status %d", resp.StatusCode)
	}

	return nil
}
