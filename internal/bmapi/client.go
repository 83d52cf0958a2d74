// internal/bmapi/client.go

// Package bmapi is the outbound Business Messages transport: it acquires
// service-account credentials and posts messages and typing events to the
// conversations API.
package bmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/oauth2/google"

	"github.com/user/cartbot/internal/types"
)

const (
	DefaultBaseURL = "https://businessmessages.googleapis.com"

	scope = "https://www.googleapis.com/auth/businessmessages"

	// callTimeout bounds each outbound sub-request. A typing event that
	// times out is abandoned; the remaining sub-requests are independent
	// and still attempted by the caller.
	callTimeout = 10 * time.Second

	mediaHeightMedium = "MEDIUM"
)

// Client posts to the Business Messages conversations API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	agentName  string
	timeout    time.Duration
}

// New builds a client from a Google service-account credentials file.
func New(credentialsFile, baseURL, agentName string) (*Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	cfg, err := google.JWTConfigFromJSON(data, scope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	return NewWithHTTPClient(cfg.Client(context.Background()), baseURL, agentName), nil
}

// NewWithHTTPClient wires a pre-authenticated HTTP client; tests use it
// with httptest servers.
func NewWithHTTPClient(httpClient *http.Client, baseURL, agentName string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		agentName:  agentName,
		timeout:    callTimeout,
	}
}

// Wire shapes for the conversations API.

type representative struct {
	RepresentativeType string `json:"representativeType"`
	DisplayName        string `json:"displayName"`
}

type suggestedReply struct {
	Text         string `json:"text"`
	PostbackData string `json:"postbackData"`
}

type suggestion struct {
	Reply suggestedReply `json:"reply"`
}

type contentInfo struct {
	FileURL      string `json:"fileUrl"`
	ForceRefresh bool   `json:"forceRefresh"`
}

type media struct {
	Height      string      `json:"height"`
	ContentInfo contentInfo `json:"contentInfo"`
}

type cardContent struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	Media       *media       `json:"media,omitempty"`
	Suggestions []suggestion `json:"suggestions,omitempty"`
}

type standaloneCard struct {
	CardContent cardContent `json:"cardContent"`
}

type carouselCard struct {
	CardWidth    string        `json:"cardWidth"`
	CardContents []cardContent `json:"cardContents"`
}

type richCard struct {
	StandaloneCard *standaloneCard `json:"standaloneCard,omitempty"`
	CarouselCard   *carouselCard   `json:"carouselCard,omitempty"`
}

type apiMessage struct {
	MessageID      string         `json:"messageId"`
	Representative representative `json:"representative"`
	Text           string         `json:"text,omitempty"`
	RichCard       *richCard      `json:"richCard,omitempty"`
	Fallback       string         `json:"fallback,omitempty"`
	Suggestions    []suggestion   `json:"suggestions,omitempty"`
}

type apiEvent struct {
	EventType      string         `json:"eventType"`
	Representative representative `json:"representative"`
}

// SendMessage posts one reply. This is the single place that matches all
// three reply shapes onto the wire format.
func (c *Client) SendMessage(ctx context.Context, conversationID types.ConversationID, reply types.Reply) error {
	msg := apiMessage{
		MessageID:      types.NewRequestID(),
		Representative: c.representative(),
	}

	switch r := reply.(type) {
	case types.TextReply:
		msg.Text = r.Text
		msg.Fallback = r.Text
		msg.Suggestions = toSuggestions(r.Suggestions)
	case types.SingleCardReply:
		msg.RichCard = &richCard{StandaloneCard: &standaloneCard{CardContent: toCardContent(r.Card)}}
		msg.Fallback = r.Fallback
		msg.Suggestions = toSuggestions(r.Suggestions)
	case types.CarouselReply:
		contents := make([]cardContent, 0, len(r.Cards))
		for _, card := range r.Cards {
			contents = append(contents, toCardContent(card))
		}
		msg.RichCard = &richCard{CarouselCard: &carouselCard{CardWidth: r.CardWidth, CardContents: contents}}
		msg.Fallback = r.Fallback
		msg.Suggestions = toSuggestions(r.Suggestions)
	default:
		return fmt.Errorf("unsupported reply type %T", reply)
	}

	endpoint := fmt.Sprintf("%s/v1/conversations/%s/messages", c.baseURL, url.PathEscape(string(conversationID)))
	return c.post(ctx, endpoint, msg)
}

// SendEvent posts a typing indicator event with a fresh request id.
func (c *Client) SendEvent(ctx context.Context, conversationID types.ConversationID, event types.EventType) error {
	endpoint := fmt.Sprintf("%s/v1/conversations/%s/events?eventId=%s",
		c.baseURL, url.PathEscape(string(conversationID)), url.QueryEscape(types.NewRequestID()))
	return c.post(ctx, endpoint, apiEvent{
		EventType:      string(event),
		Representative: c.representative(),
	})
}

func (c *Client) representative() representative {
	return representative{
		RepresentativeType: "BOT",
		DisplayName:        c.agentName,
	}
}

func (c *Client) post(ctx context.Context, endpoint string, body any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post %s: status %d: %s", endpoint, resp.StatusCode, snippet)
	}
	return nil
}

func toSuggestions(suggestions []types.Suggestion) []suggestion {
	out := make([]suggestion, 0, len(suggestions))
	for _, s := range suggestions {
		out = append(out, suggestion{Reply: suggestedReply{Text: s.Text, PostbackData: s.PostbackData}})
	}
	return out
}

func toCardContent(card types.Card) cardContent {
	content := cardContent{
		Title:       card.Title,
		Description: card.Description,
		Suggestions: toSuggestions(card.Suggestions),
	}
	if card.MediaURL != "" {
		content.Media = &media{
			Height:      mediaHeightMedium,
			ContentInfo: contentInfo{FileURL: card.MediaURL, ForceRefresh: true},
		}
	}
	return content
}
