package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/internal/config"
	"storefront/internal/utils/logger"
)

// Contact is a marketing contact keyed by email.
type Contact struct {
	Email      string                 `json:"email"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	ListIDs    []int                  `json:"listIds,omitempty"`
}

// ContactsClient creates or updates contacts in the marketing provider.
type ContactsClient interface {
	UpsertContact(ctx context.Context, contact Contact) error
}

// HTTPContactsClient talks to a Brevo compatible contacts API.
type HTTPContactsClient struct {
	baseURL string
	apiKey  string
	listID  int
	client  *http.Client
	logger  *logger.Logger
}

func NewHTTPContactsClient(cfg config.ContactsConfig, client *http.Client) *HTTPContactsClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPContactsClient{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		apiKey:  cfg.APIKey,
		listID:  cfg.ListID,
		client:  client,
		logger:  logger.New("contacts"),
	}
}

type upsertContactRequest struct {
	Contact
	UpdateEnabled bool `json:"updateEnabled"`
}

func (c *HTTPContactsClient) UpsertContact(ctx context.Context, contact Contact) error {
	if contact.Email == "" {
		return NewValidationError("email", "contact email is required")
	}
	if c.apiKey == "" {
		c.logger.Debug("Contacts API key not set, skipping %s", contact.Email)
		return nil
	}
	if c.listID > 0 && len(contact.ListIDs) == 0 {
		contact.ListIDs = []int{c.listID}
	}

	body, err := json.Marshal(upsertContactRequest{Contact: contact, UpdateEnabled: true})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/contacts", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return c.logger.Error("Contact upsert for %s failed", err, contact.Email)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return c.logger.Error("Contact upsert for %s rejected", fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg)), contact.Email)
	}

	c.logger.Info("Upserted contact %s", contact.Email)
	return nil
}
