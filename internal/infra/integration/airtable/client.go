package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/YxungHermes/LVR-HM-sub001/internal/infra/queue"
)

// Client mirrors lead events into the studio's Airtable base, which the
// owners live in day to day. Strictly a read model; the Postgres lead
// store stays the source of truth.
type Client struct {
	apiKey  string
	baseID  string
	table   string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, baseID, table string) *Client {
	if table == "" {
		table = "Leads"
	}
	return &Client{
		apiKey:  apiKey,
		baseID:  baseID,
		table:   table,
		baseURL: "https://api.airtable.com/v0",
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != "" && c.baseID != ""
}

// UpsertLead merges a lead event into the table, keyed on the Lead ID
// field.
func (c *Client) UpsertLead(ctx context.Context, payload queue.LeadEventPayload) error {
	if !c.Configured() {
		log.Println("[AIRTABLE] not configured, dropping lead event")
		return nil
	}

	fields := map[string]interface{}{
		"Lead ID":    payload.LeadID,
		"Last Event": payload.Event,
	}
	if payload.Email != "" {
		fields["Email"] = payload.Email
	}
	if payload.Name != "" {
		fields["Name"] = payload.Name
	}
	if payload.EventType != "" {
		fields["Event Type"] = payload.EventType
	}
	if payload.Status != "" {
		fields["Status"] = payload.Status
	}
	if payload.Source != "" {
		fields["Source"] = payload.Source
	}
	if payload.AmountCents > 0 {
		fields["Amount"] = float64(payload.AmountCents) / 100
	}

	body := map[string]interface{}{
		"performUpsert": map[string]interface{}{
			"fieldsToMergeOn": []string{"Lead ID"},
		},
		"records": []map[string]interface{}{
			{"fields": fields},
		},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.baseID, c.table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewBuffer(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("airtable request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("airtable upsert failed: %d - %s", resp.StatusCode, string(respBody))
	}
	return nil
}
