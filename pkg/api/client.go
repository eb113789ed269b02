package api

// CRM CLIENT

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Gorio76/meeting-notes-flow/internal/storage"
)

// Client pushes archived meeting reports into the CRM. The report body is
// the delimited text the CRM importer already understands.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

type reportPayload struct {
	MeetingID  int64     `json:"meeting_id"`
	Company    string    `json:"company"`
	Referent   string    `json:"referent"`
	Report     string    `json:"report"`
	OrderTotal float64   `json:"order_total"`
	CreatedAt  time.Time `json:"created_at"`
}

func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) SubmitReport(ctx context.Context, meeting storage.Meeting) error {
	payload := reportPayload{
		MeetingID:  meeting.ID,
		Company:    meeting.Company,
		Referent:   meeting.Referent,
		Report:     meeting.Report,
		OrderTotal: meeting.OrderTotal,
		CreatedAt:  meeting.CreatedAt,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		fmt.Sprintf("%s/api/meetings", c.baseURL),
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	c.logger.Info("Report submitted to CRM",
		zap.Int64("meeting_id", meeting.ID),
		zap.Int("status", resp.StatusCode))
	return nil
}
