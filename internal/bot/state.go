package bot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Gorio76/meeting-notes-flow/internal/report"
	"github.com/Gorio76/meeting-notes-flow/pkg/redis"
)

const (
	StepQuestion        = "question"
	StepCompanyName     = "company_name"
	StepReferentName    = "referent_name"
	StepOrderMenu       = "order_menu"
	StepOrderAdd        = "order_add"
	StepOrderEditSelect = "order_edit_select"
	StepOrderEditInput  = "order_edit_input"
	StepOrderRemove     = "order_remove"
	StepSummary         = "summary"
	StepEmailRecipient  = "email_recipient"
)

// MeetingState is the whole wizard session for one chat: the current step,
// the answers collected so far and the quote under construction. It lives in
// Redis for the session TTL and is gone afterwards.
type MeetingState struct {
	Step          string             `json:"step"`
	QuestionIndex int                `json:"question_index"`
	Answers       report.Answers     `json:"answers,omitempty"`
	OrderLines    []report.OrderLine `json:"order_lines,omitempty"`

	// Company name entered during the first half of the composite step.
	PendingCompany string `json:"pending_company,omitempty"`
	// Line being replaced while in the order edit flow.
	EditLineID string `json:"edit_line_id,omitempty"`

	EmailRecipient string `json:"email_recipient,omitempty"`
}

type StateStorage struct {
	redis *redis.Client
}

func NewStateStorage(redisClient *redis.Client) *StateStorage {
	return &StateStorage{redis: redisClient}
}

func (s *StateStorage) Save(ctx context.Context, chatID int64, state MeetingState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := s.redis.Set(ctx, stateKey(chatID), data, s.redis.TTL()); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

func (s *StateStorage) Get(ctx context.Context, chatID int64) (MeetingState, error) {
	data, err := s.redis.Get(ctx, stateKey(chatID))
	if err != nil {
		return MeetingState{}, fmt.Errorf("failed to get state: %w", err)
	}

	var state MeetingState
	if err := json.Unmarshal(data, &state); err != nil {
		return MeetingState{}, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	if state.Answers == nil {
		state.Answers = report.Answers{}
	}
	return state, nil
}

func (s *StateStorage) Clear(ctx context.Context, chatID int64) error {
	if err := s.redis.Del(ctx, stateKey(chatID)); err != nil {
		return fmt.Errorf("failed to clear state: %w", err)
	}
	return nil
}

func (s *StateStorage) SetStep(ctx context.Context, chatID int64, step string) error {
	state, err := s.Get(ctx, chatID)
	if err != nil {
		state = MeetingState{Answers: report.Answers{}}
	}
	state.Step = step
	return s.Save(ctx, chatID, state)
}

// SetAnswer stores the raw answer text for a question id. An empty value
// removes the entry so the question stays out of the report.
func (s *StateStorage) SetAnswer(ctx context.Context, chatID int64, questionID, value string) error {
	state, err := s.Get(ctx, chatID)
	if err != nil {
		state = MeetingState{Answers: report.Answers{}}
	}
	if value == "" {
		delete(state.Answers, questionID)
	} else {
		state.Answers[questionID] = value
	}
	return s.Save(ctx, chatID, state)
}

func (s *StateStorage) AddOrderLine(ctx context.Context, chatID int64, line report.OrderLine) error {
	state, err := s.Get(ctx, chatID)
	if err != nil {
		return fmt.Errorf("failed to get state: %w", err)
	}
	state.OrderLines = append(state.OrderLines, line)
	return s.Save(ctx, chatID, state)
}

// ReplaceOrderLine swaps the line with the given id for the replacement,
// keeping the id and the insertion position.
func (s *StateStorage) ReplaceOrderLine(ctx context.Context, chatID int64, id uuid.UUID, with report.OrderLine) error {
	state, err := s.Get(ctx, chatID)
	if err != nil {
		return fmt.Errorf("failed to get state: %w", err)
	}
	for i, l := range state.OrderLines {
		if l.ID == id {
			state.OrderLines[i] = l.Replace(with)
			return s.Save(ctx, chatID, state)
		}
	}
	return fmt.Errorf("order line %s not found", id)
}

func (s *StateStorage) RemoveOrderLine(ctx context.Context, chatID int64, id uuid.UUID) error {
	state, err := s.Get(ctx, chatID)
	if err != nil {
		return fmt.Errorf("failed to get state: %w", err)
	}
	for i, l := range state.OrderLines {
		if l.ID == id {
			state.OrderLines = append(state.OrderLines[:i], state.OrderLines[i+1:]...)
			return s.Save(ctx, chatID, state)
		}
	}
	return fmt.Errorf("order line %s not found", id)
}

func stateKey(chatID int64) string {
	return fmt.Sprintf("meeting:%d", chatID)
}
