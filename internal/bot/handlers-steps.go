package bot

import (
	"context"
	"encoding/json"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Gorio76/meeting-notes-flow/internal/catalog"
)

// beginQuestion sends the prompt for the question at the state's current
// index and routes to the matching step handler.
func (b *Bot) beginQuestion(ctx context.Context, chatID int64, state MeetingState) {
	if state.QuestionIndex >= catalog.Total() {
		b.showSummary(ctx, chatID, state)
		return
	}

	q := catalog.ByIndex(state.QuestionIndex)

	switch q.Kind {
	case catalog.KindCompositeCompany:
		msg := tgbotapi.NewMessage(chatID, q.Title+"\n\nRagione sociale del cliente:")
		msg.ReplyMarkup = b.createQuestionKeyboard()
		b.sendMessage(msg)
		b.setStep(ctx, chatID, StepCompanyName)

	case catalog.KindOrderManager:
		b.showOrderMenu(ctx, chatID, state)

	default:
		text := q.Title
		if q.Helper != "" {
			text += "\n" + q.Helper
		}
		if q.Placeholder != "" {
			text += "\n\nEsempio:\n" + q.Placeholder
		}
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = b.createQuestionKeyboard()
		b.sendMessage(msg)
		b.setStep(ctx, chatID, StepQuestion)
	}
}

// handleQuestionInput stores a plain, textarea or bullet answer. Bullet
// answers arrive as one multi-line message; they are stored raw and cleaned
// only at report time.
func (b *Bot) handleQuestionInput(ctx context.Context, chatID int64, text string) {
	switch text {
	case ButtonCancel:
		b.handleCancel(ctx, chatID)
		return
	case ButtonSkip:
		text = ""
	}

	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Errore nel recupero del meeting. Usa /start per ricominciare.")
		return
	}

	q := catalog.ByIndex(state.QuestionIndex)
	if err := b.state.SetAnswer(ctx, chatID, q.ID, strings.TrimSpace(text)); err != nil {
		b.logger.Error("Failed to save answer",
			zap.Int64("chat_id", chatID),
			zap.String("question_id", q.ID),
			zap.Error(err))
		b.sendError(chatID, "Errore nel salvataggio della risposta")
		return
	}

	b.advance(ctx, chatID)
}

func (b *Bot) handleCompanyName(ctx context.Context, chatID int64, text string) {
	switch text {
	case ButtonCancel:
		b.handleCancel(ctx, chatID)
		return
	case ButtonSkip:
		text = ""
	}

	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Errore nel recupero del meeting. Usa /start per ricominciare.")
		return
	}

	state.PendingCompany = strings.TrimSpace(text)
	state.Step = StepReferentName
	if err := b.state.Save(ctx, chatID, state); err != nil {
		b.logger.Error("Failed to save meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Errore nel salvataggio della risposta")
		return
	}

	msg := tgbotapi.NewMessage(chatID, "Nome del referente:")
	msg.ReplyMarkup = b.createQuestionKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handleReferentName(ctx context.Context, chatID int64, text string) {
	switch text {
	case ButtonCancel:
		b.handleCancel(ctx, chatID)
		return
	case ButtonSkip:
		text = ""
	}

	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Errore nel recupero del meeting. Usa /start per ricominciare.")
		return
	}

	company := state.PendingCompany
	referent := strings.TrimSpace(text)
	state.PendingCompany = ""

	q := catalog.ByIndex(state.QuestionIndex)
	if company == "" && referent == "" {
		delete(state.Answers, q.ID)
	} else {
		encoded, err := json.Marshal(struct {
			Company  string `json:"company"`
			Referent string `json:"referent"`
		}{Company: company, Referent: referent})
		if err != nil {
			b.logger.Error("Failed to encode company answer",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
			b.sendError(chatID, "Errore nel salvataggio dei dati cliente")
			return
		}
		state.Answers[q.ID] = string(encoded)
	}

	if err := b.state.Save(ctx, chatID, state); err != nil {
		b.logger.Error("Failed to save meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Errore nel salvataggio della risposta")
		return
	}

	b.advance(ctx, chatID)
}

// advance moves the wizard to the next catalog entry, or to the summary when
// the interview is done.
func (b *Bot) advance(ctx context.Context, chatID int64) {
	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return
	}

	state.QuestionIndex++
	if err := b.state.Save(ctx, chatID, state); err != nil {
		b.logger.Error("Failed to save meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return
	}

	b.beginQuestion(ctx, chatID, state)
}

func (b *Bot) setStep(ctx context.Context, chatID int64, step string) {
	if err := b.state.SetStep(ctx, chatID, step); err != nil {
		b.logger.Error("Failed to set step",
			zap.Int64("chat_id", chatID),
			zap.String("step", step),
			zap.Error(err))
	}
}
