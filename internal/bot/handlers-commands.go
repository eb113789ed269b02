package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Gorio76/meeting-notes-flow/internal/catalog"
	"github.com/Gorio76/meeting-notes-flow/internal/report"
)

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command string, args []string) {
	switch command {
	case "start":
		b.handleStart(ctx, chatID)
	case "report":
		b.handleReportCommand(ctx, chatID)
	case "cancel":
		b.handleCancel(ctx, chatID)
	case "help":
		b.handleHelp(ctx, chatID)
	case "stats", "export":
		b.handleAdminCommand(ctx, chatID, command, args)
	default:
		b.handleUnknownCommand(ctx, chatID)
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64) {
	msg := tgbotapi.NewMessage(chatID, `Benvenuto! 👋

Questo bot ti guida negli appunti di un meeting commerciale: cliente,
contesto, obiettivi, problemi, vincoli, ordine e follow-up.

Alla fine ottieni un report strutturato da inviare via email o archiviare.
Puoi saltare qualsiasi domanda: le risposte vuote non compaiono nel report.`)
	b.sendMessage(msg)

	b.startMeeting(ctx, chatID)
}

// startMeeting resets the wizard to a fresh session and asks the first
// question.
func (b *Bot) startMeeting(ctx context.Context, chatID int64) {
	state := MeetingState{
		Step:    StepQuestion,
		Answers: report.Answers{},
	}
	if err := b.state.Save(ctx, chatID, state); err != nil {
		b.logger.Error("Failed to initialize meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Errore nell'avvio del meeting, riprova")
		return
	}

	b.beginQuestion(ctx, chatID, state)
}

func (b *Bot) handleReportCommand(ctx context.Context, chatID int64) {
	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.sendError(chatID, "Nessun meeting in corso. Usa /start per iniziare.")
		return
	}

	text := report.Generate(state.Answers, state.OrderLines, catalog.Questions(), time.Now())
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) handleCancel(ctx context.Context, chatID int64) {
	if err := b.state.Clear(ctx, chatID); err != nil {
		b.logger.Error("Failed to clear state on cancel",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	msg := tgbotapi.NewMessage(chatID, "❌ Meeting annullato. Usa /start per ricominciare.")
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.sendMessage(msg)
}

func (b *Bot) handleHelp(ctx context.Context, chatID int64) {
	helpText := `Comandi disponibili:
	/start - Inizia un nuovo meeting
	/report - Mostra il report dello stato attuale
	/cancel - Annulla il meeting in corso
	/help - Mostra questa guida`

	b.sendMessage(tgbotapi.NewMessage(chatID, helpText))
}

func (b *Bot) handleDefault(ctx context.Context, chatID int64) {
	b.sendError(chatID, "Non ho capito. Usa i pulsanti o /help.")
}

func (b *Bot) handleUnknownCommand(ctx context.Context, chatID int64) {
	b.sendError(chatID, "Comando sconosciuto. Usa /start per iniziare.")
}
