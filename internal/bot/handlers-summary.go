package bot

import (
	"context"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Gorio76/meeting-notes-flow/internal/catalog"
	"github.com/Gorio76/meeting-notes-flow/internal/report"
	"github.com/Gorio76/meeting-notes-flow/internal/storage"
)

func (b *Bot) showSummary(ctx context.Context, chatID int64, state MeetingState) {
	text := report.Generate(state.Answers, state.OrderLines, catalog.Questions(), time.Now())

	msg := tgbotapi.NewMessage(chatID, "Riepilogo del meeting:\n\n"+text)
	msg.ReplyMarkup = b.createSummaryKeyboard()
	b.sendMessage(msg)
	b.setStep(ctx, chatID, StepSummary)
}

func (b *Bot) handleSummary(ctx context.Context, chatID int64, text string) {
	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Errore nel recupero del meeting. Usa /start per ricominciare.")
		return
	}

	switch text {
	case ButtonReport:
		b.showSummary(ctx, chatID, state)

	case ButtonEmail:
		prompt := "Email del destinatario:"
		if state.EmailRecipient != "" {
			prompt += "\n(ultimo usato: " + state.EmailRecipient + ")"
		}
		msg := tgbotapi.NewMessage(chatID, prompt)
		msg.ReplyMarkup = b.createBackKeyboard()
		b.sendMessage(msg)
		b.setStep(ctx, chatID, StepEmailRecipient)

	case ButtonArchive:
		b.archiveMeeting(ctx, chatID, state)

	case ButtonRestart:
		b.startMeeting(ctx, chatID)

	case ButtonBack:
		// Reopen the last question of the interview.
		state.QuestionIndex = catalog.Total() - 1
		if err := b.state.Save(ctx, chatID, state); err != nil {
			b.logger.Error("Failed to save meeting state",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
			return
		}
		b.beginQuestion(ctx, chatID, state)

	default:
		b.sendError(chatID, "Usa i pulsanti del riepilogo")
	}
}

func (b *Bot) handleEmailRecipient(ctx context.Context, chatID int64, text string) {
	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Errore nel recupero del meeting. Usa /start per ricominciare.")
		return
	}

	if text == ButtonBack {
		b.showSummary(ctx, chatID, state)
		return
	}

	recipient := strings.TrimSpace(text)
	if recipient == "" {
		b.sendError(chatID, "Inserisci una email destinatario")
		return
	}
	if !IsValidEmail(recipient) {
		b.sendError(chatID, "Indirizzo email non valido, riprova")
		return
	}

	if b.mailer == nil {
		b.sendError(chatID, "Invio email non configurato su questo bot")
		b.showSummary(ctx, chatID, state)
		return
	}

	limited, err := b.storage.CheckRateLimit(ctx, chatID, "report_email", b.cfg.ReportRateLimit, b.cfg.ReportRateWindow)
	if err != nil {
		b.logger.Error("Failed to check rate limit",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	if limited {
		b.sendError(chatID, "Troppi invii recenti, riprova più tardi")
		return
	}

	state.EmailRecipient = recipient
	if err := b.state.Save(ctx, chatID, state); err != nil {
		b.logger.Error("Failed to save meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	now := time.Now()
	body := report.Generate(state.Answers, state.OrderLines, catalog.Questions(), now)
	subject := report.Subject(state.Answers, catalog.Questions(), now)

	if err := b.mailer.Send(ctx, recipient, subject, body); err != nil {
		b.logger.Error("Failed to send report email",
			zap.Int64("chat_id", chatID),
			zap.String("recipient", recipient),
			zap.Error(err))
		b.sendError(chatID, "Invio email fallito, riprova più tardi")
		return
	}

	b.sendMessage(tgbotapi.NewMessage(chatID, "📧 Report inviato a "+recipient))
	b.showSummary(ctx, chatID, state)
}

// archiveMeeting persists the finished meeting, notifies the admins and, when
// configured, forwards the report to the CRM.
func (b *Bot) archiveMeeting(ctx context.Context, chatID int64, state MeetingState) {
	now := time.Now()
	company, referent := report.CompanyReferent(state.Answers, catalog.Questions())
	text := report.Generate(state.Answers, state.OrderLines, catalog.Questions(), now)

	meeting := storage.Meeting{
		ChatID:     chatID,
		Company:    company,
		Referent:   referent,
		Context:    state.Answers["context"],
		Report:     text,
		OrderTotal: report.GrandTotal(state.OrderLines),
		CreatedAt:  now,
	}

	meetingID, err := b.storage.SaveMeeting(ctx, meeting, state.OrderLines)
	if err != nil {
		b.logger.Error("Failed to archive meeting",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Errore nell'archiviazione del meeting, riprova più tardi")
		return
	}
	meeting.ID = meetingID

	b.sendMessage(tgbotapi.NewMessage(chatID, "💾 Meeting archiviato"))

	go b.notifyAdmins(context.WithoutCancel(ctx), meeting, state.OrderLines)

	if b.crm != nil {
		go func() {
			if err := b.crm.SubmitReport(context.WithoutCancel(ctx), meeting); err != nil {
				b.logger.Error("Failed to submit report to CRM",
					zap.Int64("meeting_id", meeting.ID),
					zap.Error(err))
			}
		}()
	}

	b.showSummary(ctx, chatID, state)
}
