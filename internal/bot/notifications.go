package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Gorio76/meeting-notes-flow/internal/report"
	"github.com/Gorio76/meeting-notes-flow/internal/storage"
)

// notifyAdmins announces an archived meeting on the admin channel and sends
// each admin the Excel export of the meeting.
func (b *Bot) notifyAdmins(ctx context.Context, meeting storage.Meeting, lines []report.OrderLine) {
	b.notifyChannel(ctx, meeting)

	if len(b.cfg.Admin.IDs) == 0 {
		return
	}

	filepath, err := b.storage.ExportMeetingToExcel(ctx, meeting, lines)
	if err != nil {
		b.logger.Error("Failed to create Excel export for meeting",
			zap.Int64("meeting_id", meeting.ID),
			zap.Error(err))
		return
	}

	for _, adminID := range b.cfg.Admin.IDs {
		if adminID == 0 {
			continue
		}

		msg := tgbotapi.NewMessage(adminID, formatMeetingNotification(meeting))
		if _, err := b.bot.Send(msg); err != nil {
			b.logger.Error("Failed to send meeting notification",
				zap.Int64("chat_id", adminID),
				zap.Error(err))
			continue
		}

		doc := tgbotapi.NewDocument(adminID, tgbotapi.FilePath(filepath))
		doc.Caption = fmt.Sprintf("📊 Meeting #%d", meeting.ID)
		if _, err := b.bot.Send(doc); err != nil {
			b.logger.Error("Failed to send Excel export to admin",
				zap.Int64("meeting_id", meeting.ID),
				zap.Int64("chat_id", adminID),
				zap.Error(err))
		}
	}
}

func (b *Bot) notifyChannel(ctx context.Context, meeting storage.Meeting) {
	if b.cfg.Admin.ChannelID == 0 {
		b.logger.Warn("Channel notifications disabled - no channel ID configured")
		return
	}

	company := meeting.Company
	if company == "" {
		company = "cliente non indicato"
	}

	text := fmt.Sprintf(
		"🗒 Nuovo meeting #%d\nCliente: %s\nReferente: %s\nTotale ordine: %s\nData: %s",
		meeting.ID,
		company,
		meeting.Referent,
		FormatEuro(meeting.OrderTotal),
		meeting.CreatedAt.Format("02/01/2006 15:04"),
	)

	msg := tgbotapi.NewMessage(b.cfg.Admin.ChannelID, text)
	if _, err := b.bot.Send(msg); err != nil {
		b.logger.Error("Failed to send channel notification",
			zap.Int64("meeting_id", meeting.ID),
			zap.Error(err))
	}
}

func formatMeetingNotification(meeting storage.Meeting) string {
	return fmt.Sprintf(
		"🗒 Meeting archiviato #%d\n\n"+
			"Cliente: %s\n"+
			"Referente: %s\n"+
			"Contesto: %s\n"+
			"Totale ordine: %s\n"+
			"Data: %s\n"+
			"──────────────────\n%s",
		meeting.ID,
		meeting.Company,
		meeting.Referent,
		meeting.Context,
		FormatEuro(meeting.OrderTotal),
		meeting.CreatedAt.Format("02/01/2006 15:04"),
		meeting.Report,
	)
}
