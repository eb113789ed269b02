package bot

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gorio76/meeting-notes-flow/internal/report"
	"github.com/Gorio76/meeting-notes-flow/internal/storage"
)

func (b *Bot) isAdmin(chatID int64) bool {
	for _, id := range b.cfg.Admin.IDs {
		if id == chatID {
			return true
		}
	}
	return false
}

func (b *Bot) handleAdminCommand(ctx context.Context, chatID int64, cmd string, args []string) {
	if !b.isAdmin(chatID) {
		b.sendError(chatID, "Comando riservato agli amministratori")
		return
	}

	switch cmd {
	case "export":
		if len(args) == 0 {
			b.handleExportAllMeetings(ctx, chatID)
			return
		}
		meetingID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			b.sendError(chatID, "ID meeting non valido")
			return
		}
		b.handleExportSingleMeeting(ctx, chatID, meetingID)

	case "stats":
		b.handleMeetingStats(ctx, chatID)

	default:
		b.sendError(chatID, "Comando amministratore sconosciuto")
	}
}

// handleMeetingStats shows archive statistics
func (b *Bot) handleMeetingStats(ctx context.Context, chatID int64) {
	stats, err := b.storage.GetMeetingStatistics(ctx)
	if err != nil {
		b.logger.Error("Failed to get meeting statistics", zap.Error(err))
		b.sendError(chatID, "Errore nel recupero delle statistiche")
		return
	}

	msgText := fmt.Sprintf(
		"📊 *Statistiche meeting*\n\n"+
			"📌 Meeting archiviati: %d\n"+
			"💰 Totale ordinato: %s\n"+
			"📅 Ultima settimana: %d (%s)\n"+
			"📅 Ultimo mese: %d (%s)",
		stats.TotalMeetings,
		FormatEuro(stats.TotalOrdered),
		stats.WeekMeetings, FormatEuro(stats.WeekOrdered),
		stats.MonthMeetings, FormatEuro(stats.MonthOrdered),
	)

	msg := tgbotapi.NewMessage(chatID, msgText)
	msg.ParseMode = "Markdown"
	b.sendMessage(msg)
}

func (b *Bot) handleExportAllMeetings(ctx context.Context, chatID int64) {
	filename := fmt.Sprintf("meetings_%s", time.Now().Format("20060102"))
	filepath, err := b.storage.ExportAllMeetingsToExcel(ctx, filename)
	if err != nil {
		b.logger.Error("Failed to export all meetings", zap.Error(err))
		b.sendError(chatID, "Esportazione fallita")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filepath))
	doc.Caption = "📊 Archivio meeting"

	if _, err := b.bot.Send(doc); err != nil {
		b.logger.Error("Failed to send Excel file", zap.Error(err))
		b.sendError(chatID, "Invio del file fallito")
	}
}

// linesFromArchive rebuilds order lines from their archived form so the
// export can reuse the pricing engine.
func linesFromArchive(stored []storage.MeetingLine) []report.OrderLine {
	lines := make([]report.OrderLine, 0, len(stored))
	for _, l := range stored {
		id, err := uuid.Parse(l.ID)
		if err != nil {
			id = uuid.New()
		}
		lines = append(lines, report.OrderLine{
			ID:          id,
			Code:        l.Code,
			Description: l.Description,
			GrossPrice:  l.GrossPrice,
			Discounts:   [4]float64{l.Discount1, l.Discount2, l.Discount3, l.Discount4},
			Quantity:    l.Quantity,
		})
	}
	return lines
}

func (b *Bot) handleExportSingleMeeting(ctx context.Context, chatID int64, meetingID int64) {
	meeting, err := b.storage.GetMeetingByID(ctx, meetingID)
	if err != nil {
		b.logger.Error("Failed to get meeting",
			zap.Int64("meeting_id", meetingID),
			zap.Error(err))
		b.sendError(chatID, "Meeting non trovato")
		return
	}

	stored, err := b.storage.GetMeetingLines(ctx, meetingID)
	if err != nil {
		b.logger.Error("Failed to get meeting lines",
			zap.Int64("meeting_id", meetingID),
			zap.Error(err))
		b.sendError(chatID, "Errore nel recupero degli articoli")
		return
	}

	filepath, err := b.storage.ExportMeetingToExcel(ctx, *meeting, linesFromArchive(stored))
	if err != nil {
		b.logger.Error("Failed to export meeting",
			zap.Int64("meeting_id", meetingID),
			zap.Error(err))
		b.sendError(chatID, "Esportazione fallita")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filepath))
	doc.Caption = fmt.Sprintf("📊 Meeting #%d", meetingID)

	if _, err := b.bot.Send(doc); err != nil {
		b.logger.Error("Failed to send Excel file", zap.Error(err))
		b.sendError(chatID, "Invio del file fallito")
	}
}
