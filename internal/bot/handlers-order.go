package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Gorio76/meeting-notes-flow/internal/report"
)

const orderLineHint = "Inserisci l'articolo su una riga:\n\n" +
	"codice; descrizione; lordo; sconti; quantità\n\n" +
	"Esempio: ART-12; Licenza annuale; 1200; 10 5; 2\n" +
	"Gli sconti (fino a 4, separati da spazio) e la quantità sono opzionali."

func (b *Bot) showOrderMenu(ctx context.Context, chatID int64, state MeetingState) {
	text := "Ordine / Preventivo\n\n" + FormatOrderLines(state.OrderLines)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = b.createOrderMenuKeyboard()
	b.sendMessage(msg)
	b.setStep(ctx, chatID, StepOrderMenu)
}

func (b *Bot) handleOrderMenu(ctx context.Context, chatID int64, text string) {
	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Errore nel recupero del meeting. Usa /start per ricominciare.")
		return
	}

	switch text {
	case ButtonAdd:
		msg := tgbotapi.NewMessage(chatID, orderLineHint)
		msg.ReplyMarkup = b.createBackKeyboard()
		b.sendMessage(msg)
		b.setStep(ctx, chatID, StepOrderAdd)

	case ButtonEdit:
		if len(state.OrderLines) == 0 {
			b.sendError(chatID, "Nessun articolo da modificare")
			return
		}
		msg := tgbotapi.NewMessage(chatID, "Numero dell'articolo da modificare:\n\n"+FormatOrderLines(state.OrderLines))
		msg.ReplyMarkup = b.createBackKeyboard()
		b.sendMessage(msg)
		b.setStep(ctx, chatID, StepOrderEditSelect)

	case ButtonRemove:
		if len(state.OrderLines) == 0 {
			b.sendError(chatID, "Nessun articolo da rimuovere")
			return
		}
		msg := tgbotapi.NewMessage(chatID, "Numero dell'articolo da rimuovere:\n\n"+FormatOrderLines(state.OrderLines))
		msg.ReplyMarkup = b.createBackKeyboard()
		b.sendMessage(msg)
		b.setStep(ctx, chatID, StepOrderRemove)

	case ButtonDone:
		b.advance(ctx, chatID)

	default:
		b.sendError(chatID, "Usa i pulsanti del menu ordine")
	}
}

func (b *Bot) handleOrderAdd(ctx context.Context, chatID int64, text string) {
	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Errore nel recupero del meeting. Usa /start per ricominciare.")
		return
	}

	if text == ButtonBack {
		b.showOrderMenu(ctx, chatID, state)
		return
	}

	line, err := ParseOrderLine(text)
	if err != nil {
		b.sendError(chatID, "Formato non valido. "+orderLineHint)
		return
	}

	if err := b.state.AddOrderLine(ctx, chatID, line); err != nil {
		b.logger.Error("Failed to add order line",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Errore nel salvataggio dell'articolo")
		return
	}

	net, total := line.Compute()
	b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Articolo aggiunto: %s\nNetto unitario: %s\nTotale riga: %s",
		line.Code, FormatEuro(net), FormatEuro(total))))

	state, err = b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to reload meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return
	}
	b.showOrderMenu(ctx, chatID, state)
}

func (b *Bot) handleOrderEditSelect(ctx context.Context, chatID int64, text string) {
	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Errore nel recupero del meeting. Usa /start per ricominciare.")
		return
	}

	if text == ButtonBack {
		b.showOrderMenu(ctx, chatID, state)
		return
	}

	line, ok := lineByNumber(state.OrderLines, text)
	if !ok {
		b.sendError(chatID, "Numero articolo non valido")
		return
	}

	state.EditLineID = line.ID.String()
	state.Step = StepOrderEditInput
	if err := b.state.Save(ctx, chatID, state); err != nil {
		b.logger.Error("Failed to save meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return
	}

	current := fmt.Sprintf("%s; %s; %s; %s; %s",
		line.Code, line.Description,
		strconv.FormatFloat(line.GrossPrice, 'f', -1, 64),
		formatDiscounts(line.Discounts),
		strconv.FormatFloat(line.Quantity, 'f', -1, 64))

	msg := tgbotapi.NewMessage(chatID, "Reinserisci l'articolo completo (sostituzione integrale).\nValore attuale:\n\n"+current)
	msg.ReplyMarkup = b.createBackKeyboard()
	b.sendMessage(msg)
}

func (b *Bot) handleOrderEditInput(ctx context.Context, chatID int64, text string) {
	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Errore nel recupero del meeting. Usa /start per ricominciare.")
		return
	}

	if text == ButtonBack {
		state.EditLineID = ""
		if err := b.state.Save(ctx, chatID, state); err != nil {
			b.logger.Error("Failed to save meeting state",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
		}
		b.showOrderMenu(ctx, chatID, state)
		return
	}

	id, err := uuid.Parse(state.EditLineID)
	if err != nil {
		b.logger.Error("Invalid edit line id in state",
			zap.Int64("chat_id", chatID),
			zap.String("edit_line_id", state.EditLineID),
			zap.Error(err))
		b.showOrderMenu(ctx, chatID, state)
		return
	}

	replacement, err := ParseOrderLine(text)
	if err != nil {
		b.sendError(chatID, "Formato non valido. "+orderLineHint)
		return
	}

	if err := b.state.ReplaceOrderLine(ctx, chatID, id, replacement); err != nil {
		b.logger.Error("Failed to replace order line",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Errore nella modifica dell'articolo")
		return
	}

	state, err = b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to reload meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return
	}
	state.EditLineID = ""
	if err := b.state.Save(ctx, chatID, state); err != nil {
		b.logger.Error("Failed to save meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	b.showOrderMenu(ctx, chatID, state)
}

func (b *Bot) handleOrderRemove(ctx context.Context, chatID int64, text string) {
	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Errore nel recupero del meeting. Usa /start per ricominciare.")
		return
	}

	if text == ButtonBack {
		b.showOrderMenu(ctx, chatID, state)
		return
	}

	line, ok := lineByNumber(state.OrderLines, text)
	if !ok {
		b.sendError(chatID, "Numero articolo non valido")
		return
	}

	if err := b.state.RemoveOrderLine(ctx, chatID, line.ID); err != nil {
		b.logger.Error("Failed to remove order line",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Errore nella rimozione dell'articolo")
		return
	}

	state, err = b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to reload meeting state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		return
	}
	b.showOrderMenu(ctx, chatID, state)
}

func lineByNumber(lines []report.OrderLine, text string) (report.OrderLine, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 || n > len(lines) {
		return report.OrderLine{}, false
	}
	return lines[n-1], true
}

func formatDiscounts(d [4]float64) string {
	parts := make([]string, len(d))
	for i, v := range d {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, " ")
}
