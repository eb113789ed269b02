package bot

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

// BOT KEYBOARDS

const (
	ButtonSkip    = "⏭ Salta"
	ButtonCancel  = "❌ Annulla"
	ButtonBack    = "↩️ Indietro"
	ButtonDone    = "✅ Avanti"
	ButtonAdd     = "➕ Aggiungi articolo"
	ButtonEdit    = "✏️ Modifica articolo"
	ButtonRemove  = "🗑 Rimuovi articolo"
	ButtonReport  = "📋 Report"
	ButtonEmail   = "📧 Invia email"
	ButtonArchive = "💾 Archivia"
	ButtonRestart = "🔄 Nuovo meeting"
)

func (b *Bot) createQuestionKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonSkip),
			tgbotapi.NewKeyboardButton(ButtonCancel),
		),
	)
}

func (b *Bot) createOrderMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonAdd),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonEdit),
			tgbotapi.NewKeyboardButton(ButtonRemove),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonDone),
		),
	)
}

func (b *Bot) createBackKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonBack),
		),
	)
}

func (b *Bot) createSummaryKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonReport),
			tgbotapi.NewKeyboardButton(ButtonEmail),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonArchive),
			tgbotapi.NewKeyboardButton(ButtonRestart),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(ButtonBack),
		),
	)
}
