package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Gorio76/meeting-notes-flow/internal/config"
	"github.com/Gorio76/meeting-notes-flow/internal/storage"
	"github.com/Gorio76/meeting-notes-flow/pkg/api"
	"github.com/Gorio76/meeting-notes-flow/pkg/mailer"
	"github.com/Gorio76/meeting-notes-flow/pkg/redis"
)

type Bot struct {
	bot      *tgbotapi.BotAPI
	logger   *zap.Logger
	state    *StateStorage
	storage  *storage.PostgresStorage
	mailer   *mailer.Mailer
	crm      *api.Client
	cfg      *config.Config
	handlers map[string]func(context.Context, int64, string)
}

func New(
	token string,
	redisClient *redis.Client,
	pgStorage *storage.PostgresStorage,
	reportMailer *mailer.Mailer,
	crmClient *api.Client,
	logger *zap.Logger,
	cfg *config.Config,
) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	b := &Bot{
		bot:     botAPI,
		logger:  logger,
		state:   NewStateStorage(redisClient),
		storage: pgStorage,
		mailer:  reportMailer,
		crm:     crmClient,
		cfg:     cfg,
	}

	b.registerHandlers()
	return b, nil
}

func (b *Bot) registerHandlers() {
	b.handlers = map[string]func(context.Context, int64, string){
		StepQuestion:        b.handleQuestionInput,
		StepCompanyName:     b.handleCompanyName,
		StepReferentName:    b.handleReferentName,
		StepOrderMenu:       b.handleOrderMenu,
		StepOrderAdd:        b.handleOrderAdd,
		StepOrderEditSelect: b.handleOrderEditSelect,
		StepOrderEditInput:  b.handleOrderEditInput,
		StepOrderRemove:     b.handleOrderRemove,
		StepSummary:         b.handleSummary,
		StepEmailRecipient:  b.handleEmailRecipient,
	}
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			return nil

		case update := <-updates:
			if update.Message != nil {
				b.processMessage(ctx, update.Message)
			}
		}
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, msg.Command(), strings.Fields(msg.CommandArguments()))
		return
	}

	state, err := b.state.Get(ctx, chatID)
	if err != nil {
		b.logger.Debug("No active meeting for chat",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Nessun meeting in corso. Usa /start per iniziare.")
		return
	}

	if handler, exists := b.handlers[state.Step]; exists {
		handler(ctx, chatID, msg.Text)
	} else {
		b.handleDefault(ctx, chatID)
	}
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.bot.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("text", msg.Text),
			zap.Error(err))
	}
}

func (b *Bot) sendError(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "❌ "+text)
	b.sendMessage(msg)
}
