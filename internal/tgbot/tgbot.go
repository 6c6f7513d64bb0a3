package tgbot

import (
	"context"
	"log/slog"

	"github.com/KotFed0t/stocknity/config"
	"github.com/KotFed0t/stocknity/internal/converter/telebotConverter"
	"github.com/KotFed0t/stocknity/internal/model"
	"github.com/KotFed0t/stocknity/internal/transport/telegram"
	customMW "github.com/KotFed0t/stocknity/internal/transport/telegram/middleware"
	"github.com/KotFed0t/stocknity/utils"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

type TGBot struct {
	bot  *tele.Bot
	ctrl *telegram.Controller
	auth telegram.AuthService
}

func New(cfg *config.Config, ctrl *telegram.Controller, auth telegram.AuthService) (*TGBot, error) {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		return nil, err
	}

	return &TGBot{bot: b, ctrl: ctrl, auth: auth}, nil
}

func (b *TGBot) Start() {
	b.bot.Use(middleware.Recover(), customMW.Logger())

	b.setupRoutes()

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes() {
	b.bot.Handle(tele.OnText, func(c tele.Context) error {
		// the login dialog step decides who handles plain text
		rqID, _ := c.Get("rqID").(string)
		ctx := utils.CtxWithRqID(context.Background(), rqID)

		action, pendingEmail, err := b.auth.Dialog(ctx, telegram.SessionKey(c.Chat().ID))
		if err != nil {
			slog.Error("got error from auth.Dialog", slog.String("rqID", rqID), slog.String("err", err.Error()))
			return c.Send("Something went wrong, please try again later.")
		}

		switch action {
		case model.ExpectingEmail:
			return b.ctrl.ProcessEmail(c)
		case model.ExpectingPassword:
			return b.ctrl.ProcessPassword(c, pendingEmail)
		default:
			slog.Debug("text outside of a dialog", slog.String("rqID", rqID), slog.Any("action", action))
			return b.ctrl.Unknown(c)
		}
	})

	b.bot.Handle("/start", b.ctrl.Start)
	b.bot.Handle("/login", b.ctrl.InitLogin)
	b.bot.Handle("/logout", b.ctrl.Logout)
	b.bot.Handle("/screener", b.ctrl.Screener)
	b.bot.Handle("/sentiment", b.ctrl.Sentiment)
	b.bot.Handle("/recommendations", b.ctrl.Recommendations)
	b.bot.Handle("/portfolios", b.ctrl.Portfolios)
	b.bot.Handle("/cache", b.ctrl.Cache)
	b.bot.Handle("/export", b.ctrl.Export)

	b.bot.Handle(&tele.Btn{Unique: telebotConverter.SentimentBtn}, b.ctrl.SentimentCallback)
}
