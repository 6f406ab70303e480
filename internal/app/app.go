package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/KatrinTsesko/birthday-bot/internal/config"
	"github.com/KatrinTsesko/birthday-bot/internal/dispatch"
	"github.com/KatrinTsesko/birthday-bot/internal/domain"
	"github.com/KatrinTsesko/birthday-bot/internal/greeting"
	"github.com/KatrinTsesko/birthday-bot/internal/httpapi"
	"github.com/KatrinTsesko/birthday-bot/internal/roster"
	"github.com/KatrinTsesko/birthday-bot/internal/scheduler"
	"github.com/KatrinTsesko/birthday-bot/internal/store"
	"github.com/KatrinTsesko/birthday-bot/internal/telegram"
)

type App struct {
	cfg    config.Config
	log    *zap.Logger
	bot    *tgbotapi.BotAPI
	roster *roster.Store

	resolver domain.Resolver
	composer *greeting.Composer

	httpSrv *http.Server
	repo    store.Repo
	router  *telegram.Router
	sched   *scheduler.Scheduler
	webhook chan tgbotapi.Update
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	rs, err := roster.Open(cfg.BirthdaysFile, cfg.ExportFile, log)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}

	holidays, err := domain.NewHolidayCalendar(cfg.Holidays)
	if err != nil {
		return nil, fmt.Errorf("holidays: %w", err)
	}

	var gen greeting.Generator
	if cfg.GenerationEnabled() {
		gen = greeting.NewDeepSeekClient(cfg.DeepSeekURL, cfg.DeepSeekAPIKey, cfg.DeepSeekModel, cfg.GenerationTimeout)
	} else {
		log.Warn("DEEPSEEK_API_KEY not set, greetings will use templates")
	}

	a := &App{
		cfg:      cfg,
		log:      log,
		bot:      bot,
		roster:   rs,
		resolver: domain.Resolver{Holidays: holidays, Location: cfg.Location, CarryNonWorking: cfg.SkipNonWorkingDays},
		composer: greeting.NewComposer(gen, log),
	}
	if cfg.RunMode == config.RunModeWebhook {
		a.webhook = make(chan tgbotapi.Update, 64)
	}
	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting birthday-bot",
		zap.String("mode", a.cfg.RunMode),
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("tz", a.cfg.Location.String()),
		zap.String("notify_at", a.cfg.NotifyAt),
		zap.Int("birthdays", a.roster.Snapshot().Len()),
	)

	// Open SQLite and run migrations.
	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready", zap.String("path", a.cfg.DBPath))

	sender := telegram.NewSender(a.bot)
	d := dispatch.New(a.roster, a.resolver, a.composer, sender, a.repo, a.cfg.ChatID, a.log)

	a.router = telegram.NewRouter(a.bot, a.log, a.roster, d, a.repo, telegram.Info{
		ChatID:            a.cfg.ChatID,
		Location:          a.cfg.Location,
		NotifyAt:          a.cfg.NotifyAt,
		Holidays:          a.resolver.Holidays.Len(),
		SkipNonWorking:    a.cfg.SkipNonWorkingDays,
		GenerationEnabled: a.cfg.GenerationEnabled(),
		RunMode:           a.cfg.RunMode,
		ExportFile:        a.cfg.ExportFile,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	if a.cfg.ChatID != 0 {
		a.sched = scheduler.New(d, a.repo, a.resolver, scheduler.Options{
			AtMinutes:          a.cfg.NotifyAtM,
			SkipNonWorkingDays: a.cfg.SkipNonWorkingDays,
			DedupeDaily:        a.cfg.DedupeDaily,
		}, a.log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.sched.Run(ctx)
		}()
		a.log.Info("scheduler started", zap.Time("next_run", a.sched.NextRun()))
	} else {
		a.log.Warn("CHAT_ID not set, daily notifications disabled; use /getid to find it")
	}

	h := httpapi.NewHandler(a.roster, a.ready, a.webhook, a.log)
	a.httpSrv = &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(h),
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	updCh, err := a.updates()
	if err != nil {
		a.stopAll(stop, &wg)
		return err
	}

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.bot.StopReceivingUpdates()
			a.stopAll(stop, &wg)
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}

// updates registers or removes the webhook and returns the update source.
func (a *App) updates() (<-chan tgbotapi.Update, error) {
	if a.cfg.RunMode == config.RunModeWebhook {
		wh, err := tgbotapi.NewWebhook(a.cfg.WebhookURL)
		if err != nil {
			return nil, fmt.Errorf("webhook url: %w", err)
		}
		if _, err := a.bot.Request(wh); err != nil {
			return nil, fmt.Errorf("set webhook: %w", err)
		}
		a.log.Info("webhook registered", zap.String("url", a.cfg.WebhookURL))
		return a.webhook, nil
	}

	if _, err := a.bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		a.log.Warn("delete webhook failed", zap.Error(err))
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	return a.bot.GetUpdatesChan(u), nil
}

func (a *App) ready(ctx context.Context) error {
	if a.repo == nil {
		return errors.New("journal not open")
	}
	_, err := a.repo.LastRun(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// stopAll cancels the run context before waiting: the scheduler exits on ctx only.
func (a *App) stopAll(stop context.CancelFunc, wg *sync.WaitGroup) {
	stop()
	a.shutdown(wg)
}

func (a *App) shutdown(wg *sync.WaitGroup) {
	// Create a short-lived shutdown context and cancel it immediately after use.
	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := a.httpSrv.Shutdown(shCtx)
	cancel()
	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}

	wg.Wait()
	if err := a.roster.Sync(); err != nil {
		a.log.Warn("final roster sync failed", zap.Error(err))
	}
	if a.repo != nil {
		_ = a.repo.Close()
	}
}
