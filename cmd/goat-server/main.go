package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tjwilson90/goat/bot"
	"github.com/tjwilson90/goat/goat"
	"github.com/tjwilson90/goat/server"
)

var cli struct {
	Addr            string        `default:"127.0.0.1:9402" help:"Address to listen on."`
	PingInterval    time.Duration `default:"20s" help:"How often to heartbeat subscribers."`
	SweepInterval   time.Duration `default:"10m" help:"How often to expire old state."`
	MaxGameAge      time.Duration `default:"18h" help:"Drop any game idle this long."`
	CompleteGameAge time.Duration `default:"30m" help:"Drop unstarted or finished games idle this long."`
	UserIdleAge     time.Duration `default:"5m" help:"Drop unreferenced users idle this long."`
	Bots            int           `default:"8" help:"How many resident bots to run."`
	Debug           bool          `help:"Enable debug logging."`
}

var botRoster = []struct {
	name     string
	strategy bot.Strategy
}{
	{"Alice (bot)", bot.PlayTop{}},
	{"Bob (bot)", bot.Adapt{}},
	{"Carla (bot)", bot.Cover{}},
	{"Dimitri (bot)", bot.Duck{}},
	{"Eric (bot)", bot.PlayTop{}},
	{"Felicia (bot)", bot.Adapt{}},
	{"George (bot)", bot.Cover{}},
	{"Hannah (bot)", bot.Duck{}},
}

func main() {
	kong.Parse(&cli,
		kong.Name("goat-server"),
		kong.Description("Authoritative Goat game server."))

	level := zerolog.InfoLevel
	if cli.Debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := quartz.NewReal()
	srv := server.New(clock, log)
	handler := server.NewHTTPHandler(srv, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	handler.RegisterRoutes(mux)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return clock.TickerFunc(ctx, cli.PingInterval, func() error {
			srv.Ping()
			return nil
		}, "ping").Wait()
	})
	group.Go(func() error {
		return clock.TickerFunc(ctx, cli.SweepInterval, func() error {
			srv.ForgetOldState(cli.MaxGameAge, cli.CompleteGameAge, cli.UserIdleAge)
			return nil
		}, "sweep").Wait()
	})

	for i := 0; i < cli.Bots && i < len(botRoster); i++ {
		seat := botRoster[i]
		group.Go(func() error {
			userId := goat.NewUserId()
			sub := srv.Subscribe(userId, seat.name)
			defer srv.Unsubscribe(sub)
			b := bot.New(userId, sub.Chan(), srv.ApplyAction, seat.strategy, thinkDelay, log)
			err := b.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	httpServer := &http.Server{Addr: cli.Addr, Handler: mux}
	group.Go(func() error {
		log.Info().Str("addr", cli.Addr).Msg("listening")
		err := httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// thinkDelay paces bot actions so play feels natural: instant
// acknowledgements, a beat for war plays, longer for rummy decisions.
func thinkDelay(action goat.Action) time.Duration {
	switch action.(type) {
	case goat.FinishTrickAction:
		return 0
	case goat.PlayRunAction, goat.PickUpAction:
		return 700 * time.Millisecond
	default:
		return 250 * time.Millisecond
	}
}
