package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hrygo/bookwise/internal/profile"
	"github.com/hrygo/bookwise/plugin/ai"
	"github.com/hrygo/bookwise/plugin/ai/agent"
	"github.com/hrygo/bookwise/plugin/calendar"
	"github.com/hrygo/bookwise/server"
	"github.com/hrygo/bookwise/server/auth"
	"github.com/hrygo/bookwise/store"
)

const greetingBanner = `Bookwise - conversational calendar booking assistant`

var (
	instanceProfile *profile.Profile

	rootCmd = &cobra.Command{
		Use:   "bookwise",
		Short: greetingBanner,
		RunE: func(_ *cobra.Command, _ []string) error {
			instanceProfile = &profile.Profile{
				Mode:     viper.GetString("mode"),
				Addr:     viper.GetString("addr"),
				Port:     viper.GetInt("port"),
				Data:     viper.GetString("data"),
				Timezone: viper.GetString("timezone"),
			}
			instanceProfile.FromEnv()
			if err := instanceProfile.Validate(); err != nil {
				return err
			}
			return run(instanceProfile)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8080, "port of the server")
	rootCmd.PersistentFlags().String("data", "", "data directory for credential persistence (empty = memory only)")
	rootCmd.PersistentFlags().String("timezone", profile.DefaultTimezone, "fixed local timezone (IANA name)")

	for _, flag := range []string{"mode", "addr", "port", "data", "timezone"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("bookwise")
	viper.AutomaticEnv()
}

func run(p *profile.Profile) error {
	logger := newLogger(p)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Credential persistence is optional; without a data directory the
	// token store is memory only.
	var persister auth.Persister
	if path := p.CredentialDBPath(); path != "" {
		db, err := store.NewDB(path)
		if err != nil {
			return err
		}
		defer db.Close()
		persister = db
	}

	tokens := auth.NewTokenStore(persister)
	if err := tokens.Load(ctx); err != nil {
		return err
	}

	flow := auth.NewFlow(p.GoogleClientID, p.GoogleClientSecret, p.GoogleRedirectURI)
	calendarClient := calendar.NewGoogleClient(flow.Config(), p.Timezone)

	extractor, err := ai.NewExtractor(&ai.ExtractorConfig{
		APIKey:  p.LLMAPIKey,
		BaseURL: p.LLMBaseURL,
		Model:   p.LLMModel,
	})
	if err != nil {
		return err
	}

	bookingAgent := agent.NewBookingAgent(extractor, calendarClient, p.Location())
	srv := server.NewServer(p, bookingAgent, flow, tokens, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown was not clean", "error", err)
	}
	logger.Info("server stopped")
	return nil
}

func newLogger(p *profile.Profile) *slog.Logger {
	level := slog.LevelInfo
	if p.IsDev() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
