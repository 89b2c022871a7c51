package cli

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zmanna/rapid-math/internal/app"
	"github.com/zmanna/rapid-math/internal/config"
	"github.com/zmanna/rapid-math/internal/game"
	"github.com/zmanna/rapid-math/internal/infra/memory"
	redisstore "github.com/zmanna/rapid-math/internal/infra/redis"
	transport "github.com/zmanna/rapid-math/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	rules := rulesFromConfig(cfg)

	var store app.RoundRepository = memory.NewRoundStore(rules)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = redisstore.NewRoundStore(client, rules, config.Duration(cfg.Redis.TTL, 10*time.Minute))
	}

	service := app.NewRoundService(store)
	wsHandler := transport.NewWSHandler(service, config.Duration(cfg.Round.TickInterval, 100*time.Millisecond))

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("starting rapid-math server on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// rulesFromConfig overlays configured durations on the defaults. Unset or
// malformed values keep the standard 30s round.
func rulesFromConfig(cfg config.Config) game.Rules {
	rules := game.DefaultRules()
	rules.InitialTime = config.Duration(cfg.Round.InitialTime, rules.InitialTime)
	rules.CorrectBonus = config.Duration(cfg.Round.CorrectBonus, rules.CorrectBonus)
	rules.WrongPenalty = config.Duration(cfg.Round.WrongPenalty, rules.WrongPenalty)
	return rules
}
