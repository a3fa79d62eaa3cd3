package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"triviaduel-backend/internal/auth"
	"triviaduel-backend/internal/config"
	"triviaduel-backend/internal/handlers"
	mws "triviaduel-backend/internal/middlewares"
	"triviaduel-backend/internal/quiz"
	"triviaduel-backend/internal/rate"
	"triviaduel-backend/internal/store"
	"triviaduel-backend/internal/triviaapi"

	"github.com/coder/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	sloghttp "github.com/samber/slog-http"
)

func init() {
	logger := slog.New(handlers.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, nil),
		Keys: []any{
			mws.RequestIDKey,
			quiz.LogLobbyKey,
			quiz.LogUserKey,
		},
	})
	slog.SetDefault(logger)
}

func main() {
	cfg, err := config.LoadConfig("") // TODO: config flags
	if err != nil {
		log.Fatal(err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	sqlStore, err := store.OpenSQLStore(cfg.SQL.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer sqlStore.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := sqlStore.Migrate(migrateCtx); err != nil {
		cancel()
		log.Fatal(err)
	}
	cancel()

	var (
		lobbies = store.NewLobbyStore[*quiz.Lobby](rdb)
		pubsub  = store.NewPubSub(rdb)
		issuer  = auth.NewIssuer(cfg.JWTSecret)
		trivia  = triviaapi.NewClient(cfg.Trivia.TokenURL, cfg.Trivia.QuestionsURL, cfg.Trivia.QuestionAmount, cfg.Trivia.RequestTimeout)

		engine = quiz.NewEngine(quiz.Config{
			GameMaxDuration:     cfg.Game.MaxDuration,
			QuestionMaxDuration: cfg.Game.QuestionMaxDuration(),
			QuestionDamage:      cfg.Game.QuestionDamage(),
			RankGain:            cfg.Game.RankGain,
			QuestionAmount:      cfg.Trivia.QuestionAmount,
		}, lobbies, pubsub, sqlStore, trivia, issuer)

		acceptOpts = websocket.AcceptOptions{
			OriginPatterns: cfg.CORS.AllowedOrigins,
		}
		corsOpts = cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
		}

		defaultMws = []mws.Middleware{
			mws.RequestID,
			cors.New(corsOpts).Handler,
			sloghttp.NewWithConfig(slog.Default(), sloghttp.Config{
				WithUserAgent: true,
				WithRequestID: true,
			}),
		}

		createLobbyHandler = handlers.CreateLobbyHandler(cfg, lobbies, issuer)
		joinLobbyHandler    = handlers.JoinLobbyHandler(lobbies, issuer)
		listLobbiesHandler  = handlers.ListLobbiesHandler(lobbies)
		lobbyWSHandler      = handlers.LobbyWebsocketHandler(cfg, engine, acceptOpts)
	)

	if cfg.RequestsRateLimit > 0 {
		limiter := rate.NewLimiter(time.Second, cfg.RequestsRateLimit)
		defaultMws = append(defaultMws, handlers.RateLimitMiddleware(limiter))
	}

	mux := http.NewServeMux()
	mux.Handle("POST /api/trivia/lobbies/", mws.Chain(createLobbyHandler, defaultMws...))
	mux.Handle("GET /api/trivia/lobbies/", mws.Chain(listLobbiesHandler, defaultMws...))
	mux.Handle("POST /api/trivia/lobbies/{name}/join/", mws.Chain(joinLobbyHandler, defaultMws...))
	mux.Handle("GET /ws/trivia/lobbies/{name}", mws.Chain(lobbyWSHandler, defaultMws...))

	srv := http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	slog.Info("starting server", slog.String("addr", srv.Addr))

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
