package config

import (
	"os"
	"reflect"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"triviaduel-backend/api"
)

// GameConf holds the game-loop tunables enumerated by the service's
// configuration surface: the overall game clock, per-difficulty question
// timeouts and damage, and the rank delta awarded for a ranked win.
type GameConf struct {
	MaxDuration time.Duration `env:"MAX_DURATION_SECONDS" envDefault:"300s"`
	RankGain    int           `env:"RANK_GAIN"            envDefault:"25"`

	QuestionEasyDuration   time.Duration `env:"QUESTION_EASY_DURATION_SECONDS"   envDefault:"20s"`
	QuestionMediumDuration time.Duration `env:"QUESTION_MEDIUM_DURATION_SECONDS" envDefault:"15s"`
	QuestionHardDuration   time.Duration `env:"QUESTION_HARD_DURATION_SECONDS"   envDefault:"10s"`

	QuestionEasyDamage   int `env:"QUESTION_EASY_DAMAGE"   envDefault:"10"`
	QuestionMediumDamage int `env:"QUESTION_MEDIUM_DAMAGE" envDefault:"15"`
	QuestionHardDamage   int `env:"QUESTION_HARD_DAMAGE"   envDefault:"20"`
}

func (g GameConf) QuestionMaxDuration() map[api.Difficulty]time.Duration {
	return map[api.Difficulty]time.Duration{
		api.DifficultyEasy:   g.QuestionEasyDuration,
		api.DifficultyMedium: g.QuestionMediumDuration,
		api.DifficultyHard:   g.QuestionHardDuration,
	}
}

func (g GameConf) QuestionDamage() map[api.Difficulty]int {
	return map[api.Difficulty]int{
		api.DifficultyEasy:   g.QuestionEasyDamage,
		api.DifficultyMedium: g.QuestionMediumDamage,
		api.DifficultyHard:   g.QuestionHardDamage,
	}
}

// TriviaConf configures the external trivia question provider.
type TriviaConf struct {
	TokenURL       string `env:"TOKEN_URL"       envDefault:"https://opentdb.com/api_token.php"`
	QuestionsURL   string `env:"QUESTIONS_URL"   envDefault:"https://opentdb.com/api.php"`
	QuestionAmount int    `env:"QUESTION_AMOUNT" envDefault:"10"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s"`
}

// LobbyConf holds the lobby lifecycle tunables: the pre-join expiry and the
// websocket frame size limit.
type LobbyConf struct {
	ExpireTimeout      time.Duration `env:"EXPIRE_TIMEOUT"       envDefault:"2m"`
	WebsocketReadLimit int64         `env:"WEBSOCKET_READ_LIMIT" envDefault:"512"`
}

type CORSConf struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*"`
}

// RedisConf configures the connection to the lobby store and pub/sub
// fabric's Redis instance.
type RedisConf struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"       envDefault:"0"`
}

// SQLConf configures the relational store of users and completed games.
type SQLConf struct {
	DSN string `env:"DSN" envDefault:"triviaduel.db"`
}

type Config struct {
	ListenAddr        string     `env:"LISTEN_ADDR"         envDefault:":8080"`
	JWTSecret         []byte     `env:"JWT_SECRET"`
	CORS              CORSConf   `envPrefix:"CORS_"`
	Lobby             LobbyConf  `envPrefix:"LOBBY_"`
	Game              GameConf   `envPrefix:"GAME_"`
	Trivia            TriviaConf `envPrefix:"TRIVIA_API_"`
	Redis             RedisConf  `envPrefix:"REDIS_"`
	SQL               SQLConf    `envPrefix:"SQL_"`
	RequestsRateLimit int        `env:"REQUESTS_RATE_LIMIT" envDefault:"30"`
}

func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		if err = godotenv.Load(path); err != nil {
			return Config{}, err
		}
	}

	cfg := Config{}
	err := env.ParseWithOptions(&cfg, env.Options{
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf([]byte{0}): func(v string) (interface{}, error) {
				return []byte(v), nil
			},
		},
	})

	return cfg, err
}
