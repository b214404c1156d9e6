package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendScylla   = "scylla"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"

	devJWTSecret = "super_secret"
)

type ScyllaConfig struct {
	Hosts            []string
	ProductsKeyspace string
	ProductsRole     string
	ProductsPassword string
	UsersKeyspace    string
	UsersRole        string
	UsersPassword    string
	SSLEnabled       bool
	CACertPath       string
}

type ElasticConfig struct {
	URL      string
	User     string
	Password string
	Index    string
}

type Config struct {
	Port        string
	GinMode     string
	LogLevel    string
	LogFormat   string
	JWTSecret   string
	CORSOrigins []string

	CatalogBackend  string
	CatalogSeed     bool
	CartBackend     string
	WishlistBackend string

	RedisHost     string
	RedisPassword string
	RedisDB       int

	Scylla  ScyllaConfig
	Elastic ElasticConfig

	MongoURI      string
	MongoDatabase string
	PostgresDSN   string

	SearchDefaultLimit int
	SearchMaxLimit     int
	CartRateLimit      int
	SearchRateLimit    int
	RateLimitWindow    time.Duration
}

// Load charge le .env s'il existe puis construit la configuration depuis l'environnement
func Load(log *logrus.Logger) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		log.Info("✅ Fichier .env chargé avec succès")
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func FromEnv() *Config {
	return &Config{
		Port:        getenv("PORT", "8080"),
		GinMode:     getenv("GIN_MODE", "debug"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		LogFormat:   getenv("LOG_FORMAT", "json"),
		JWTSecret:   getenv("JWT_SECRET", devJWTSecret),
		CORSOrigins: splitCSV(getenv("CORS_ORIGINS", "*")),

		CatalogBackend:  strings.ToLower(getenv("CATALOG_BACKEND", BackendMemory)),
		CatalogSeed:     getbool("CATALOG_SEED", true),
		CartBackend:     strings.ToLower(getenv("CART_BACKEND", BackendMemory)),
		WishlistBackend: strings.ToLower(getenv("WISHLIST_BACKEND", BackendMemory)),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getint("REDIS_DB", 0),

		Scylla: ScyllaConfig{
			Hosts:            splitCSV(os.Getenv("SCYLLA_HOSTS")),
			ProductsKeyspace: os.Getenv("SCYLLA_KS_PRODUCTS_KEYSPACE"),
			ProductsRole:     os.Getenv("SCYLLA_KS_PRODUCTS_ROLE"),
			ProductsPassword: os.Getenv("SCYLLA_KS_PRODUCTS_PASSWORD"),
			UsersKeyspace:    os.Getenv("SCYLLA_KS_USERS_KEYSPACE"),
			UsersRole:        os.Getenv("SCYLLA_KS_USERS_ROLE"),
			UsersPassword:    os.Getenv("SCYLLA_KS_USERS_PASSWORD"),
			SSLEnabled:       getbool("SCYLLA_SSL_ENABLED", false),
			CACertPath:       os.Getenv("SCYLLA_SSL_CA_PATH"),
		},
		Elastic: ElasticConfig{
			URL:      os.Getenv("ELASTIC_URL"),
			User:     os.Getenv("ELASTIC_USER"),
			Password: os.Getenv("ELASTIC_PASSWORD"),
			Index:    getenv("ELASTIC_INDEX", "products"),
		},

		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getenv("MONGO_DATABASE", "cedra"),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),

		SearchDefaultLimit: getint("SEARCH_DEFAULT_LIMIT", 20),
		SearchMaxLimit:     getint("SEARCH_MAX_LIMIT", 100),
		CartRateLimit:      getint("CART_RATE_LIMIT", 20),
		SearchRateLimit:    getint("SEARCH_RATE_LIMIT", 30),
		RateLimitWindow:    time.Minute,
	}
}

// Validate vérifie que chaque backend choisi a ses paramètres de connexion
func (c *Config) Validate() error {
	switch c.CatalogBackend {
	case BackendMemory:
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("CATALOG_BACKEND=mongo mais MONGO_URI non configuré")
		}
	case BackendScylla:
		if len(c.Scylla.Hosts) == 0 || c.Scylla.ProductsKeyspace == "" {
			return fmt.Errorf("CATALOG_BACKEND=scylla mais SCYLLA_HOSTS/SCYLLA_KS_PRODUCTS_KEYSPACE non configurés")
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("CATALOG_BACKEND=postgres mais POSTGRES_DSN non configuré")
		}
	default:
		return fmt.Errorf("CATALOG_BACKEND inconnu: %q", c.CatalogBackend)
	}

	switch c.CartBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisHost == "" {
			return fmt.Errorf("CART_BACKEND=redis mais REDIS_HOST non configuré")
		}
	default:
		return fmt.Errorf("CART_BACKEND inconnu: %q", c.CartBackend)
	}

	switch c.WishlistBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisHost == "" {
			return fmt.Errorf("WISHLIST_BACKEND=redis mais REDIS_HOST non configuré")
		}
	case BackendScylla:
		if len(c.Scylla.Hosts) == 0 || c.Scylla.UsersKeyspace == "" {
			return fmt.Errorf("WISHLIST_BACKEND=scylla mais SCYLLA_HOSTS/SCYLLA_KS_USERS_KEYSPACE non configurés")
		}
	default:
		return fmt.Errorf("WISHLIST_BACKEND inconnu: %q", c.WishlistBackend)
	}

	if c.SearchDefaultLimit < 1 || c.SearchMaxLimit < c.SearchDefaultLimit {
		return fmt.Errorf("SEARCH_DEFAULT_LIMIT/SEARCH_MAX_LIMIT incohérents: %d/%d", c.SearchDefaultLimit, c.SearchMaxLimit)
	}
	if c.GinMode == "release" && c.JWTSecret == devJWTSecret {
		return fmt.Errorf("JWT_SECRET manquant en mode release")
	}
	return nil
}

func (c *Config) UsesRedis() bool {
	return c.RedisHost != ""
}

func (c *Config) UsesScylla() bool {
	return c.CatalogBackend == BackendScylla || c.WishlistBackend == BackendScylla
}

func (c *Config) UsesElastic() bool {
	return c.Elastic.URL != ""
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func getbool(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
