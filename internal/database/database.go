package database

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"time"

	"cedra_storefront/internal/config"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// --- Configuration ScyllaDB ---
type ScyllaKeyspaceConfig struct {
	Hosts       []string
	Keyspace    string
	Username    string
	Password    string
	SSLEnabled  bool
	CACertPath  string
	Timeout     time.Duration
	NumConns    int
	Consistency gocql.Consistency
}

type ScyllaManager struct {
	sessions map[string]*gocql.Session // keyspace → session
	configs  map[string]ScyllaKeyspaceConfig
	mu       sync.Mutex
	log      *logrus.Logger
}

// Connections regroupe les clients ouverts ; un champ nil = backend non configuré
type Connections struct {
	Scylla   *ScyllaManager
	Redis    *redis.Client
	Elastic  *elasticsearch.Client
	Mongo    *mongo.Client
	Postgres *pgxpool.Pool

	cfg *config.Config
	log *logrus.Logger
}

// ConnectDatabases ouvre uniquement les connexions requises par la configuration
func ConnectDatabases(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*Connections, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	conns := &Connections{cfg: cfg, log: log}

	if cfg.UsesScylla() {
		conns.Scylla = NewScyllaManager(loadScyllaConfigs(cfg), log)
		if err := conns.Scylla.Init(); err != nil {
			conns.Close()
			return nil, fmt.Errorf("échec initialisation ScyllaDB: %w", err)
		}
	}

	if cfg.UsesRedis() {
		client, err := connectRedis(ctx, cfg)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Redis = client
		log.Info("✅ Connecté à Redis")
	}

	if cfg.UsesElastic() {
		client, err := connectElastic(cfg)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Elastic = client
		log.Info("✅ Connecté à Elasticsearch")
	}

	if cfg.CatalogBackend == config.BackendMongo {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			conns.Close()
			return nil, fmt.Errorf("erreur connexion MongoDB: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			conns.Mongo = client
			conns.Close()
			return nil, fmt.Errorf("erreur ping MongoDB: %w", err)
		}
		conns.Mongo = client
		log.Info("✅ Connecté à MongoDB")
	}

	if cfg.CatalogBackend == config.BackendPostgres {
		pool, err := connectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Postgres = pool
		if err := RunMigrations(ctx, pool); err != nil {
			conns.Close()
			return nil, fmt.Errorf("migrations PostgreSQL: %w", err)
		}
		log.Info("✅ Connecté à PostgreSQL (migrations appliquées)")
	}

	log.Info("✅ Toutes les bases de données sont connectées")
	return conns, nil
}

// MongoDatabase base Mongo du catalogue
func (c *Connections) MongoDatabase() *mongo.Database {
	return c.Mongo.Database(c.cfg.MongoDatabase)
}

// ProductsSession session Scylla du keyspace produits
func (c *Connections) ProductsSession() (*gocql.Session, error) {
	return c.Scylla.GetSession(c.cfg.Scylla.ProductsKeyspace)
}

// UsersSession session Scylla du keyspace utilisateurs (wishlist)
func (c *Connections) UsersSession() (*gocql.Session, error) {
	return c.Scylla.GetSession(c.cfg.Scylla.UsersKeyspace)
}

// Close ferme toutes les connexions ouvertes
func (c *Connections) Close() {
	if c.Scylla != nil {
		c.Scylla.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.log.WithError(err).Warn("⚠️ Fermeture Redis")
		}
	}
	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(context.Background()); err != nil {
			c.log.WithError(err).Warn("⚠️ Fermeture MongoDB")
		}
	}
	if c.Postgres != nil {
		c.Postgres.Close()
	}
}

// =============================================
// SCYLLA DB (Multi-Keyspaces avec SSL & Rôles)
// =============================================

func NewScyllaManager(configs map[string]ScyllaKeyspaceConfig, log *logrus.Logger) *ScyllaManager {
	return &ScyllaManager{
		sessions: make(map[string]*gocql.Session),
		configs:  configs,
		log:      log,
	}
}

// Init crée une session pour chaque keyspace configuré.
// Les tables sont créées via scripts/scylladb_init.cql.
func (sm *ScyllaManager) Init() error {
	for keyspace := range sm.configs {
		if _, err := sm.GetSession(keyspace); err != nil {
			return fmt.Errorf("échec initialisation keyspace %s: %w", keyspace, err)
		}
	}
	return nil
}

func loadScyllaConfigs(cfg *config.Config) map[string]ScyllaKeyspaceConfig {
	configs := make(map[string]ScyllaKeyspaceConfig)

	base := ScyllaKeyspaceConfig{
		Hosts:       cfg.Scylla.Hosts,
		SSLEnabled:  cfg.Scylla.SSLEnabled,
		CACertPath:  cfg.Scylla.CACertPath,
		Timeout:     5 * time.Second,
		NumConns:    20,
		Consistency: gocql.Quorum,
	}

	// --- Keyspace Produits ---
	if cfg.CatalogBackend == config.BackendScylla && cfg.Scylla.ProductsKeyspace != "" {
		ks := base
		ks.Keyspace = cfg.Scylla.ProductsKeyspace
		ks.Username = cfg.Scylla.ProductsRole
		ks.Password = cfg.Scylla.ProductsPassword
		configs[ks.Keyspace] = ks
	}

	// --- Keyspace Utilisateurs ---
	if cfg.WishlistBackend == config.BackendScylla && cfg.Scylla.UsersKeyspace != "" {
		ks := base
		ks.Keyspace = cfg.Scylla.UsersKeyspace
		ks.Username = cfg.Scylla.UsersRole
		ks.Password = cfg.Scylla.UsersPassword
		configs[ks.Keyspace] = ks
	}

	return configs
}

func createScyllaCluster(cfg ScyllaKeyspaceConfig) (*gocql.ClusterConfig, error) {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Keyspace = cfg.Keyspace
	cluster.Consistency = cfg.Consistency
	cluster.Timeout = cfg.Timeout
	cluster.NumConns = cfg.NumConns
	cluster.MaxWaitSchemaAgreement = 30 * time.Second
	cluster.ReconnectInterval = 1 * time.Second

	if cfg.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	if cfg.SSLEnabled && cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("impossible de lire le certificat CA: %w", err)
		}

		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("impossible de parser le certificat CA")
		}
		cluster.SslOpts = &gocql.SslOptions{
			Config:                 &tls.Config{RootCAs: caCertPool, MinVersion: tls.VersionTLS12},
			EnableHostVerification: true,
		}
	}

	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	return cluster, nil
}

// GetSession retourne (ou recrée) la session d'un keyspace
func (sm *ScyllaManager) GetSession(keyspace string) (*gocql.Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	cfg, exists := sm.configs[keyspace]
	if !exists {
		return nil, fmt.Errorf("keyspace '%s' non configuré", keyspace)
	}

	if session, exists := sm.sessions[keyspace]; exists {
		if !session.Closed() {
			return session, nil
		}
		delete(sm.sessions, keyspace)
	}

	cluster, err := createScyllaCluster(cfg)
	if err != nil {
		return nil, fmt.Errorf("erreur configuration cluster pour %s: %w", keyspace, err)
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("erreur création session pour %s: %w", keyspace, err)
	}

	sm.sessions[keyspace] = session
	sm.log.WithFields(logrus.Fields{"keyspace": keyspace, "role": cfg.Username}).
		Info("✅ Nouvelle session ScyllaDB")

	return session, nil
}

// Close ferme toutes les sessions ScyllaDB
func (sm *ScyllaManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	for keyspace, session := range sm.sessions {
		session.Close()
		sm.log.WithField("keyspace", keyspace).Info("🔌 Session ScyllaDB fermée")
	}
	sm.sessions = make(map[string]*gocql.Session)
}

// =============================================
// REDIS
// =============================================
func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("erreur connexion Redis: %w", err)
	}
	return client, nil
}

// =============================================
// ELASTICSEARCH
// =============================================
func connectElastic(cfg *config.Config) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Elastic.URL},
		Username:  cfg.Elastic.User,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("erreur création client Elasticsearch: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("erreur connexion Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("erreur connexion Elasticsearch: %s", res.String())
	}
	return client, nil
}

// =============================================
// POSTGRESQL
// =============================================
func connectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("POSTGRES_DSN invalide: %w", err)
	}
	pcfg.MaxConns = 8
	pcfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("erreur connexion PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("erreur ping PostgreSQL: %w", err)
	}
	return pool, nil
}
