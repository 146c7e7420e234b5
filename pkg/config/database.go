package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB holds the database connections
type DB struct {
	Postgres *gorm.DB
	Mongo    *mongo.Client
	log      *logrus.Logger
}

// InitDB opens and pings PostgreSQL and MongoDB
func InitDB(cfg *Config, log *logrus.Logger) (*DB, error) {
	if cfg.PostgresURL == "" {
		return nil, fmt.Errorf("POSTGRES_URL is not set")
	}
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is not set")
	}

	postgresDB, err := initPostgres(cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	log.Info("connected to PostgreSQL")

	mongoClient, err := initMongo(cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	log.Info("connected to MongoDB")

	return &DB{
		Postgres: postgresDB,
		Mongo:    mongoClient,
		log:      log,
	}, nil
}

// GormConfig is shared by every *gorm.DB the application opens, tests included.
// TranslateError turns driver errors into gorm.ErrDuplicatedKey and friends.
func GormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

func initPostgres(connStr string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(connStr), GormConfig())
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

func initMongo(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// CloseDB closes the database connections
func (db *DB) CloseDB() {
	if db.Postgres != nil {
		sqlDB, err := db.Postgres.DB()
		if err != nil {
			db.log.WithError(err).Error("error getting SQL DB from GORM")
		} else if err := sqlDB.Close(); err != nil {
			db.log.WithError(err).Error("error closing PostgreSQL connection")
		} else {
			db.log.Info("PostgreSQL connection closed")
		}
	}

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			db.log.WithError(err).Error("error closing MongoDB connection")
		} else {
			db.log.Info("MongoDB connection closed")
		}
	}
}
