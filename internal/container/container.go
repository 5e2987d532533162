package container

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	redisstream "github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/linkdeck/internal/analytics"
	"github.com/serroba/linkdeck/internal/collections"
	"github.com/serroba/linkdeck/internal/handlers"
	"github.com/serroba/linkdeck/internal/health"
	"github.com/serroba/linkdeck/internal/messaging"
	"github.com/serroba/linkdeck/internal/middleware"
	"github.com/serroba/linkdeck/internal/shortener"
	"github.com/serroba/linkdeck/internal/store"
	"github.com/serroba/linkdeck/internal/visitor"
	"go.uber.org/zap"
)

// Options holds the CLI/env configuration for both binaries.
type Options struct {
	Port        int    `default:"8888"           help:"Port to listen on"                                   short:"p"`
	BaseURL     string `default:""               help:"Public base URL; defaults to http://localhost:PORT"`
	CodeLength  int    `default:"8"              help:"Length of generated short codes"                     short:"c"`
	RedisAddr   string `default:"localhost:6379" help:"Redis server address (event stream transport)"       short:"r"`
	PostgresDSN string `default:""               help:"Postgres DSN; empty selects in-memory storage"`
	GeoDBPath   string `default:""               help:"Path to a MaxMind GeoLite2 city database"`
	LogFormat   string `default:"console"        help:"Log format: console or json"`
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// RedisPackage provides the redis client used as the event stream transport.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{
			Addr: options.RedisAddr,
		}), nil
	})
}

// PostgresPackage provides the pgx pool. Lazy: only opened when a postgres
// repository is actually invoked.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		return pgxpool.New(context.Background(), options.PostgresDSN)
	})
}

// ClassifierPackage provides the geo resolver and visitor classifier.
func ClassifierPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (visitor.GeoResolver, error) {
		options := do.MustInvoke[*Options](i)

		if options.GeoDBPath == "" {
			return visitor.NewNoopResolver(), nil
		}

		return visitor.OpenMaxMindResolver(options.GeoDBPath)
	})

	do.Provide(injector, func(i *do.Injector) (*visitor.Classifier, error) {
		return visitor.NewClassifier(do.MustInvoke[visitor.GeoResolver](i)), nil
	})
}

// RepositoryPackage provides the three repositories, backed by postgres when
// a DSN is configured and by memory otherwise.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Repository, error) {
		options := do.MustInvoke[*Options](i)

		if options.PostgresDSN == "" {
			return store.NewMemoryLinkStore(), nil
		}

		return store.NewPostgresLinkStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		options := do.MustInvoke[*Options](i)

		if options.PostgresDSN == "" {
			return store.NewMemoryAnalyticsStore(), nil
		}

		return store.NewPostgresAnalyticsStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (collections.Repository, error) {
		options := do.MustInvoke[*Options](i)

		if options.PostgresDSN == "" {
			return store.NewMemoryCollectionStore(), nil
		}

		return store.NewPostgresCollectionStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})
}

// PublisherGroupPackage provides the redisstream publisher.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: client,
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})
}

// RecorderPackage provides the click recorder.
func RecorderPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*analytics.Recorder, error) {
		return analytics.NewRecorder(
			do.MustInvoke[analytics.Store](i),
			do.MustInvoke[shortener.Repository](i),
			do.MustInvoke[*visitor.Classifier](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// ConsumerGroupPackage provides the consumer group that applies click and
// created events to analytics records.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)
		recorder := do.MustInvoke[*analytics.Recorder](i)

		subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:        client,
			ConsumerGroup: "linkdeck-analytics",
		}, watermill.NopLogger{})
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkClicked, recorder.Record, logger))
		group.Add(messaging.NewConsumer(subscriber, analytics.TopicLinkCreated, recorder.EnsureRecord, logger))

		return group, nil
	})
}

// HTTPPackage provides the router and the API with all routes registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)

		api := humachi.New(router, huma.DefaultConfig("linkdeck", "1.0.0"))
		api.UseMiddleware(middleware.RequestMeta(api))

		baseURL := options.BaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("http://localhost:%d", options.Port)
		}

		generator, err := nanoid.Standard(options.CodeLength)
		if err != nil {
			return nil, err
		}

		links := do.MustInvoke[shortener.Repository](i)
		records := do.MustInvoke[analytics.Store](i)
		colls := do.MustInvoke[collections.Repository](i)
		publishers := do.MustInvoke[*messaging.PublisherGroup](i)

		strategies := map[handlers.Strategy]shortener.Strategy{
			handlers.StrategyToken: shortener.NewTokenStrategy(links, generator),
			handlers.StrategyHash:  shortener.NewHashStrategy(links, generator),
		}

		urlHandler := handlers.NewURLHandler(
			links,
			records,
			colls,
			baseURL,
			strategies,
			messaging.NewPublishFunc[analytics.ClickEvent](publishers.Publisher(), analytics.TopicLinkClicked),
			messaging.NewPublishFunc[analytics.LinkCreatedEvent](publishers.Publisher(), analytics.TopicLinkCreated),
			logger,
		)

		reporter := analytics.NewReporter(records, links, colls)

		handlers.RegisterRoutes(api, urlHandler, handlers.NewCollectionHandler(colls), handlers.NewAnalyticsHandler(reporter))

		var postgresChecker health.Checker
		if options.PostgresDSN != "" {
			postgresChecker = health.NewPostgresChecker(do.MustInvoke[*pgxpool.Pool](i))
		}

		health.RegisterRoutes(api, health.NewHandler(
			health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
			postgresChecker,
		))

		return api, nil
	})
}
