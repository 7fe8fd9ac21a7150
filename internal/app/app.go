package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/spinhall/ladder-league/internal/config"
	"github.com/spinhall/ladder-league/internal/domain/activitylog"
	"github.com/spinhall/ladder-league/internal/domain/challenge"
	"github.com/spinhall/ladder-league/internal/domain/league"
	"github.com/spinhall/ladder-league/internal/domain/membership"
	"github.com/spinhall/ladder-league/internal/infrastructure/account/doorman"
	"github.com/spinhall/ladder-league/internal/infrastructure/notify"
	cachedrepo "github.com/spinhall/ladder-league/internal/infrastructure/repository/cache"
	"github.com/spinhall/ladder-league/internal/infrastructure/repository/memory"
	"github.com/spinhall/ladder-league/internal/infrastructure/repository/postgres"
	"github.com/spinhall/ladder-league/internal/interfaces/httpapi"
	basecache "github.com/spinhall/ladder-league/internal/platform/cache"
	idgen "github.com/spinhall/ladder-league/internal/platform/id"
	"github.com/spinhall/ladder-league/internal/platform/logging"
	"github.com/spinhall/ladder-league/internal/platform/resilience"
	"github.com/spinhall/ladder-league/internal/usecase"
)

type repositories struct {
	league    league.Repository
	member    membership.Repository
	challenge challenge.Repository
	log       activitylog.Repository
}

// NewHTTPServer assembles the full service: repositories, usecases,
// the auth client, and the router. The returned cleanup releases the
// database handle and is safe to call after server shutdown.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, cleanup, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	if cfg.CacheEnabled {
		repos.league = cachedrepo.NewLeagueRepository(repos.league, basecache.NewStore(cfg.CacheTTL))
	}

	idGen := idgen.NewRandomGenerator()

	leagueSvc := usecase.NewLeagueService(repos.league, repos.member, repos.log, idGen)
	membershipSvc := usecase.NewMembershipService(repos.league, repos.member, repos.challenge, repos.log, idGen)

	// A nil notifier keeps challenge flows fully functional; publishing
	// is best effort and only wired when a webhook target is configured.
	challengeSvc := usecase.NewChallengeService(repos.member, repos.challenge, repos.log, challenge.DefaultRules(), nil, idGen)
	if cfg.WebhookEnabled {
		notifier := notify.NewWebhookPublisher(notify.WebhookPublisherConfig{
			TargetURL:     cfg.WebhookTargetURL,
			SigningSecret: cfg.WebhookSigningSecret,
			Timeout:       cfg.WebhookTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WebhookCircuitEnabled,
				FailureThreshold: cfg.WebhookCircuitFailureCount,
				OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMaxReq,
			},
		}, logger)
		challengeSvc = usecase.NewChallengeService(repos.member, repos.challenge, repos.log, challenge.DefaultRules(), notifier, idGen)
	}
	sweepSvc := usecase.NewChallengeSweepService(repos.league, repos.challenge, repos.log, idGen)

	verifier := doorman.NewClient(doorman.ClientConfig{
		BaseURL:        cfg.DoormanBaseURL,
		IntrospectPath: cfg.DoormanIntrospectPath,
		AdminKey:       cfg.DoormanAdminKey,
		Timeout:        cfg.DoormanTimeout,
		CacheTTL:       cfg.DoormanTokenCacheTTL,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.DoormanCircuitEnabled,
			FailureThreshold: cfg.DoormanCircuitFailureCount,
			OpenTimeout:      cfg.DoormanCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.DoormanCircuitHalfOpenMaxReq,
		},
		Logger: logger,
	})

	handler := httpapi.NewHandler(leagueSvc, membershipSvc, challengeSvc, sweepSvc, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

// buildRepositories picks the storage backend. DB_URL=memory selects
// the seeded in-memory repositories for local development; anything
// else is treated as a postgres DSN.
func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	if strings.EqualFold(strings.TrimSpace(cfg.DBURL), "memory") {
		logger.Info("using in-memory repositories", "seed_league", memory.LeagueIDOfficePingPong)
		return repositories{
			league:    memory.NewLeagueRepository(memory.SeedLeagues()),
			member:    memory.NewMembershipRepository(memory.SeedMembers()),
			challenge: memory.NewChallengeRepository(),
			log:       memory.NewActivityLogRepository(),
		}, func() error { return nil }, nil
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("open database: %w", err)
	}

	return repositories{
		league:    postgres.NewLeagueRepository(db),
		member:    postgres.NewMembershipRepository(db),
		challenge: postgres.NewChallengeRepository(db),
		log:       postgres.NewActivityLogRepository(db),
	}, db.Close, nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(cfg.DBURL); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Connect("postgres", dsn, opts...)
	if err != nil {
		return nil, err
	}

	return db, nil
}
