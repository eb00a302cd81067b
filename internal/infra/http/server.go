package http

import (
	"context"
	"log"
	"time"

	"github.com/Baltu-Technologies/upskill-next-sub007/internal/config"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/domain"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/guard"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/auth/cookie"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/auth/jwt"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/auth/oauth"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/auth/rbac"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/cacheredis"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/db"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/objectstore"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/policy"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/ratelimit"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/scoped"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/infra/sessionredis"
	"github.com/Baltu-Technologies/upskill-next-sub007/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	cfg   config.Config
	store *db.Store
	r     *gin.Engine

	guard          *guard.Guard
	sessionSvc     *usecase.SessionService
	lessonSvc      *usecase.LessonService
	mediaSvc       *usecase.MediaService
	reportSvc      *usecase.ReportService
	members        usecase.MemberLister
	internalAPIKey string

	rateLimiter         domain.RateLimiter
	rateLimitRequests   int
	rateLimitWindow     time.Duration
	rateLimitFailClosed bool
}

// ServerDeps lets tests and alternate wiring substitute every collaborator.
type ServerDeps struct {
	Guard       *guard.Guard
	Sessions    *usecase.SessionService
	Lessons     *usecase.LessonService
	Media       *usecase.MediaService
	Reports     *usecase.ReportService
	Members     usecase.MemberLister
	RateLimiter domain.RateLimiter
}

func NewServer(cfg config.Config, store *db.Store) (*Server, error) {
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}

	var sessionStore domain.SessionStore
	if redisClient != nil {
		sessionStore = sessionredis.NewFromClient(redisClient)
	} else {
		log.Printf("REDIS_ADDR not set; using in-memory session store.")
		sessionStore = sessionredis.NewMemoryStore()
	}

	var roleStore domain.RoleStore
	var scopedDB *scoped.DB
	if store != nil && store.DB != nil {
		roleStore = db.NewRoleRepository(store.DB)
		scopedDB = scoped.NewDB(store.DB)
	}

	extractor := jwt.NewExtractor(cfg.OAuthJWKSURL, cfg.OAuthIssuerURL, cfg.OAuthAudience, cfg.JWKSCacheTTL())
	cookieAuth := cookie.NewAuthenticator(sessionStore, roleStore, cfg.AuthTimeout())
	bearerAuth := oauth.NewAuthenticator(extractor, cfg.ClaimNamespace)
	resolver := guard.NewResolver(cfg.SessionCookieName, cookieAuth, bearerAuth)
	requestGuard := guard.New(resolver, rbac.NewGate())

	var cacheClient domain.Cache
	if redisClient != nil {
		cacheClient = cacheredis.NewFromClient(redisClient)
	}
	scopedCache := scoped.NewCache(cacheClient)

	var objects usecase.ScopedObjects
	if s3, err := objectstore.NewFromConfig(cfg); err == nil {
		objects = scoped.NewObjects(s3, cfg.UploadURLMax(), cfg.DownloadURLMax())
	} else {
		log.Printf("object store not configured: %v", err)
	}

	reportPolicy, err := policy.NewEngineFromPath(context.Background(), cfg.ReportPolicyPath)
	if err != nil {
		return nil, err
	}

	deps := ServerDeps{
		Guard:    requestGuard,
		Sessions: usecase.NewSessionService(sessionStore, cfg.SessionTTL()),
	}
	if scopedDB != nil {
		deps.Sessions = deps.Sessions.WithTenants(db.NewTenantRepository(store.DB))
		lessonRepo := db.NewLessonRepository(scopedDB)
		progressRepo := db.NewProgressRepository(scopedDB)
		deps.Lessons = usecase.NewLessonService(lessonRepo, progressRepo, scopedCache)
		deps.Members = db.NewMemberRepository(scopedDB)
		deps.Reports = usecase.NewReportService(scopedDB, policyAdapter{engine: reportPolicy})
	}
	if objects != nil {
		deps.Media = usecase.NewMediaService(objects)
	}
	if cfg.RateLimitRequests > 0 {
		if redisClient != nil {
			if limiter, err := ratelimit.NewRedisLimiter(redisClient, nil); err == nil {
				deps.RateLimiter = limiter
			}
		}
		if deps.RateLimiter == nil {
			deps.RateLimiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryLimiterConfig{MaxKeys: cfg.RateLimitMaxKeys})
		}
	}

	return NewServerWithDeps(cfg, store, deps), nil
}

func NewServerWithDeps(cfg config.Config, store *db.Store, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:            cfg,
		store:          store,
		r:              r,
		guard:          deps.Guard,
		sessionSvc:     deps.Sessions,
		lessonSvc:      deps.Lessons,
		mediaSvc:       deps.Media,
		reportSvc:      deps.Reports,
		members:        deps.Members,
		internalAPIKey: cfg.InternalAPIKey,
		rateLimiter:    deps.RateLimiter,
	}
	s.rateLimitRequests = cfg.RateLimitRequests
	s.rateLimitWindow = time.Duration(cfg.RateLimitWindowSeconds) * time.Second
	if s.rateLimitWindow <= 0 {
		s.rateLimitWindow = time.Minute
	}
	s.rateLimitFailClosed = cfg.RateLimitFailClosed
	s.routes()
	return s
}

// policyAdapter bridges the OPA engine to the usecase's ReportPolicy port.
type policyAdapter struct {
	engine *policy.Engine
}

func (a policyAdapter) Allow(ctx context.Context, principal domain.Principal, report string) (bool, error) {
	return a.engine.Allow(ctx, policy.InputFor(principal, report))
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		dbMode := "no-db"
		if s.store != nil && s.store.DB != nil {
			dbMode = "db"
		}
		c.JSON(200, gin.H{"status": "ok", "mode": dbMode})
	})

	v1 := s.r.Group("/v1")
	{
		// Learner surface: session-cookie provider.
		learner := func(rule domain.AuthorizationRule) gin.HandlerFunc {
			return s.guarded(domain.ProviderSessionCookie, rule)
		}
		v1.POST("/auth/sessions", s.handleMintSession)
		v1.DELETE("/auth/session", learner(domain.AuthorizationRule{}), s.handleLogout)
		v1.GET("/me", learner(domain.AuthorizationRule{}), s.handleProfile)
		v1.GET("/lessons", learner(domain.AuthorizationRule{}), s.handleListLessons)
		v1.GET("/progress", learner(domain.AuthorizationRule{}), s.handleListProgress)
		v1.PUT("/lessons/:lesson_id/progress", learner(domain.AuthorizationRule{}), s.handleRecordProgress)

		// Employer surface: organization-bearer provider.
		employer := func(rule domain.AuthorizationRule) gin.HandlerFunc {
			return s.guarded(domain.ProviderOAuthOrganization, rule)
		}
		v1.GET("/org/members", employer(domain.AuthorizationRule{
			RequiredRoles:       []string{"Employer Admin"},
			RequiredPermissions: []string{"manage_users"},
		}), s.handleListMembers)
		v1.POST("/org/media", employer(domain.AuthorizationRule{
			RequiredPermissions: []string{"upload_media"},
		}), s.handleUploadURL)
		v1.GET("/org/media/url", employer(domain.AuthorizationRule{}), s.handleDownloadURL)
		v1.DELETE("/org/media", employer(domain.AuthorizationRule{
			RequiredPermissions: []string{"upload_media"},
		}), s.handleDeleteMedia)
		v1.GET("/org/reports/:report_id", employer(domain.AuthorizationRule{
			RequiredRoles: []string{"Employer Admin"},
		}), s.handleRunReport)
	}

	s.r.NoRoute(func(c *gin.Context) {
		writeErrorCode(c, 404, "NOT_FOUND", "route not found")
	})
}

func (s *Server) Run() error {
	log.Printf("upskilld listening on %s", s.cfg.HTTPAddr)
	return s.r.Run(s.cfg.HTTPAddr)
}

// Handler exposes the engine for httptest servers.
func (s *Server) Handler() *gin.Engine {
	return s.r
}
