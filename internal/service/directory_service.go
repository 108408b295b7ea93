package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/may-baker/helpdesk-service/internal/domain"
	"github.com/may-baker/helpdesk-service/internal/repository"
	apperrors "github.com/may-baker/helpdesk-service/pkg/errorutil"
)

const rosterCacheKey = "helpdesk:roster"

// RosterCache is the narrow cache surface the directory needs. Get returns
// (nil, nil) on a miss.
type RosterCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// DirectoryService is the single owner of the user roster: a read-through
// cache in front of the users table. Ingestion and the API read the roster
// through it instead of holding process-global state.
type DirectoryService struct {
	users  repository.UserRepository
	cache  RosterCache
	ttl    time.Duration
	logger *zap.Logger
}

// DirectoryDependencies bundles collaborators for the directory.
type DirectoryDependencies struct {
	UserRepo repository.UserRepository
	Cache    RosterCache
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// NewDirectoryService constructs the directory.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	return &DirectoryService{
		users:  deps.UserRepo,
		cache:  deps.Cache,
		ttl:    deps.CacheTTL,
		logger: deps.Logger,
	}
}

// Roster returns all known accounts in stable listing order, served from
// cache when fresh. Cache failures fall back to the store.
func (s *DirectoryService) Roster(ctx context.Context) ([]domain.UserAccount, error) {
	if s.cache != nil {
		data, err := s.cache.Get(ctx, rosterCacheKey)
		if err != nil {
			s.logger.Warn("roster cache read failed", zap.Error(err))
		} else if data != nil {
			var roster []domain.UserAccount
			if decodeErr := json.Unmarshal(data, &roster); decodeErr != nil {
				s.logger.Warn("discarding undecodable roster cache entry", zap.Error(decodeErr))
			} else {
				return roster, nil
			}
		}
	}

	roster, err := s.users.List(ctx, repository.UserFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(roster); err == nil {
			if err := s.cache.Set(ctx, rosterCacheKey, data, s.ttl); err != nil {
				s.logger.Warn("roster cache write failed", zap.Error(err))
			}
		}
	}
	return roster, nil
}

// FindByEmail looks up one account; returns nil when the address is unknown.
func (s *DirectoryService) FindByEmail(ctx context.Context, email string) (*domain.UserAccount, error) {
	roster, err := s.Roster(ctx)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(strings.TrimSpace(email))
	for i := range roster {
		if strings.ToLower(roster[i].Email) == lower {
			return &roster[i], nil
		}
	}
	return nil, nil
}
