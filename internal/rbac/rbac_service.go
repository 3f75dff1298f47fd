package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"

	"leaveflow/internal/domain"
)

type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
