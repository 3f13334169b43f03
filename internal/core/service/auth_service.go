package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arbitex/marketplace/internal/api/metrics"
	"github.com/arbitex/marketplace/internal/core/domain"
	"github.com/arbitex/marketplace/internal/core/ports"
	"github.com/arbitex/marketplace/internal/pkg/keymutex"
)

const signInMessageVersion = "1"

// AuthConfig carries the protocol parameters of the sign-in flow.
type AuthConfig struct {
	Domain       string
	Statement    string
	AdminWallets []string
	NonceTTL     time.Duration
	JWTSecret    string
	TokenTTL     time.Duration
}

// AuthService implements the nonce challenge/response sign-in protocol.
type AuthService struct {
	sessions   ports.SessionStore
	identities ports.IdentityRepository
	verifier   ports.SignatureVerifier
	locks      *keymutex.Pool
	cfg        AuthConfig
	admins     map[string]bool
	logger     zerolog.Logger
}

func NewAuthService(
	sessions ports.SessionStore,
	identities ports.IdentityRepository,
	verifier ports.SignatureVerifier,
	locks *keymutex.Pool,
	cfg AuthConfig,
	logger zerolog.Logger,
) *AuthService {
	if cfg.NonceTTL <= 0 {
		cfg.NonceTTL = 5 * time.Minute
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	admins := make(map[string]bool, len(cfg.AdminWallets))
	for _, w := range cfg.AdminWallets {
		admins[strings.ToLower(w)] = true
	}
	return &AuthService{
		sessions:   sessions,
		identities: identities,
		verifier:   verifier,
		locks:      locks,
		cfg:        cfg,
		admins:     admins,
		logger:     logger,
	}
}

// BeginSignIn issues a fresh single-use nonce bound to the caller's session.
// An unknown or absent session id yields a new anonymous session.
func (s *AuthService) BeginSignIn(ctx context.Context, sessionID, address string) (*ports.ChallengeResult, error) {
	if sessionID != "" {
		unlock := s.locks.Lock(sessionID)
		defer unlock()
	}

	sess, err := s.resolveOrCreateSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	sess.Nonce = generateNonce()
	sess.NonceIssuedAt = time.Now().UTC()
	if err := s.sessions.Save(ctx, sess); err != nil {
		s.logger.Error().Err(err).Str("session_id", sess.ID).Msg("failed to store challenge")
		return nil, domain.ErrSessionUnavailable
	}

	metrics.ChallengesIssuedTotal.Inc()
	s.logger.Debug().Str("session_id", sess.ID).Msg("sign-in challenge issued")

	return &ports.ChallengeResult{
		SessionID: sess.ID,
		Nonce:     sess.Nonce,
		Message:   s.buildMessage(address, sess.Nonce),
	}, nil
}

// CompleteSignIn verifies the signed challenge and binds the resolved
// identity to a regenerated session. The stored nonce is consumed on every
// verification attempt, success or failure.
func (s *AuthService) CompleteSignIn(ctx context.Context, sessionID, publicKey, message, signature string) (*ports.SignInResult, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			metrics.SignInAttemptsTotal.WithLabelValues("no_challenge").Inc()
			return nil, domain.ErrNoPendingChallenge
		}
		return nil, domain.ErrSessionUnavailable
	}
	if sess.Nonce == "" {
		metrics.SignInAttemptsTotal.WithLabelValues("no_challenge").Inc()
		return nil, domain.ErrNoPendingChallenge
	}

	nonce := sess.Nonce
	issuedAt := sess.NonceIssuedAt
	sess.ConsumeNonce()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, domain.ErrSessionUnavailable
	}

	if time.Since(issuedAt) > s.cfg.NonceTTL {
		metrics.SignInAttemptsTotal.WithLabelValues("invalid_nonce").Inc()
		return nil, domain.ErrInvalidNonce
	}

	if expected := s.buildMessage(publicKey, nonce); message != expected {
		s.logger.Warn().Str("session_id", sessionID).Msg("presented message deviates from canonical form")
	}
	// The nonce binding is the hard gate; formatting deviations are not.
	if !strings.Contains(message, nonce) {
		metrics.SignInAttemptsTotal.WithLabelValues("invalid_nonce").Inc()
		return nil, domain.ErrInvalidNonce
	}

	if err := s.verifier.Verify(publicKey, message, signature); err != nil {
		metrics.SignInAttemptsTotal.WithLabelValues("invalid_signature").Inc()
		s.logger.Info().Err(err).Str("session_id", sessionID).Msg("sign-in verification failed")
		return nil, err
	}

	user, err := s.resolveIdentity(ctx, publicKey)
	if err != nil {
		return nil, err
	}

	// Regenerate the id on privilege change so a pre-auth id never carries
	// an authenticated session.
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to drop pre-auth session")
	}
	authed := &domain.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.sessions.Save(ctx, authed); err != nil {
		return nil, domain.ErrSessionUnavailable
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, fmt.Errorf("signing access token: %w", err)
	}

	metrics.SignInAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", user.ID).Str("address", user.Address).Msg("wallet signed in")

	return &ports.SignInResult{
		SessionID: authed.ID,
		User:      user,
		Token:     token,
	}, nil
}

// Resolve returns the identity bound to an authenticated session.
func (s *AuthService) Resolve(ctx context.Context, sessionID string) (*domain.User, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, domain.ErrSessionUnavailable
	}
	if !sess.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return s.identities.FindByID(ctx, sess.UserID)
}

// SignOut discards the session record. Unknown sessions are a no-op.
func (s *AuthService) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	unlock := s.locks.Lock(sessionID)
	defer unlock()
	return s.sessions.Delete(ctx, sessionID)
}

func (s *AuthService) resolveOrCreateSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID != "" {
		sess, err := s.sessions.Get(ctx, sessionID)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionUnavailable
		}
	}
	return &domain.Session{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// resolveIdentity upserts the identity keyed by the lowercased compressed
// public key. The same key always resolves to the same identity.
func (s *AuthService) resolveIdentity(ctx context.Context, publicKey string) (*domain.User, error) {
	key := strings.ToLower(publicKey)

	user, err := s.identities.FindByPublicKey(ctx, key)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	address, err := s.verifier.Address(key)
	if err != nil {
		return nil, err
	}
	role := domain.RoleUser
	if s.admins[key] {
		role = domain.RoleAdmin
	}
	now := time.Now().UTC()
	return s.identities.Create(ctx, &domain.User{
		PublicKey: key,
		Address:   address,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// buildMessage renders the canonical sign-in text a wallet is asked to sign.
func (s *AuthService) buildMessage(address, nonce string) string {
	return fmt.Sprintf(
		"%s wants you to sign in with your wallet:\n%s\n\n%s\n\nNonce: %s\nVersion: %s",
		s.cfg.Domain, address, s.cfg.Statement, nonce, signInMessageVersion,
	)
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(s.cfg.TokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}
