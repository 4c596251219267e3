package relay

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Vovarama1992/pgn-chatbot/internal/nonce"
)

type service struct {
	verifier Verifier
	upstream Upstream
	logger   *zap.Logger
}

func NewService(verifier Verifier, upstream Upstream, logger *zap.Logger) Service {
	return &service{
		verifier: verifier,
		upstream: upstream,
		logger:   logger,
	}
}

// Relay runs token check, input validation and upstream dispatch, in that
// order. A failed gate ends the request before anything is sent upstream.
// Message text never reaches the logger.
func (s *service) Relay(ctx context.Context, req Request) (*Reply, error) {
	if err := s.verifier.Verify(req.Token, req.SessionID); err != nil {
		s.logger.Info("relay rejected", zap.String("kind", KindAuth.String()), zap.Error(err))
		return nil, &Error{Kind: KindAuth, Msg: authMessage(err), Err: err}
	}

	msg := Sanitize(req.Message)
	if msg == "" {
		s.logger.Info("relay rejected", zap.String("kind", KindValidation.String()))
		return nil, &Error{Kind: KindValidation, Msg: "Mensaje vacío"}
	}

	start := time.Now()
	reply, err := s.upstream.Chat(ctx, msg)
	if err != nil {
		s.logger.Warn("upstream unavailable",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return nil, &Error{Kind: KindUpstreamUnavailable, Msg: err.Error(), Err: err}
	}

	fields := []zap.Field{
		zap.Int("upstream_status", reply.StatusCode),
		zap.Duration("duration", time.Since(start)),
		zap.Bool("json", reply.Payload != nil),
	}
	if reply.IsUpstreamError() {
		s.logger.Warn("upstream error", fields...)
	} else {
		s.logger.Debug("upstream reply", fields...)
	}
	return reply, nil
}

func authMessage(err error) string {
	if errors.Is(err, nonce.ErrExpired) || errors.Is(err, nonce.ErrSessionMismatch) {
		return "Sesión expirada"
	}
	return "Token inválido"
}
