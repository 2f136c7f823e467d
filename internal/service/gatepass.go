package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"knowledgegate/internal/models"
)

// ErrInvalidGatePass means the success token failed verification.
var ErrInvalidGatePass = errors.New("invalid gate pass")

// IssueGatePass mints the short-lived token handed to the client when a
// session reaches success. The redirect endpoint demands it back, which stops
// a bare session id scraped from telemetry from opening the gate. Returns an
// empty token when no signing secret is configured.
func (s *GateService) IssueGatePass(sessionID string) (string, error) {
	snapshot, err := s.State(sessionID)
	if err != nil {
		return "", err
	}
	if snapshot.Status != models.StatusSuccess {
		return "", ErrNotCompleted
	}
	if s.cfg.GatePassSecret == "" {
		return "", nil
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": sessionID,
		"col": snapshot.CollectionID,
		"iat": now.Unix(),
		"exp": now.Add(s.cfg.GatePassTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.GatePassSecret))
}

// verifyGatePass checks the token signature, expiry, and that it was minted
// for this exact session and collection. A no-op when no secret is
// configured.
func (s *GateService) verifyGatePass(tokenString, sessionID, collectionID string) error {
	if s.cfg.GatePassSecret == "" {
		return nil
	}
	if tokenString == "" {
		return ErrInvalidGatePass
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.GatePassSecret), nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidGatePass
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ErrInvalidGatePass
	}
	if sub, _ := claims["sub"].(string); sub != sessionID {
		return ErrInvalidGatePass
	}
	if col, _ := claims["col"].(string); col != collectionID {
		return ErrInvalidGatePass
	}
	return nil
}
