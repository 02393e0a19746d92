package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/mariakevin/hairtryon-backend/internal/domain"
	"github.com/mariakevin/hairtryon-backend/internal/mailer"
	"go.uber.org/zap"
)

const mailDispatchTimeout = 30 * time.Second

// generateVerificationCode returns 6 random decimal digits. A fresh code is
// generated on every issuance; codes are never reused across requests.
func generateVerificationCode() (string, error) {
	const digits = "0123456789"

	buf := make([]byte, 6)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", fmt.Errorf("failed to generate verification code: %w", err)
		}
		buf[i] = digits[n.Int64()]
	}

	return string(buf), nil
}

// issueVerificationToken generates a fresh code, mails it, and returns a
// signed token embedding the code next to the user's ID. The token is the
// transport; the code is the proof the user controls the inbox.
func (s *authService) issueVerificationToken(user *domain.User, kind mailer.Kind) (string, error) {
	code, err := generateVerificationCode()
	if err != nil {
		return "", err
	}

	token, err := s.jwtManager.Issue(map[string]any{
		"sub":  strconv.FormatInt(user.ID, 10),
		"code": code,
	}, s.verifyTokenTTL, domain.TokenFamilyAccess)
	if err != nil {
		return "", fmt.Errorf("failed to issue verification token: %w", err)
	}

	s.dispatchMail(mailer.Mail{
		Kind: kind,
		To:   user.Email,
		Name: user.Name,
		Code: code,
	})

	return token, nil
}

// dispatchMail sends m on its own goroutine. A slow or failed send is logged
// and never fails or delays the triggering request.
func (s *authService) dispatchMail(m mailer.Mail) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailDispatchTimeout)
		defer cancel()

		if err := s.mail.Send(ctx, m); err != nil {
			s.logger.Error("mail dispatch failed",
				zap.String("to", m.To),
				zap.Error(err),
			)
		}
	}()
}
