package jsonstore

import (
	"context"
	"strings"
	"time"

	"ecomStore/domain"
)

type OTPRepository struct {
	codes *Collection[domain.OTPVerification]
}

func NewOTPRepository(store *Store) *OTPRepository {
	return &OTPRepository{
		codes: NewCollection[domain.OTPVerification](store, "otp"),
	}
}

func (r *OTPRepository) Create(ctx context.Context, otp *domain.OTPVerification) error {
	return r.codes.Create(ctx, *otp)
}

// FindUsable returns the newest unconsumed, unexpired record for email+code.
func (r *OTPRepository) FindUsable(ctx context.Context, email, code string, now time.Time) (domain.OTPVerification, error) {
	matches, err := r.codes.FindBy(ctx, func(o domain.OTPVerification) bool {
		return strings.EqualFold(o.Email, email) && o.OTP == code && o.Usable(now)
	})
	if err != nil {
		return domain.OTPVerification{}, err
	}
	if len(matches) == 0 {
		return domain.OTPVerification{}, domain.ErrInvalidOrExpiredOTP
	}

	newest := matches[0]
	for _, m := range matches[1:] {
		if m.CreatedAt.After(newest.CreatedAt) {
			newest = m
		}
	}

	return newest, nil
}

func (r *OTPRepository) MarkVerified(ctx context.Context, id string) error {
	_, ok, err := r.codes.Update(ctx, id, func(o *domain.OTPVerification) error {
		o.Verified = true
		return nil
	})
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidOrExpiredOTP
	}

	return nil
}

// InvalidateByEmail consumes every outstanding code for email.
func (r *OTPRepository) InvalidateByEmail(ctx context.Context, email string) (int, error) {
	return r.codes.UpdateBy(ctx, func(o domain.OTPVerification) bool {
		return strings.EqualFold(o.Email, email) && !o.Verified
	}, func(o *domain.OTPVerification) {
		o.Verified = true
	})
}
