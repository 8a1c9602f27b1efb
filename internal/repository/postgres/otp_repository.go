package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecomStore/domain"

	"gorm.io/gorm"
)

type OTPRepository struct {
	DB *gorm.DB
}

func NewOTPRepository(db *gorm.DB) *OTPRepository {
	return &OTPRepository{
		DB: db,
	}
}

func (r *OTPRepository) Create(ctx context.Context, otp *domain.OTPVerification) error {
	if err := conn(ctx, r.DB).Create(otp).Error; err != nil {
		return fmt.Errorf("failed to create otp: %w", err)
	}

	return nil
}

func (r *OTPRepository) FindUsable(ctx context.Context, email, code string, now time.Time) (domain.OTPVerification, error) {
	var otp domain.OTPVerification

	err := conn(ctx, r.DB).
		Where("LOWER(email) = LOWER(?) AND otp = ? AND verified = ? AND expires_at > ?", email, code, false, now).
		Order("created_at DESC").
		First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.OTPVerification{}, domain.ErrInvalidOrExpiredOTP
		}
		return domain.OTPVerification{}, fmt.Errorf("failed to find otp: %w", err)
	}

	return otp, nil
}

func (r *OTPRepository) MarkVerified(ctx context.Context, id string) error {
	result := conn(ctx, r.DB).Model(&domain.OTPVerification{}).Where("id = ?", id).Update("verified", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark otp verified: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrInvalidOrExpiredOTP
	}

	return nil
}

func (r *OTPRepository) InvalidateByEmail(ctx context.Context, email string) (int, error) {
	result := conn(ctx, r.DB).Model(&domain.OTPVerification{}).
		Where("LOWER(email) = LOWER(?) AND verified = ?", email, false).
		Update("verified", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to invalidate otp: %w", result.Error)
	}

	return int(result.RowsAffected), nil
}
