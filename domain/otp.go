package domain

import "time"

// OTPVerification is one issued email verification code.
type OTPVerification struct {
	ID        string    `gorm:"primaryKey;column:id;type:text" json:"id"`
	Email     string    `gorm:"column:email;type:text;index" json:"email"`
	OTP       string    `gorm:"column:otp;type:text" json:"otp"`
	ExpiresAt time.Time `gorm:"column:expires_at" json:"expiresAt"`
	Verified  bool      `gorm:"column:verified;default:false" json:"verified"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (OTPVerification) TableName() string {
	return "otp_verifications"
}

func (o OTPVerification) GetID() string {
	return o.ID
}

func (o OTPVerification) Usable(now time.Time) bool {
	return !o.Verified && now.Before(o.ExpiresAt)
}
