package entity

import "time"

// EmailOTP is a pending signup: the code plus the account fields staged
// until the code is verified. One row per email.
type EmailOTP struct {
	Email        string    `db:"email"`
	OTPCode      string    `db:"otp_code"`
	CreatedAt    time.Time `db:"created_at"`
	IsVerified   bool      `db:"is_verified"`
	Attempts     int       `db:"attempts"`
	Username     string    `db:"username"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	PasswordHash string    `db:"password_hash"`
}

// IsExpired reports whether the code is older than validity at now.
func (o *EmailOTP) IsExpired(now time.Time, validity time.Duration) bool {
	return now.After(o.CreatedAt.Add(validity))
}
