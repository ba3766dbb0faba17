package mfa

type Config struct {
	Enabled            bool   `env:"MFA_ENABLED" envDefault:"true"`               // Enabled is the global MFA switch; when false every verification succeeds unconditionally.
	Required           bool   `env:"MFA_REQUIRED" envDefault:"false"`             // Required fails verification for owners without an enabled factor instead of waving them through.
	Issuer             string `env:"MFA_ISSUER" envDefault:"PBX"`                 // Issuer is the service name shown in authenticator apps.
	MasterKey          string `env:"MFA_MASTER_KEY"`                              // MasterKey is the base64-encoded server-side key secrets are encrypted under. Generate with cmd/mfakeygen.
	HardwareOTPEnabled bool   `env:"MFA_HARDWARE_OTP_ENABLED" envDefault:"false"` // HardwareOTPEnabled allows 44-character hardware-token OTPs in the verification ladder.
	BackupCodeCount    int    `env:"MFA_BACKUP_CODE_COUNT" envDefault:"10"`       // BackupCodeCount is the number of recovery codes issued per enrollment.
	TOTPPeriod         int    `env:"MFA_TOTP_PERIOD" envDefault:"30"`             // TOTPPeriod is the code validity period in seconds.
	TOTPDigits         int    `env:"MFA_TOTP_DIGITS" envDefault:"6"`              // TOTPDigits is the number of digits in generated codes.
	TOTPSkewWindow     int    `env:"MFA_TOTP_SKEW_WINDOW" envDefault:"1"`         // TOTPSkewWindow is the clock-skew tolerance in periods on either side.
}
