// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, logging, CORS, body limits); this
// struct carries what the site itself needs.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: stratasite-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Maximum session cookie lifetime (default: 24h)

	// CSRF protection configuration
	CSRFKey string // Secret key for CSRF token signing (32 bytes, must be strong in production)

	// Bearer tokens for the JSON API
	TokenSecret    string        // HMAC secret for signing API tokens
	TokenTTL       time.Duration // Lifetime of an issued token (default: 24h)
	APICORSOrigins []string      // Origins allowed to call /api from a browser (empty allows any)

	// Media storage configuration
	StorageType      string // Media backend: "local", "s3" or "none"
	StorageLocalPath string // Local storage path (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/media")
	UploadTimeout    time.Duration

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region    string // AWS region
	StorageS3Bucket    string // S3 bucket name
	StorageS3Prefix    string // Key prefix (e.g., "uploads/")
	StorageCFURL       string // CloudFront distribution URL
	StorageCFKeyPairID string // CloudFront key pair ID
	StorageCFKeyPath   string // Path to CloudFront private key file

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@example.com)
	MailFromName string // From display name

	// ContactNotifyEmail receives a notice for each contact submission.
	// Blank disables the notice.
	ContactNotifyEmail string

	// Base URL for links in emails (e.g., "https://example.com")
	BaseURL string

	// DefaultLocale is used when neither the URL, cookie nor Accept-Language
	// picks one ("en" or "ar").
	DefaultLocale string

	// Admin seeding configuration. The admin is created only when the
	// database has no admin yet and both email and password are set.
	SeedAdminEmail    string
	SeedAdminName     string
	SeedAdminPassword string
}
