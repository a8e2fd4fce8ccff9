package sanitize

// DefaultRedaction is the token substituted for sensitive values.
const DefaultRedaction = "[REDACTED]"

// DefaultSensitiveKeys lists header and dictionary key names whose values
// are redacted by default. Matching is case-insensitive.
var DefaultSensitiveKeys = []string{
	"authorization",
	"proxy-authorization",
	"cookie",
	"set-cookie",
	"x-api-key",
	"x-auth-token",
	"x-csrf-token",
	"api-key",
	"apikey",
	"api_key",
	"token",
	"access_token",
	"refresh_token",
	"id_token",
	"password",
	"passwd",
	"secret",
	"client_secret",
	"private_key",
	"session",
	"session_id",
	"credential",
	"credentials",
}

// DefaultSensitiveParams lists query parameter names redacted by default
// when sanitizing URIs. Matching is case-insensitive.
var DefaultSensitiveParams = []string{
	"token",
	"access_token",
	"refresh_token",
	"id_token",
	"api_key",
	"apikey",
	"key",
	"password",
	"secret",
	"client_secret",
	"signature",
	"sig",
	"auth",
	"credential",
	"code",
}
