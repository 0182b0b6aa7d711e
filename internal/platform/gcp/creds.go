package gcp

import (
	"strings"

	"google.golang.org/api/option"

	"github.com/yungbote/speaking-practice-backend/internal/platform/envutil"
)

// ClientOptionsFromEnv reads GOOGLE_APPLICATION_CREDENTIALS_JSON, then
// GOOGLE_APPLICATION_CREDENTIALS. A value starting with "{" is inline JSON,
// anything else is a file path. Nil means application default credentials.
func ClientOptionsFromEnv() []option.ClientOption {
	creds := envutil.String("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
	if creds == "" {
		creds = envutil.String("GOOGLE_APPLICATION_CREDENTIALS", "")
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

// HasExplicitCredentials reports whether credentials were configured through env.
func HasExplicitCredentials() bool {
	return len(ClientOptionsFromEnv()) > 0
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(s, "\u00a0", " ")), " ")
}
