package app

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"
)

// DefaultAuthFile is the auth file name next to the binary.
const DefaultAuthFile = "auth.secret"

// Argon2id parameters (OWASP recommended)
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

// Authenticator enforces basic auth with an argon2id-hashed password for
// the admin surface. A nil hash means no auth file was found: requests
// pass through, which is only acceptable for local development.
type Authenticator struct {
	user string
	hash []byte
	log  *logrus.Logger
}

// ResolveAuthFile returns the auth file path: the given path when set,
// otherwise DefaultAuthFile next to the executable.
func ResolveAuthFile(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	execPath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to get executable path: %w", err)
	}
	return filepath.Join(filepath.Dir(execPath), DefaultAuthFile), nil
}

// LoadAuthenticator reads credentials from the auth file (format
// "username:hash"). A missing file yields an open authenticator with a
// logged warning instead of an error.
func LoadAuthenticator(path string, logger *logrus.Logger) (*Authenticator, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	resolved, err := ResolveAuthFile(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warnf("No auth file found at %s - admin API is UNPROTECTED", resolved)
			logger.Warn("This is for local development only. Create one with: abfall-feed hash-password")
			return &Authenticator{log: logger}, nil
		}
		return nil, fmt.Errorf("failed to read auth file: %w", err)
	}

	line := strings.TrimSpace(string(data))
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid auth file format (expected: username:hash)")
	}

	logger.Infof("Basic auth enabled for admin API (user: %s, file: %s)", parts[0], resolved)
	return &Authenticator{user: parts[0], hash: []byte(parts[1]), log: logger}, nil
}

// Require is a middleware that enforces basic auth with argon2id.
func (a *Authenticator) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// No auth file loaded: dev mode, skip auth.
		if a.hash == nil {
			next(w, r)
			return
		}

		user, pass, ok := r.BasicAuth()

		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(a.user)) == 1

		passMatch := false
		if ok && userMatch {
			var err error
			passMatch, err = VerifyPassword(pass, string(a.hash))
			if err != nil {
				a.log.Errorf("Error verifying password: %v", err)
				passMatch = false
			}
		}

		if !ok || !userMatch || !passMatch {
			w.Header().Set("WWW-Authenticate", `Basic realm="Abfall-Feed Admin"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			a.log.Warnf("Failed auth attempt from %s (user: %s)", r.RemoteAddr, user)
			return
		}

		next(w, r)
	}
}

// HashPassword creates an argon2id hash of the password.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// Encode as: $argon2id$v=19$m=65536,t=1,p=4$salt$hash
	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argon2Memory, argon2Time, argon2Threads, b64Salt, b64Hash), nil
}

// VerifyPassword verifies a password against an argon2id hash.
func VerifyPassword(password, hash string) (bool, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return false, fmt.Errorf("not an argon2id hash")
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, fmt.Errorf("failed to parse hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %w", err)
	}
	decodedHash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %w", err)
	}

	computedHash := argon2.IDKey([]byte(password), salt, time, memory, uint8(threads), uint32(len(decodedHash)))

	return subtle.ConstantTimeCompare(decodedHash, computedHash) == 1, nil
}

// CreateAuthFile writes an auth file with username and hashed password.
// The file is created read-only (0400); an existing file is only replaced
// when overwrite is set.
func CreateAuthFile(path, username, password string, overwrite bool) error {
	resolved, err := ResolveAuthFile(path)
	if err != nil {
		return err
	}

	if _, err := os.Stat(resolved); err == nil {
		if !overwrite {
			return fmt.Errorf("auth file already exists: %s (use --overwrite to replace)", resolved)
		}
		// Remove first because the file is 0400 read-only.
		if err := os.Remove(resolved); err != nil {
			return fmt.Errorf("failed to remove existing auth file: %w", err)
		}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	content := fmt.Sprintf("%s:%s\n", username, hash)
	if err := os.WriteFile(resolved, []byte(content), 0400); err != nil {
		return fmt.Errorf("failed to write auth file: %w", err)
	}

	fmt.Printf("Auth file created: %s (mode: 0400 read-only)\n", resolved)
	fmt.Printf("Username: %s\n", username)
	return nil
}
