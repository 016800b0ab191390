// Package keys manages the local SSH keypair the onboarding workflow ensures,
// displays, and loads into the agent. Generation is delegated to ssh-keygen.
package keys

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/rileyhilliard/gitstrap/internal/errors"
	"github.com/rileyhilliard/gitstrap/internal/exec"
)

// KeyInfo contains information about an SSH key.
type KeyInfo struct {
	Path       string // Full path to private key
	Type       string // Key type (ed25519, rsa, ecdsa)
	PublicPath string // Path to public key
	HasPublic  bool   // Whether public key file exists
}

// Inspect resolves path and reports the state of the keypair there.
func Inspect(path string) (KeyInfo, error) {
	resolved, err := ExpandPath(path)
	if err != nil {
		return KeyInfo{}, err
	}

	pubPath := resolved + ".pub"
	_, pubErr := os.Stat(pubPath)

	return KeyInfo{
		Path:       resolved,
		Type:       inferKeyType(resolved),
		PublicPath: pubPath,
		HasPublic:  pubErr == nil,
	}, nil
}

// Ensure checks for a usable keypair at path and generates one if the public
// key file is absent. Returns the key info and whether a key was generated.
// Idempotent: an existing keypair is never touched.
func Ensure(ctx context.Context, path, keyType, comment string) (KeyInfo, bool, error) {
	info, err := Inspect(path)
	if err != nil {
		return KeyInfo{}, false, err
	}

	if info.HasPublic {
		return info, false, nil
	}

	if err := Generate(ctx, info.Path, keyType, comment); err != nil {
		return KeyInfo{}, false, err
	}

	info, err = Inspect(path)
	if err != nil {
		return KeyInfo{}, false, err
	}
	if !info.HasPublic {
		return KeyInfo{}, false, errors.New(errors.ErrSSH,
			"Key generation completed but the public key file is missing",
			"Check disk space and permissions on "+filepath.Dir(info.Path))
	}

	return info, true, nil
}

// Generate creates a new SSH key pair with no passphrase using ssh-keygen.
func Generate(ctx context.Context, path, keyType, comment string) error {
	if keyType == "" {
		keyType = "ed25519"
	}

	validTypes := map[string]bool{
		"ed25519": true,
		"rsa":     true,
		"ecdsa":   true,
	}
	if !validTypes[keyType] {
		return errors.New(errors.ErrSSH,
			fmt.Sprintf("Invalid key type: %s", keyType),
			"Supported types: ed25519 (recommended), rsa, ecdsa")
	}

	resolved, err := ExpandPath(path)
	if err != nil {
		return err
	}

	// Ensure .ssh directory exists
	sshDir := filepath.Dir(resolved)
	if err := os.MkdirAll(sshDir, 0700); err != nil {
		return errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Failed to create SSH directory: %s", sshDir),
			"Check permissions on home directory")
	}

	// Refuse to clobber an existing private key
	if _, err := os.Stat(resolved); err == nil {
		return errors.New(errors.ErrSSH,
			fmt.Sprintf("Key already exists at %s", resolved),
			"Choose a different path or delete the existing key")
	}

	if comment == "" {
		comment = fmt.Sprintf("gitstrap-generated-%s", keyType)
	}

	args := []string{
		"-t", keyType,
		"-f", resolved,
		"-N", "", // Empty passphrase (user can add one later)
		"-C", comment,
	}

	// For RSA, specify key size
	if keyType == "rsa" {
		args = append(args, "-b", "4096")
	}

	res, err := exec.Capture(ctx, "ssh-keygen", args...)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return errors.New(errors.ErrSSH,
			fmt.Sprintf("Failed to generate SSH key: %s", res.Combined()),
			"Ensure ssh-keygen is installed and accessible")
	}

	return nil
}

// ReadPublicKey reads the contents of a public key file.
func ReadPublicKey(pubPath string) (string, error) {
	data, err := os.ReadFile(pubPath)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrSSH,
			fmt.Sprintf("Failed to read public key: %s", pubPath),
			"Check that the file exists and is readable")
	}
	return strings.TrimSpace(string(data)), nil
}

// Fingerprint returns the SHA256 fingerprint of a public key in
// authorized_keys format.
func Fingerprint(pubKey string) (string, error) {
	parsed, _, _, _, err := ssh.ParseAuthorizedKey([]byte(pubKey))
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrSSH,
			"Couldn't parse the public key",
			"The .pub file may be corrupt; regenerate the keypair")
	}
	return ssh.FingerprintSHA256(parsed), nil
}

// ExpandPath resolves a leading ~ against the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrSSH,
			"Failed to determine home directory",
			"Set HOME environment variable")
	}
	return filepath.Join(home, path[1:]), nil
}

// inferKeyType determines key type from filename.
func inferKeyType(path string) string {
	base := filepath.Base(path)
	switch {
	case strings.Contains(base, "ed25519"):
		return "ed25519"
	case strings.Contains(base, "ecdsa"):
		return "ecdsa"
	case strings.Contains(base, "rsa"):
		return "rsa"
	default:
		return "unknown"
	}
}
