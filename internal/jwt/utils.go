// internal/jwt/utils.go
package jwt

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-jwt/jwt/v4"
)

// getOrLoadPrivateKey returns the cached private key for path, reading the PEM file on first use
func getOrLoadPrivateKey(path string) (ed25519.PrivateKey, error) {
	key, err := loadCachedKey("private:"+path, path, "PRIVATE KEY", func(data []byte) (any, error) {
		return jwt.ParseEdPrivateKeyFromPEM(data)
	})
	if err != nil {
		return nil, err
	}
	priv, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("not an Ed25519 private key")
	}
	return priv, nil
}

// getOrLoadPublicKey returns the cached public key for path, reading the PEM file on first use
func getOrLoadPublicKey(path string) (ed25519.PublicKey, error) {
	key, err := loadCachedKey("public:"+path, path, "PUBLIC KEY", func(data []byte) (any, error) {
		return jwt.ParseEdPublicKeyFromPEM(data)
	})
	if err != nil {
		return nil, err
	}
	pub, ok := key.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("not an Ed25519 public key")
	}
	return pub, nil
}

func loadCachedKey(cacheKey, path, blockType string, parse func([]byte) (any, error)) (any, error) {
	keyCacheLock.RLock()
	cached, exists := keyCache[cacheKey]
	keyCacheLock.RUnlock()
	if exists {
		return cached, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, errors.New("failed to decode PEM block")
	}
	if block.Type != blockType {
		return nil, fmt.Errorf("expected PEM block %q, got %q", blockType, block.Type)
	}

	key, err := parse(data)
	if err != nil {
		return nil, err
	}

	keyCacheLock.Lock()
	keyCache[cacheKey] = key
	keyCacheLock.Unlock()

	return key, nil
}

// GenerateKeyPair generates a new Ed25519 key pair and saves to PEM files
func GenerateKeyPair(privateKeyPath, publicKeyPath string) error {
	publicKey, privateKey, err := ed25519.GenerateKey(nil)
	if err != nil {
		return fmt.Errorf("failed to generate key pair: %w", err)
	}

	if err := writePrivateKey(privateKeyPath, privateKey); err != nil {
		return err
	}
	return writePublicKey(publicKeyPath, publicKey)
}

// writePrivateKey stores key as a PKCS8 PEM readable only by the owner
func writePrivateKey(path string, key ed25519.PrivateKey) error {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return fmt.Errorf("failed to marshal private key: %w", err)
	}
	if err := writePEM(path, "PRIVATE KEY", der, 0o600); err != nil {
		return err
	}

	keyCacheLock.Lock()
	keyCache["private:"+path] = key
	keyCacheLock.Unlock()
	return nil
}

// writePublicKey stores key as a PKIX PEM
func writePublicKey(path string, key ed25519.PublicKey) error {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return fmt.Errorf("failed to marshal public key: %w", err)
	}
	if err := writePEM(path, "PUBLIC KEY", der, 0o644); err != nil {
		return err
	}

	keyCacheLock.Lock()
	keyCache["public:"+path] = key
	keyCacheLock.Unlock()
	return nil
}

func writePEM(path, blockType string, der []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	if err := pem.Encode(f, &pem.Block{Type: blockType, Bytes: der}); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", blockType, err)
	}
	return f.Close()
}

// ErrOrphanPublicKey is returned when a public key exists without its private key
var ErrOrphanPublicKey = errors.New("public key exists but private key is missing")

// EnsureKeyPair makes sure both key files exist and reports whether it wrote any.
// A missing public key is derived from the existing private key, so tokens
// already issued stay valid. A public key without its private key is an error.
func EnsureKeyPair(privateKeyPath, publicKeyPath string) (bool, error) {
	hasPriv, err := fileExists(privateKeyPath)
	if err != nil {
		return false, err
	}
	hasPub, err := fileExists(publicKeyPath)
	if err != nil {
		return false, err
	}

	switch {
	case hasPriv && hasPub:
		return false, nil
	case hasPriv:
		priv, err := getOrLoadPrivateKey(privateKeyPath)
		if err != nil {
			return false, fmt.Errorf("failed to load private key: %w", err)
		}
		if err := writePublicKey(publicKeyPath, priv.Public().(ed25519.PublicKey)); err != nil {
			return false, err
		}
		return true, nil
	case hasPub:
		return false, fmt.Errorf("%w: %s", ErrOrphanPublicKey, privateKeyPath)
	}

	if err := GenerateKeyPair(privateKeyPath, publicKeyPath); err != nil {
		return false, err
	}
	return true, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
}
