package main

import (
	"crypto/rand"
	"log/slog"

	"credvault/internal/platform/config"
	"credvault/pkg/encryption"
)

// payloadKey picks the encryption key: an explicit key, then a passphrase
// stretched with HKDF, then a random per-process key. The last option makes
// stored payloads unreadable after a restart and is only meant for local runs.
func payloadKey(cfg config.CryptoConfig, logger *slog.Logger) ([]byte, error) {
	switch {
	case cfg.Key != "":
		return encryption.ParseKey(cfg.Key)
	case cfg.Passphrase != "":
		return encryption.DeriveKey(cfg.Passphrase, cfg.PassphraseSalt)
	}

	logger.Warn("no ENCRYPTION_KEY or ENCRYPTION_PASSPHRASE set, using an ephemeral key")
	key := make([]byte, encryption.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
