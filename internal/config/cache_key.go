package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// VerificationQRKey returns the cache key for the QR code PNG of a verification URL.
func (r *CacheKeyStruct) VerificationQRKey(verificationURL string) string {
	sum := sha256.Sum256([]byte(verificationURL))
	return fmt.Sprintf("verify:qr:%s", hex.EncodeToString(sum[:16]))
}

var CacheKey = NewCacheKeyStruct()
