package render

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/stemsi/historico-backend/internal/model"
	"golang.org/x/crypto/blake2b"
)

const digestLength = 32

type digestInput struct {
	Student model.TranscriptStudent `json:"student"`
	Blocks  []model.TranscriptBlock `json:"blocks"`
}

// Digest fingerprints the transcript content printed on a document. It is
// the first 32 hex characters of BLAKE2b-256 over the JSON encoding of the
// student and blocks, so identical records always carry the same value.
func Digest(t *model.Transcript) (string, error) {
	if t == nil {
		return "", fmt.Errorf("%w: nil transcript", ErrRenderFailure)
	}
	payload, err := json.Marshal(digestInput{Student: t.Student, Blocks: t.Blocks})
	if err != nil {
		return "", fmt.Errorf("%w: encode digest input: %v", ErrRenderFailure, err)
	}
	sum := blake2b.Sum256(payload)
	return hex.EncodeToString(sum[:])[:digestLength], nil
}
