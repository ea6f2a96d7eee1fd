package metadata

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"pumpfun-monitor/internal/solana"
)

// metaplexProgramID is the Metaplex Token Metadata program.
const metaplexProgramID = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"

// OnChainResolver resolves a token's metadata URI from its on-chain Metaplex
// metadata account. Used when a creation event carries an empty uri.
type OnChainResolver struct {
	rpc solana.RPCClient
}

// NewOnChainResolver creates a resolver backed by the given RPC client.
func NewOnChainResolver(rpc solana.RPCClient) *OnChainResolver {
	return &OnChainResolver{rpc: rpc}
}

// ResolveURI derives the mint's metadata PDA, fetches the account and
// extracts the uri field. Returns an empty string if the account does not
// exist or carries no uri.
func (r *OnChainResolver) ResolveURI(ctx context.Context, mint string) (string, error) {
	pda := deriveMetadataPDA(mint)
	if pda == "" {
		return "", fmt.Errorf("derive metadata pda for %s", mint)
	}

	info, err := r.rpc.GetAccountInfo(ctx, pda)
	if err != nil {
		return "", fmt.Errorf("get metadata account: %w", err)
	}
	if info == nil || info.Data == "" {
		return "", nil
	}

	return parseMetadataURI(info.Data)
}

// parseMetadataURI extracts the uri from Metaplex Token Metadata account data.
// Layout: key(1) + updateAuthority(32) + mint(32), then borsh strings
// (u32-LE length + bytes) for name, symbol, uri.
func parseMetadataURI(data string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("decode metadata account data: %w", err)
	}

	if len(decoded) < 66 {
		return "", fmt.Errorf("metadata account data too short: %d", len(decoded))
	}
	if decoded[0] != 4 { // MetadataV1 key
		return "", fmt.Errorf("unexpected metadata key %d", decoded[0])
	}

	offset := 65
	for i := 0; i < 2; i++ { // skip name, symbol
		if offset+4 > len(decoded) {
			return "", fmt.Errorf("metadata string %d truncated", i)
		}
		length := int(binary.LittleEndian.Uint32(decoded[offset:]))
		offset += 4 + length
		if offset > len(decoded) {
			return "", fmt.Errorf("metadata string %d truncated", i)
		}
	}

	if offset+4 > len(decoded) {
		return "", fmt.Errorf("metadata uri truncated")
	}
	length := int(binary.LittleEndian.Uint32(decoded[offset:]))
	offset += 4
	if length > len(decoded)-offset {
		return "", fmt.Errorf("metadata uri truncated")
	}

	return strings.TrimRight(string(decoded[offset:offset+length]), "\x00"), nil
}

// deriveMetadataPDA derives the Metaplex metadata PDA for a given mint.
// Seeds: ["metadata", metaplex_program_id, mint].
func deriveMetadataPDA(mint string) string {
	mintBytes, err := base58.Decode(mint)
	if err != nil {
		return ""
	}
	programBytes, err := base58.Decode(metaplexProgramID)
	if err != nil {
		return ""
	}
	if len(mintBytes) != 32 || len(programBytes) != 32 {
		return ""
	}

	seeds := [][]byte{
		[]byte("metadata"),
		programBytes,
		mintBytes,
	}
	return derivePDA(seeds, programBytes)
}

// derivePDA derives a Program Derived Address using the Solana algorithm:
// sha256 of seeds + bump + program id + "ProgramDerivedAddress", taking the
// highest bump whose hash falls off the ed25519 curve.
func derivePDA(seeds [][]byte, programID []byte) string {
	for bump := byte(255); bump > 0; bump-- {
		data := make([]byte, 0)
		for _, seed := range seeds {
			data = append(data, seed...)
		}
		data = append(data, bump)
		data = append(data, programID...)
		data = append(data, []byte("ProgramDerivedAddress")...)

		hash := sha256.Sum256(data)

		if !isOnCurve(hash[:]) {
			return base58.Encode(hash[:])
		}
	}

	return ""
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
