package metadata

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pumpfun-monitor/internal/solana"
)

// encodeMetadataAccount builds Metaplex metadata account data:
// key(1) + updateAuthority(32) + mint(32) + borsh strings name, symbol, uri.
func encodeMetadataAccount(name, symbol, uri string) string {
	var buf bytes.Buffer
	buf.WriteByte(4) // MetadataV1
	buf.Write(make([]byte, 64))

	for _, s := range []string{name, symbol, uri} {
		var length [4]byte
		binary.LittleEndian.PutUint32(length[:], uint32(len(s)))
		buf.Write(length[:])
		buf.WriteString(s)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func testMint(seed byte) string {
	raw := make([]byte, 32)
	for i := range raw {
		raw[i] = seed + byte(i)
	}
	return base58.Encode(raw)
}

func TestParseMetadataURI(t *testing.T) {
	data := encodeMetadataAccount("Token\x00\x00", "TKN\x00", "https://example.com/m.json\x00\x00")

	uri, err := parseMetadataURI(data)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/m.json", uri)
}

func TestParseMetadataURI_Truncated(t *testing.T) {
	data := encodeMetadataAccount("Token", "TKN", "https://example.com/m.json")
	raw, err := base64.StdEncoding.DecodeString(data)
	require.NoError(t, err)

	truncated := base64.StdEncoding.EncodeToString(raw[:len(raw)-5])
	_, err = parseMetadataURI(truncated)
	assert.Error(t, err)
}

func TestParseMetadataURI_WrongKey(t *testing.T) {
	data := encodeMetadataAccount("Token", "TKN", "uri")
	raw, _ := base64.StdEncoding.DecodeString(data)
	raw[0] = 1

	_, err := parseMetadataURI(base64.StdEncoding.EncodeToString(raw))
	assert.Error(t, err)
}

func TestDeriveMetadataPDA_Deterministic(t *testing.T) {
	mint := testMint(10)

	first := deriveMetadataPDA(mint)
	second := deriveMetadataPDA(mint)

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)

	// A PDA is a rendered 32-byte hash.
	raw, err := base58.Decode(first)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	// Different mints derive different addresses.
	assert.NotEqual(t, first, deriveMetadataPDA(testMint(77)))
}

func TestDeriveMetadataPDA_BadMint(t *testing.T) {
	assert.Empty(t, deriveMetadataPDA("not-base58-0OIl"))
	assert.Empty(t, deriveMetadataPDA(base58.Encode([]byte{1, 2, 3})))
}

// fakeRPC serves canned account data for ResolveURI tests.
type fakeRPC struct {
	data string
	err  error
}

func (f *fakeRPC) GetAccountInfo(ctx context.Context, pubkey string) (*solana.AccountInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.data == "" {
		return nil, nil
	}
	return &solana.AccountInfo{Data: f.data, Owner: metaplexProgramID}, nil
}

func TestOnChainResolver_ResolveURI(t *testing.T) {
	rpc := &fakeRPC{data: encodeMetadataAccount("Tok", "TK", "https://example.com/x.json")}
	resolver := NewOnChainResolver(rpc)

	uri, err := resolver.ResolveURI(context.Background(), testMint(3))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x.json", uri)
}

func TestOnChainResolver_MissingAccount(t *testing.T) {
	resolver := NewOnChainResolver(&fakeRPC{})

	uri, err := resolver.ResolveURI(context.Background(), testMint(3))
	require.NoError(t, err)
	assert.Empty(t, uri)
}
