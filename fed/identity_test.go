package fed

import (
	"crypto/ed25519"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func TestGenerateAndPersist(t *testing.T) {
	dir := t.TempDir()

	// First call generates a new identity
	id1, err := New(dir, testLogger())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id1.DID, "did:key:z"))
	assert.Len(t, id1.PublicKey, ed25519.PublicKeySize)
	assert.Len(t, id1.PrivateKey, ed25519.PrivateKeySize)

	// Second call loads the same identity
	id2, err := New(dir, testLogger())
	require.NoError(t, err)
	assert.Equal(t, id1.DID, id2.DID)
	assert.Equal(t, id1.PublicKey, id2.PublicKey)
	assert.Equal(t, id1.PrivateKey, id2.PrivateKey)
}

func TestIdentityFilePermissions(t *testing.T) {
	dir := t.TempDir()

	_, err := New(dir, testLogger())
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, identityFileName))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestDIDKeyEncoding(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	did := EncodeDIDKey(pub)
	assert.True(t, strings.HasPrefix(did, "did:key:z"))
	// z + base58btc(2 byte prefix + 32 byte key) should be reasonably long
	assert.Greater(t, len(did), 40)
}

func TestDIDDocument(t *testing.T) {
	id, err := New(t.TempDir(), testLogger())
	require.NoError(t, err)

	var doc didDocument
	err = json.Unmarshal(id.didDocument, &doc)
	require.NoError(t, err)

	assert.Equal(t, "https://www.w3.org/ns/did/v1", doc.Context)
	assert.Equal(t, id.DID, doc.ID)
	require.Len(t, doc.VerificationMethod, 1)
	assert.Equal(t, "Ed25519VerificationKey2020", doc.VerificationMethod[0].Type)
	assert.Equal(t, id.DID, doc.VerificationMethod[0].Controller)
	require.Len(t, doc.Authentication, 1)
	assert.Equal(t, doc.VerificationMethod[0].ID, doc.Authentication[0])
}

func TestHandleDIDDocument(t *testing.T) {
	id, err := New(t.TempDir(), testLogger())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/.well-known/did.json", nil)
	rec := httptest.NewRecorder()

	id.HandleDIDDocument(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/did+json", rec.Header().Get("Content-Type"))

	var doc didDocument
	err = json.Unmarshal(rec.Body.Bytes(), &doc)
	require.NoError(t, err)
	assert.Equal(t, id.DID, doc.ID)
}

func TestMalformedIdentityFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, identityFileName), []byte("not json"), 0600))

	_, err := New(dir, testLogger())
	assert.Error(t, err)
}

func TestSignAndVerify(t *testing.T) {
	id, err := New(t.TempDir(), testLogger())
	require.NoError(t, err)

	msg := []byte("hello from this node")
	sig := id.Sign(msg)
	assert.True(t, id.Verify(msg, sig))
	assert.False(t, id.Verify([]byte("tampered"), sig))

	// Round-trips through the raw keypair too
	rawSig := ed25519.Sign(id.PrivateKey, msg)
	assert.True(t, id.Verify(msg, rawSig))
}
