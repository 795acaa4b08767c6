// Package fed holds the node's federation identity: a did:key identifier
// derived from an ed25519 keypair, persisted alongside the user config so
// the node keeps the same identity across restarts.
package fed

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"github.com/loomworks/loom/am"
	"github.com/loomworks/loom/errors"
)

const identityFileName = "identity.json"

// Identity holds the node's DID and keypair, plus the rendered DID document.
type Identity struct {
	DID        string
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey

	didDocument []byte
}

// identityFile is the on-disk representation. Keys are hex-encoded; the DID
// is stored redundantly so the file is self-describing.
type identityFile struct {
	DID        string `json:"did"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key"`
}

// New loads the node identity from dir, or generates and persists one on
// first boot. An empty dir falls back to the user config directory.
func New(dir string, log *zap.SugaredLogger) (*Identity, error) {
	if dir == "" {
		dir = am.UserConfigDir()
	}
	path := filepath.Join(dir, identityFileName)

	id, err := load(path)
	if err != nil {
		return nil, err
	}

	if id == nil {
		id, err = generate()
		if err != nil {
			return nil, err
		}
		if err := save(path, id); err != nil {
			return nil, err
		}
		log.Infow("Generated node DID", "did", id.DID)
	} else {
		log.Infow("Loaded node DID", "did", id.DID)
	}

	doc, err := buildDIDDocument(id.DID, id.PublicKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build DID document")
	}
	id.didDocument = doc

	return id, nil
}

func load(path string) (*Identity, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read identity file")
	}

	var file identityFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "malformed identity file at %s", path)
	}

	pub, err := hex.DecodeString(file.PublicKey)
	if err != nil || len(pub) != ed25519.PublicKeySize {
		return nil, errors.Newf("invalid public key in %s", path)
	}
	priv, err := hex.DecodeString(file.PrivateKey)
	if err != nil || len(priv) != ed25519.PrivateKeySize {
		return nil, errors.Newf("invalid private key in %s", path)
	}

	return &Identity{
		DID:        file.DID,
		PublicKey:  ed25519.PublicKey(pub),
		PrivateKey: ed25519.PrivateKey(priv),
	}, nil
}

func save(path string, id *Identity) error {
	if err := os.MkdirAll(filepath.Dir(path), am.DefaultDirPermissions); err != nil {
		return errors.Wrap(err, "failed to create identity directory")
	}

	data, err := json.MarshalIndent(identityFile{
		DID:        id.DID,
		PublicKey:  hex.EncodeToString(id.PublicKey),
		PrivateKey: hex.EncodeToString(id.PrivateKey),
	}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal identity")
	}

	// Private key material: owner-only.
	if err := os.WriteFile(path, data, am.IdentityPermissions); err != nil {
		return errors.Wrap(err, "failed to write identity file")
	}
	return nil
}

// Sign signs a message with the node's private key. Used to prove control
// of the DID to federation peers; lattice nodes themselves are never signed.
func (id *Identity) Sign(message []byte) []byte {
	return ed25519.Sign(id.PrivateKey, message)
}

// Verify reports whether sig is a valid signature of message by this
// identity's public key.
func (id *Identity) Verify(message, sig []byte) bool {
	return ed25519.Verify(id.PublicKey, message, sig)
}

func generate() (*Identity, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate ed25519 keypair")
	}
	return &Identity{
		DID:        EncodeDIDKey(pub),
		PublicKey:  pub,
		PrivateKey: priv,
	}, nil
}

// EncodeDIDKey encodes an ed25519 public key as a did:key identifier.
// Format: did:key:z + base58btc(0xed 0x01 + 32-byte pubkey)
func EncodeDIDKey(pub ed25519.PublicKey) string {
	// Multicodec prefix for ed25519-pub: 0xed, 0x01
	buf := make([]byte, 2+len(pub))
	buf[0] = 0xed
	buf[1] = 0x01
	copy(buf[2:], pub)
	return "did:key:z" + base58.Encode(buf)
}

type didDocument struct {
	Context            string               `json:"@context"`
	ID                 string               `json:"id"`
	VerificationMethod []verificationMethod `json:"verificationMethod"`
	Authentication     []string             `json:"authentication"`
}

type verificationMethod struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Controller         string `json:"controller"`
	PublicKeyMultibase string `json:"publicKeyMultibase"`
}

func buildDIDDocument(did string, pub ed25519.PublicKey) ([]byte, error) {
	// The fragment is the multibase-encoded public key (same as the method-specific-id)
	fragment := did[len("did:key:"):]
	vmID := did + "#" + fragment

	doc := didDocument{
		Context: "https://www.w3.org/ns/did/v1",
		ID:      did,
		VerificationMethod: []verificationMethod{{
			ID:                 vmID,
			Type:               "Ed25519VerificationKey2020",
			Controller:         did,
			PublicKeyMultibase: fragment,
		}},
		Authentication: []string{vmID},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal DID document")
	}
	return data, nil
}
