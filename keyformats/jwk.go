// Package keyformats exports and imports identity.Identity keypairs as
// JSON Web Keys (RFC 8037 OKP/Ed25519), narrowed from the teacher's
// crypto/formats/jwk.go -- which handles Ed25519, secp256k1, X25519, and
// RSA -- down to the single key type this module's Identity uses, and its
// RFC 7638 thumbprint helper for computing a stable key ID.
package keyformats

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chunkproto/chunkcrypt/identity"
)

// JWK is a JSON Web Key restricted to the OKP/Ed25519 fields this package
// produces and consumes.
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`           // public key
	D   string `json:"d,omitempty"` // private seed, omitted from public exports
	Kid string `json:"kid,omitempty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg"`
}

var errNotEd25519OKP = errors.New("keyformats: not an OKP/Ed25519 JWK")

// Export encodes id's full keypair, including its private seed, as JSON.
// kid is an optional caller-chosen key identifier.
func Export(id *identity.Identity, kid string) ([]byte, error) {
	sk := id.SigSK()
	if len(sk) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("keyformats: secret key is %d bytes, want %d", len(sk), ed25519.PrivateKeySize)
	}
	seed := ed25519.PrivateKey(sk).Seed()

	jwk := JWK{
		Kty: "OKP",
		Crv: "Ed25519",
		X:   base64.RawURLEncoding.EncodeToString(id.SigPK[:]),
		D:   base64.RawURLEncoding.EncodeToString(seed),
		Kid: kid,
		Use: "sig",
		Alg: "EdDSA",
	}
	return json.Marshal(jwk)
}

// ExportPublic encodes only id's public key as JSON, suitable for
// distributing to peers.
func ExportPublic(id *identity.Identity, kid string) ([]byte, error) {
	jwk := JWK{
		Kty: "OKP",
		Crv: "Ed25519",
		X:   base64.RawURLEncoding.EncodeToString(id.SigPK[:]),
		Kid: kid,
		Use: "sig",
		Alg: "EdDSA",
	}
	return json.Marshal(jwk)
}

// Import decodes a full JWK (with its private seed) back into an Identity.
func Import(data []byte) (*identity.Identity, error) {
	var jwk JWK
	if err := json.Unmarshal(data, &jwk); err != nil {
		return nil, fmt.Errorf("keyformats: unmarshaling JWK: %w", err)
	}
	if jwk.Kty != "OKP" || jwk.Crv != "Ed25519" {
		return nil, errNotEd25519OKP
	}
	if jwk.D == "" {
		return nil, errors.New("keyformats: JWK has no private key component")
	}

	seed, err := base64.RawURLEncoding.DecodeString(jwk.D)
	if err != nil {
		return nil, fmt.Errorf("keyformats: decoding seed: %w", err)
	}
	return identity.KeypairFromSeed(seed)
}

// ImportPublic decodes a public-only JWK into a raw Ed25519 public key.
func ImportPublic(data []byte) (ed25519.PublicKey, error) {
	var jwk JWK
	if err := json.Unmarshal(data, &jwk); err != nil {
		return nil, fmt.Errorf("keyformats: unmarshaling JWK: %w", err)
	}
	if jwk.Kty != "OKP" || jwk.Crv != "Ed25519" {
		return nil, errNotEd25519OKP
	}

	pk, err := base64.RawURLEncoding.DecodeString(jwk.X)
	if err != nil {
		return nil, fmt.Errorf("keyformats: decoding public key: %w", err)
	}
	if len(pk) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("keyformats: public key is %d bytes, want %d", len(pk), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(pk), nil
}

// Thumbprint computes the RFC 7638 JWK thumbprint over the key's required
// OKP members (kty, crv, x), in the canonical lexicographic field order.
func (j JWK) Thumbprint() (string, error) {
	canonical := fmt.Sprintf(`{"crv":%q,"kty":%q,"x":%q}`, j.Crv, j.Kty, j.X)
	sum := sha256.Sum256([]byte(canonical))
	return base64.RawURLEncoding.EncodeToString(sum[:]), nil
}
