// Package envelope implements the hybrid per-frame crypto envelope: a
// one-way session key derived from two Ed25519 identities via X25519
// conversion and the kx construction, then ChaCha20-Poly1305 AEAD sealing
// of a fixed-size plaintext block with caller-supplied associated data.
//
// The sender always takes the kx "server" role and the receiver the
// "client" role; the sender seals with the server's tx key and the
// receiver opens with the client's rx key, which is the same key. This
// asymmetry is load-bearing -- see design note "Implicit role asymmetry in
// kx" -- and must not be swapped.
package envelope

import (
	"fmt"

	"github.com/chunkproto/chunkcrypt/chunkerr"
	"github.com/chunkproto/chunkcrypt/internal/secretbuf"
	"github.com/chunkproto/chunkcrypt/primitives"
)

// NonceLen and TagLen mirror the spec's AEAD_NONCE and AEAD_TAG sizes.
const (
	NonceLen = primitives.AEADNonceLen
	TagLen   = primitives.AEADTagLen
)

// Encrypt seals data against the receiver's Ed25519 public key, signed
// implicitly by the sender's long-term secret key only insofar as it feeds
// the session-key derivation (the frame-level signature over the ephemeral
// public key is a separate, frame package concern). Output is
// nonce‖ciphertext‖tag.
func Encrypt(data []byte, receiverSigPK [primitives.SigPKLen]byte, senderSigSK []byte, nonce [NonceLen]byte, ad []byte) ([]byte, error) {
	senderXSKBytes, err := primitives.Ed25519PrivateKeyToX25519(senderSigSK)
	if err != nil {
		return nil, err
	}
	senderXSK := secretbuf.NewFrom(senderXSKBytes[:])
	defer senderXSK.Wipe()

	senderXPK, err := primitives.X25519ScalarBaseMult(senderXSKBytes)
	if err != nil {
		return nil, err
	}

	receiverXPK, err := primitives.Ed25519PublicKeyToX25519(receiverSigPK[:])
	if err != nil {
		return nil, err
	}

	var senderSK [primitives.KXKeyLen]byte
	copy(senderSK[:], senderXSK.Bytes())
	_, tx, err := primitives.KXServerSessionKeys(senderXPK, senderSK, receiverXPK)
	if err != nil {
		return nil, err
	}
	txBuf := secretbuf.NewFrom(tx[:])
	defer txBuf.Wipe()
	var txKey [primitives.AEADKeyLen]byte
	copy(txKey[:], txBuf.Bytes())

	ctWithTag, err := primitives.AEADEncrypt(txKey, nonce, data, ad)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, NonceLen+len(ctWithTag))
	out = append(out, nonce[:]...)
	out = append(out, ctWithTag...)
	return out, nil
}

// Decrypt opens an envelope produced by Encrypt from the sender's Ed25519
// public key and the receiver's long-term secret key.
func Decrypt(encrypted []byte, senderSigPK [primitives.SigPKLen]byte, receiverSigSK []byte, ad []byte) ([]byte, error) {
	if len(encrypted) < NonceLen+TagLen {
		return nil, fmt.Errorf("%w: envelope too short: %d bytes", chunkerr.ErrPrimitive, len(encrypted))
	}

	receiverXSKBytes, err := primitives.Ed25519PrivateKeyToX25519(receiverSigSK)
	if err != nil {
		return nil, err
	}
	receiverXSK := secretbuf.NewFrom(receiverXSKBytes[:])
	defer receiverXSK.Wipe()

	receiverXPK, err := primitives.X25519ScalarBaseMult(receiverXSKBytes)
	if err != nil {
		return nil, err
	}

	senderXPK, err := primitives.Ed25519PublicKeyToX25519(senderSigPK[:])
	if err != nil {
		return nil, err
	}

	var receiverSK [primitives.KXKeyLen]byte
	copy(receiverSK[:], receiverXSK.Bytes())
	rx, _, err := primitives.KXClientSessionKeys(receiverXPK, receiverSK, senderXPK)
	if err != nil {
		return nil, err
	}
	rxBuf := secretbuf.NewFrom(rx[:])
	defer rxBuf.Wipe()
	var rxKey [primitives.AEADKeyLen]byte
	copy(rxKey[:], rxBuf.Bytes())

	var nonce [NonceLen]byte
	copy(nonce[:], encrypted[:NonceLen])
	ctWithTag := encrypted[NonceLen:]

	return primitives.AEADDecrypt(rxKey, nonce, ctWithTag, ad)
}
