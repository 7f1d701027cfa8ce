package primitives

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunkproto/chunkcrypt/chunkerr"
)

func TestEd25519SignVerifyRoundTrip(t *testing.T) {
	pk, sk, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	msg := []byte("hello chunk")
	sig, err := Ed25519Sign(sk, msg)
	require.NoError(t, err)

	assert.True(t, Ed25519Verify(pk, msg, sig[:]))
	assert.False(t, Ed25519Verify(pk, []byte("tampered"), sig[:]))
}

func TestEd25519ToX25519ConversionsAreConsistent(t *testing.T) {
	pk, sk, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	xsk, err := Ed25519PrivateKeyToX25519(sk)
	require.NoError(t, err)
	xpk, err := Ed25519PublicKeyToX25519(pk)
	require.NoError(t, err)

	derivedPub, err := X25519ScalarBaseMult(xsk)
	require.NoError(t, err)

	// The X25519 public key derived from the Ed25519 secret key must match
	// the X25519 public key converted from the corresponding Ed25519
	// public key -- they describe the same point.
	assert.Equal(t, xpk, derivedPub)
}

func TestKXRoleAsymmetryProducesMatchingCrossKeys(t *testing.T) {
	serverPub, serverPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	clientPub, clientPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	serverXSK, err := Ed25519PrivateKeyToX25519(serverPriv)
	require.NoError(t, err)
	serverXPK, err := Ed25519PublicKeyToX25519(serverPub)
	require.NoError(t, err)
	clientXSK, err := Ed25519PrivateKeyToX25519(clientPriv)
	require.NoError(t, err)
	clientXPK, err := Ed25519PublicKeyToX25519(clientPub)
	require.NoError(t, err)

	_, serverTx, err := KXServerSessionKeys(serverXPK, serverXSK, clientXPK)
	require.NoError(t, err)
	clientRx, _, err := KXClientSessionKeys(clientXPK, clientXSK, serverXPK)
	require.NoError(t, err)

	assert.Equal(t, serverTx, clientRx, "server's tx must equal client's rx")

	clientTx, _, err := KXClientSessionKeys(clientXPK, clientXSK, serverXPK)
	require.NoError(t, err)
	_, serverRx, err := KXServerSessionKeys(serverXPK, serverXSK, clientXPK)
	require.NoError(t, err)
	assert.Equal(t, clientTx, serverRx, "client's tx must equal server's rx")
}

func TestAEADRoundTripAndTamperDetection(t *testing.T) {
	var key [AEADKeyLen]byte
	var nonce [AEADNonceLen]byte
	_, err := rand.Read(key[:])
	require.NoError(t, err)
	_, err = rand.Read(nonce[:])
	require.NoError(t, err)

	pt := []byte("the quick brown fox")
	ad := []byte("associated data")

	ct, err := AEADEncrypt(key, nonce, pt, ad)
	require.NoError(t, err)

	got, err := AEADDecrypt(key, nonce, ct, ad)
	require.NoError(t, err)
	assert.Equal(t, pt, got)

	tampered := append([]byte{}, ct...)
	tampered[0] ^= 0xff
	_, err = AEADDecrypt(key, nonce, tampered, ad)
	assert.ErrorIs(t, err, chunkerr.ErrAuthFailure)

	_, err = AEADDecrypt(key, nonce, ct, []byte("wrong ad"))
	assert.Error(t, err)
}

func TestKDFArgon2idIsDeterministic(t *testing.T) {
	passphrase := []byte("correct horse battery staple")
	var salt [16]byte

	a := KDFArgon2id(passphrase, salt[:], 32)
	b := KDFArgon2id(passphrase, salt[:], 32)
	assert.Equal(t, a, b)
	assert.Len(t, a, 32)
}

func TestConstantTimeEqual(t *testing.T) {
	assert.True(t, ConstantTimeEqual([]byte("abc"), []byte("abc")))
	assert.False(t, ConstantTimeEqual([]byte("abc"), []byte("abd")))
	assert.False(t, ConstantTimeEqual([]byte("abc"), []byte("ab")))
}
