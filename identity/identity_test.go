package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunkproto/chunkcrypt/chunkerr"
)

func TestDeriveSeedIsDeterministic(t *testing.T) {
	passphrase := []byte("correct horse battery staple")
	var salt [SaltLen]byte // all-zero, per spec.md §8 scenario 1

	s1, err := DeriveSeed(passphrase, salt[:])
	require.NoError(t, err)
	s2, err := DeriveSeed(passphrase, salt[:])
	require.NoError(t, err)
	assert.Equal(t, s1.Bytes(), s2.Bytes())

	id1, err := KeypairFromSeed(s1.Bytes())
	require.NoError(t, err)
	id2, err := KeypairFromSeed(s2.Bytes())
	require.NoError(t, err)
	assert.Equal(t, id1.SigPK, id2.SigPK)
}

func TestDeriveSeedRejectsOutOfRangePassphrase(t *testing.T) {
	var salt [SaltLen]byte
	_, err := DeriveSeed(nil, salt[:])
	assert.ErrorIs(t, err, chunkerr.ErrPassphraseOutOfRange)

	tooLong := make([]byte, PassphraseMax+1)
	_, err = DeriveSeed(tooLong, salt[:])
	assert.ErrorIs(t, err, chunkerr.ErrPassphraseOutOfRange)
}

func TestSignVerifyRoundTrip(t *testing.T) {
	id, err := GenerateKeypair()
	require.NoError(t, err)

	msg := []byte("a message")
	sig, err := id.Sign(msg)
	require.NoError(t, err)
	assert.True(t, id.Verify(msg, sig[:]))
	assert.False(t, id.Verify([]byte("other"), sig[:]))
}

func TestKeypairFromSecretKeyRecoversPublicHalf(t *testing.T) {
	id, err := GenerateKeypair()
	require.NoError(t, err)

	pk, err := KeypairFromSecretKey(id.SigSK())
	require.NoError(t, err)
	assert.Equal(t, id.SigPK, pk)

	recovered, err := FromSecretKey(id.SigSK())
	require.NoError(t, err)
	assert.Equal(t, id.SigPK, recovered.SigPK)
}

func TestZeroizeWipesSecretKey(t *testing.T) {
	id, err := GenerateKeypair()
	require.NoError(t, err)

	id.Zeroize()
	for _, b := range id.SigSK() {
		assert.Zero(t, b)
	}
}
