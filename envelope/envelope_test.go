package envelope

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chunkproto/chunkcrypt/identity"
)

func TestRoundTrip(t *testing.T) {
	sender, err := identity.GenerateKeypair()
	require.NoError(t, err)
	receiver, err := identity.GenerateKeypair()
	require.NoError(t, err)

	var nonce [NonceLen]byte
	_, err = rand.Read(nonce[:])
	require.NoError(t, err)

	data := make([]byte, 256)
	_, err = rand.Read(data)
	require.NoError(t, err)
	ad := []byte("merkle-root-placeholder")

	enc, err := Encrypt(data, receiver.SigPK, sender.SigSK(), nonce, ad)
	require.NoError(t, err)

	dec, err := Decrypt(enc, sender.SigPK, receiver.SigSK(), ad)
	require.NoError(t, err)
	assert.Equal(t, data, dec)
}

func TestTamperDetection(t *testing.T) {
	sender, err := identity.GenerateKeypair()
	require.NoError(t, err)
	receiver, err := identity.GenerateKeypair()
	require.NoError(t, err)

	var nonce [NonceLen]byte
	_, err = rand.Read(nonce[:])
	require.NoError(t, err)

	data := []byte("zero length test data of fixed shape")
	ad := []byte("root")

	enc, err := Encrypt(data, receiver.SigPK, sender.SigSK(), nonce, ad)
	require.NoError(t, err)

	t.Run("tampered tag", func(t *testing.T) {
		bad := append([]byte{}, enc...)
		bad[len(bad)-1] ^= 0xff
		_, err := Decrypt(bad, sender.SigPK, receiver.SigSK(), ad)
		assert.Error(t, err)
	})

	t.Run("tampered nonce", func(t *testing.T) {
		bad := append([]byte{}, enc...)
		bad[0] ^= 0xff
		_, err := Decrypt(bad, sender.SigPK, receiver.SigSK(), ad)
		assert.Error(t, err)
	})

	t.Run("tampered associated data", func(t *testing.T) {
		_, err := Decrypt(enc, sender.SigPK, receiver.SigSK(), []byte("different root"))
		assert.Error(t, err)
	})

	t.Run("wrong receiver key", func(t *testing.T) {
		other, err := identity.GenerateKeypair()
		require.NoError(t, err)
		_, err = Decrypt(enc, sender.SigPK, other.SigSK(), ad)
		assert.Error(t, err)
	})
}
