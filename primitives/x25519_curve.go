package primitives

import (
	"crypto/ecdh"
	"io"
)

// curveScalarBaseMult and curveScalarMult wrap crypto/ecdh's X25519
// implementation so the rest of this package works with plain [32]byte
// values instead of *ecdh.PrivateKey/*ecdh.PublicKey.

func curveScalarBaseMult(sk []byte) ([]byte, error) {
	priv, err := ecdh.X25519().NewPrivateKey(sk)
	if err != nil {
		return nil, err
	}
	return priv.PublicKey().Bytes(), nil
}

func curveScalarMult(sk, peerPK []byte) ([]byte, error) {
	priv, err := ecdh.X25519().NewPrivateKey(sk)
	if err != nil {
		return nil, err
	}
	pub, err := ecdh.X25519().NewPublicKey(peerPK)
	if err != nil {
		return nil, err
	}
	return priv.ECDH(pub)
}

func readFull(r io.Reader, buf []byte) (int, error) {
	return io.ReadFull(r, buf)
}
