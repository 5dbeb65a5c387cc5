package index

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/clearsign"
	"github.com/etnz/dcfmeta/dcf"
)

// ErrNotSigned is returned by OpenSigned when the input holds no clearsigned
// message.
var ErrNotSigned = errors.New("no clearsigned message found")

// OpenSigned reads a clearsigned package index (the InRelease layout) and
// returns a Source over its plaintext. If keyring is not nil the signature
// must verify against it.
func OpenSigned(r io.Reader, keyring openpgp.EntityList, opts ...dcf.Option) (*dcf.Source, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	block, _ := clearsign.Decode(data)
	if block == nil {
		return nil, ErrNotSigned
	}
	if keyring != nil {
		if _, err := openpgp.CheckDetachedSignature(keyring, bytes.NewReader(block.Bytes), block.ArmoredSignature.Body, nil); err != nil {
			return nil, fmt.Errorf("verifying index signature: %w", err)
		}
	}
	// Keep the name of the handle unless the caller overrides it.
	opts = append([]dcf.Option{dcf.WithName(nameOf(r))}, opts...)
	return dcf.NewSource(bytes.NewReader(block.Plaintext), opts...), nil
}

func nameOf(r io.Reader) string {
	if n, ok := r.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}

// ReadKeyRing reads an ASCII-armored public (or private) keyring.
func ReadKeyRing(path string) (openpgp.EntityList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return openpgp.ReadArmoredKeyRing(f)
}

// Sign clearsigns a package index with the first entity of keyring that holds
// a private key.
func Sign(index []byte, keyring openpgp.EntityList) ([]byte, error) {
	signer := signingEntity(keyring)
	if signer == nil {
		return nil, fmt.Errorf("no private key found")
	}

	var out bytes.Buffer
	w, err := clearsign.Encode(&out, signer.PrivateKey, nil)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(index); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func signingEntity(keyring openpgp.EntityList) *openpgp.Entity {
	for _, e := range keyring {
		if e.PrivateKey != nil {
			return e
		}
	}
	return nil
}
