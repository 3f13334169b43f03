// Package wallet verifies that a signed message was produced by the private
// key behind a claimed wallet public key.
package wallet

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/arbitex/marketplace/internal/core/domain"
)

const (
	compressedPubKeyLen = 33
	rawSignatureLen     = 64
	// legacySignatureLen is the older client convention: a version byte
	// prepended to the raw 64-byte signature.
	legacySignatureLen = 65
)

// Verifier checks secp256k1 signatures over the EIP-191 text digest of a
// message against a compressed public key.
type Verifier struct{}

func NewVerifier() *Verifier {
	return &Verifier{}
}

// Verify validates signatureHex over the UTF-8 bytes of message against the
// compressed public key in publicKeyHex. A 65-byte signature has its leading
// version byte stripped before verification.
func (v *Verifier) Verify(publicKeyHex, message, signatureHex string) error {
	pubBytes, err := hexutil.Decode(publicKeyHex)
	if err != nil || len(pubBytes) != compressedPubKeyLen {
		return domain.ErrInvalidAddress
	}
	if _, err := ethcrypto.DecompressPubkey(pubBytes); err != nil {
		return domain.ErrInvalidAddress
	}

	sig, err := hexutil.Decode(signatureHex)
	if err != nil {
		return domain.ErrInvalidSignature
	}
	if len(sig) == legacySignatureLen {
		sig = sig[1:]
	}
	if len(sig) != rawSignatureLen {
		return domain.ErrInvalidSignature
	}

	if !ethcrypto.VerifySignature(pubBytes, TextDigest(message), sig) {
		return domain.ErrInvalidSignature
	}
	return nil
}

// Address derives the checksummed account address for a compressed public key.
func (v *Verifier) Address(publicKeyHex string) (string, error) {
	pubBytes, err := hexutil.Decode(publicKeyHex)
	if err != nil || len(pubBytes) != compressedPubKeyLen {
		return "", domain.ErrInvalidAddress
	}
	pub, err := ethcrypto.DecompressPubkey(pubBytes)
	if err != nil {
		return "", domain.ErrInvalidAddress
	}
	return ethcrypto.PubkeyToAddress(*pub).Hex(), nil
}

// TextDigest returns the EIP-191 personal-sign digest of message: the keccak
// hash of the prefixed UTF-8 bytes. Wallets sign this digest, never the raw
// message.
func TextDigest(message string) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	return ethcrypto.Keccak256([]byte(prefixed))
}
