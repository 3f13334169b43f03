package ports

// SignatureVerifier validates that a signature over a message was produced by
// the private key behind the claimed public key.
type SignatureVerifier interface {
	// Verify checks signatureHex (64-byte raw or 65-byte legacy
	// version-prefixed, hex encoded) over the UTF-8 bytes of message against
	// the compressed public key in publicKeyHex. Returns
	// domain.ErrInvalidAddress or domain.ErrInvalidSignature.
	Verify(publicKeyHex, message, signatureHex string) error
	// Address derives the display address for a compressed public key.
	Address(publicKeyHex string) (string, error)
}
