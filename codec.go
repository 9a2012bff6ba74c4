package l2encdec

import "context"

// Codec converts between plaintext and wire bytes for the Lineage2Ver
// protocol family.
type Codec interface {
	// Encode transforms plaintext into wire bytes for p.Protocol.
	Encode(ctx context.Context, plaintext []byte, p Params) ([]byte, error)

	// Decode transforms wire bytes back into plaintext for p.Protocol.
	Decode(ctx context.Context, wire []byte, p Params) ([]byte, error)
}
