package permit2

import (
	"context"
	"fmt"
	"math/big"
)

// One-shot nonces are tracked in per-owner bitmaps: the high 248 bits of the
// nonce select a 256-bit word, the low 8 bits select a bit inside it. A set
// bit means the nonce is consumed.

// BitmapPositions splits a one-shot nonce into its word position and bit
// position within that word.
func BitmapPositions(nonce *big.Int) (wordPos *big.Int, bitPos uint8) {
	wordPos = new(big.Int).Rsh(nonce, 8)
	bitPos = uint8(new(big.Int).And(nonce, big.NewInt(0xff)).Uint64())
	return wordPos, bitPos
}

// NonceFromPositions reassembles a nonce from a word position and a bit
// position.
func NonceFromPositions(wordPos *big.Int, bitPos uint8) *big.Int {
	nonce := new(big.Int).Lsh(wordPos, 8)
	return nonce.Or(nonce, big.NewInt(int64(bitPos)))
}

// IsNonceUsed reports whether the bit for bitPos is set in a bitmap word.
func IsNonceUsed(word *big.Int, bitPos uint8) bool {
	return word.Bit(int(bitPos)) == 1
}

// BitmapReader reads one word of an owner's nonce bitmap from the registry.
type BitmapReader func(ctx context.Context, owner string, wordPos *big.Int) (*big.Int, error)

// FindUnusedNonce scans the owner's nonce bitmap starting at startWord and
// returns the first unconsumed nonce within maxWords words. It returns an
// error if every slot in the scanned range is taken.
func FindUnusedNonce(
	ctx context.Context,
	read BitmapReader,
	owner string,
	startWord uint64,
	maxWords uint64,
) (*big.Int, error) {
	if maxWords == 0 {
		maxWords = 1
	}

	for i := uint64(0); i < maxWords; i++ {
		wordPos := new(big.Int).SetUint64(startWord + i)
		word, err := read(ctx, owner, wordPos)
		if err != nil {
			return nil, fmt.Errorf("failed to read nonce bitmap word %s: %w", wordPos, err)
		}
		for bit := 0; bit < 256; bit++ {
			if word.Bit(bit) == 0 {
				return NonceFromPositions(wordPos, uint8(bit)), nil
			}
		}
	}

	return nil, fmt.Errorf("no unused nonce in %d bitmap words from word %d", maxWords, startWord)
}
