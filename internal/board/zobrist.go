package board

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [13][64]uint64 // [Piece][Square], NoPiece row stays zero
	zobristSideToMove uint64         // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234) // Fixed seed

	for p := WhitePawn; p <= BlackKing; p++ {
		for sq := A8; sq < NoSquare; sq++ {
			zobristPiece[p][sq] = rng.next()
		}
	}

	zobristSideToMove = rng.next()
}

// ZobristPiece returns the Zobrist key for a piece on a square.
func ZobristPiece(p Piece, sq Square) uint64 {
	if p > BlackKing || sq >= NoSquare {
		return 0
	}
	return zobristPiece[p][sq]
}

// ZobristSideToMove returns the Zobrist key for side to move.
func ZobristSideToMove() uint64 {
	return zobristSideToMove
}

// ComputeHash computes the repetition key of the position from scratch.
// Only the piece layout and the side to move contribute; castling rights and
// the en passant target do not.
func (g *GameState) ComputeHash() uint64 {
	var hash uint64
	for sq, p := range g.Board {
		if p != NoPiece {
			hash ^= zobristPiece[p][sq]
		}
	}
	if g.SideToMove == Black {
		hash ^= zobristSideToMove
	}
	return hash
}
