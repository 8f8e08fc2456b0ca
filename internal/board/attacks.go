package board

// Direction tables as (row, col) deltas. Row grows toward rank 1.
var (
	rookDirs   = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}
	bishopDirs = [4][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = [8][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}

	knightOffsets = [8][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets   = [8][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
)

// pawnDir returns the row delta of a forward pawn step for c.
func pawnDir(c Color) int {
	if c == White {
		return -1
	}
	return 1
}

// IsSquareAttacked returns true if any piece of color by attacks sq.
// Occupancy of sq itself is irrelevant.
func (b *Board) IsSquareAttacked(sq Square, by Color) bool {
	if sq >= NoSquare {
		return false
	}
	row, col := sq.Row(), sq.Col()

	// A pawn of color by attacks sq from one row behind its own forward step.
	pr := row - pawnDir(by)
	if b.At(pr, col-1).Is(Pawn, by) || b.At(pr, col+1).Is(Pawn, by) {
		return true
	}

	for _, o := range knightOffsets {
		if b.At(row+o[0], col+o[1]).Is(Knight, by) {
			return true
		}
	}

	for _, o := range kingOffsets {
		if b.At(row+o[0], col+o[1]).Is(King, by) {
			return true
		}
	}

	if b.slidingAttack(row, col, rookDirs[:], Rook, by) {
		return true
	}
	return b.slidingAttack(row, col, bishopDirs[:], Bishop, by)
}

// slidingAttack walks each ray from (row, col) until the first piece and
// reports whether it is an enemy slider of kind (or a queen).
func (b *Board) slidingAttack(row, col int, dirs [][2]int, kind PieceType, by Color) bool {
	for _, d := range dirs {
		r, c := row+d[0], col+d[1]
		for r >= 0 && r < 8 && c >= 0 && c < 8 {
			p := b[r*8+c]
			if p != NoPiece {
				if p.Color() == by && (p.Type() == kind || p.Type() == Queen) {
					return true
				}
				break
			}
			r += d[0]
			c += d[1]
		}
	}
	return false
}

// AttackersOf returns every square holding a piece of color by that attacks sq.
func (b *Board) AttackersOf(sq Square, by Color) []Square {
	var out []Square
	for from := A8; from < NoSquare; from++ {
		p := b[from]
		if p == NoPiece || p.Color() != by {
			continue
		}
		if b.attacksFrom(from, sq) {
			out = append(out, from)
		}
	}
	return out
}

// attacksFrom reports whether the piece on from attacks to.
func (b *Board) attacksFrom(from, to Square) bool {
	p := b[from]
	dr, dc := to.Row()-from.Row(), to.Col()-from.Col()
	switch p.Type() {
	case Pawn:
		return dr == pawnDir(p.Color()) && (dc == 1 || dc == -1)
	case Knight:
		return (abs(dr) == 1 && abs(dc) == 2) || (abs(dr) == 2 && abs(dc) == 1)
	case King:
		return from != to && abs(dr) <= 1 && abs(dc) <= 1
	case Rook:
		return (dr == 0) != (dc == 0) && b.rayClear(from, to)
	case Bishop:
		return dr != 0 && abs(dr) == abs(dc) && b.rayClear(from, to)
	case Queen:
		aligned := (dr == 0) != (dc == 0) || (dr != 0 && abs(dr) == abs(dc))
		return aligned && b.rayClear(from, to)
	}
	return false
}

// rayClear reports whether every square strictly between two aligned squares
// is empty.
func (b *Board) rayClear(from, to Square) bool {
	sr, sc := sign(to.Row()-from.Row()), sign(to.Col()-from.Col())
	r, c := from.Row()+sr, from.Col()+sc
	for r != to.Row() || c != to.Col() {
		if b[r*8+c] != NoPiece {
			return false
		}
		r += sr
		c += sc
	}
	return true
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
