package sumblocks

// FindMatch returns ids of blocks whose values sum to target, using as few
// blocks as possible and preferring blocks nearer the bottom. It returns nil
// when no subset of the grid reaches target.
func FindMatch(grid Grid, target int) []BlockID {
	if target <= 0 {
		return nil
	}

	// Group blocks by value, bottom rows first.
	var byValue [MaxValue + 1][]Block
	for row := Rows - 1; row >= 0; row-- {
		for col := range Cols {
			b := grid[row][col]
			if b.Empty() || b.Value < MinValue || b.Value > MaxValue {
				continue
			}
			byValue[b.Value] = append(byValue[b.Value], b)
		}
	}

	var counts [MaxValue + 1]int
	for v := MinValue; v <= MaxValue; v++ {
		counts[v] = len(byValue[v])
	}

	s := subsetSearch{counts: counts, best: -1}
	s.search(MaxValue, target, 0)
	if s.best < 0 {
		return nil
	}

	ids := make([]BlockID, 0, s.best)
	for v := MaxValue; v >= MinValue; v-- {
		for i := 0; i < s.bestPick[v]; i++ {
			ids = append(ids, byValue[v][i].ID)
		}
	}
	return ids
}

// subsetSearch finds the smallest multiset of values (bounded by counts) that
// sums to a target. Values are tried from largest to smallest.
type subsetSearch struct {
	counts   [MaxValue + 1]int
	pick     [MaxValue + 1]int
	bestPick [MaxValue + 1]int
	best     int
}

func (s *subsetSearch) search(v, remaining, used int) {
	if remaining == 0 {
		if s.best < 0 || used < s.best {
			s.best = used
			s.bestPick = s.pick
		}
		return
	}
	if v < MinValue {
		return
	}
	// Even using only value v, at least ceil(remaining/v) more blocks are needed.
	if s.best >= 0 && used+(remaining+v-1)/v >= s.best {
		return
	}

	for n := min(s.counts[v], remaining/v); n >= 0; n-- {
		s.pick[v] = n
		s.search(v-1, remaining-n*v, used+n)
	}
	s.pick[v] = 0
}
