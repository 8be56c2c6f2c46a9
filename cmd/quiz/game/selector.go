package game

import "github.com/samber/lo"

// Pick draws a random song from pool, never returning the song whose URL is
// lastURL when another song is available. intn(n) must return a value in [0, n).
func Pick(pool []Song, lastURL string, intn func(n int) int) (Song, bool) {
	switch len(pool) {
	case 0:
		return Song{}, false
	case 1:
		return pool[0], true
	}

	// Every entry sharing lastURL would make rejection sampling spin forever.
	if !lo.ContainsBy(pool, func(s Song) bool { return s.URL != lastURL }) {
		return pool[intn(len(pool))], true
	}

	for {
		candidate := pool[intn(len(pool))]
		if candidate.URL != lastURL {
			return candidate, true
		}
	}
}
