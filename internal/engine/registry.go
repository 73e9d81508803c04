package engine

import "slices"

// ensure creates the named participant if unseen. Reports whether a record
// was created. Names are taken as-is; uniqueness is case-sensitive.
func ensure(players map[string]Participant, name string) bool {
	if _, ok := players[name]; ok {
		return false
	}
	players[name] = Participant{Connected: true}
	return true
}

// resetAll clears every participant's reaction record in place.
func resetAll(players map[string]Participant) {
	for name, p := range players {
		p.ReactionTime = nil
		p.Locked = false
		players[name] = p
	}
}

// upsertEntry returns the board with the named entry replaced (or inserted)
// at its sorted position. Equal times keep arrival order: the new entry lands
// after existing equal entries.
func upsertEntry(board []Entry, name string, rt float64) []Entry {
	board = slices.DeleteFunc(board, func(e Entry) bool { return e.Name == name })
	i, _ := slices.BinarySearchFunc(board, rt, func(e Entry, t float64) int {
		if e.ReactionTime <= t {
			return -1
		}
		return 1
	})
	return slices.Insert(board, i, Entry{Name: name, ReactionTime: rt})
}
