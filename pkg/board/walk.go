package board

// Index maps board ids to boards. When ids repeat, the first board wins.
func Index(boards []Board) map[string]*Board {
	idx := make(map[string]*Board, len(boards))
	for i := range boards {
		if _, ok := idx[boards[i].ID]; !ok {
			idx[boards[i].ID] = &boards[i]
		}
	}
	return idx
}

// Links returns the adjacency of the board graph: for each board id, the ids
// referenced by its load-board tiles in tile order, without repeats.
// Dangling and self references are included as they appear.
func Links(boards []Board) map[string][]string {
	adj := make(map[string][]string, len(boards))
	for i := range boards {
		b := &boards[i]
		if _, ok := adj[b.ID]; ok {
			continue
		}
		seen := make(map[string]bool)
		targets := []string{}
		for _, t := range b.Tiles {
			if t.LoadBoard == "" || seen[t.LoadBoard] {
				continue
			}
			seen[t.LoadBoard] = true
			targets = append(targets, t.LoadBoard)
		}
		adj[b.ID] = targets
	}
	return adj
}

// Reachable returns the root board followed by every board transitively
// reachable from it through load-board tiles. Each board appears exactly
// once; cycles terminate on the visited set and references to boards that
// are not in all are skipped. If the root itself is missing the result is
// empty.
//
// Only the root's position is guaranteed; the order of the remaining boards
// follows the depth-first work stack.
func Reachable(all []Board, rootID string) []Board {
	idx := Index(all)
	adj := Links(all)

	if _, ok := idx[rootID]; !ok {
		return nil
	}

	visited := map[string]bool{rootID: true}
	stack := []string{rootID}
	out := []Board{*idx[rootID]}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, next := range adj[id] {
			if visited[next] {
				continue
			}
			visited[next] = true
			b, ok := idx[next]
			if !ok {
				continue
			}
			out = append(out, *b)
			stack = append(stack, next)
		}
	}
	return out
}
