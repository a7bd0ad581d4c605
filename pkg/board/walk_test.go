package board

import (
	"sort"
	"strings"
	"testing"
)

func link(id string, targets ...string) Board {
	b := Board{ID: id, Name: strings.ToUpper(id)}
	for i, to := range targets {
		b.Tiles = append(b.Tiles, Tile{ID: id + "-" + string(rune('0'+i)), LoadBoard: to})
	}
	return b
}

func ids(boards []Board) []string {
	out := make([]string, len(boards))
	for i, b := range boards {
		out[i] = b.ID
	}
	return out
}

func assertReachable(t *testing.T, got []Board, root string, want ...string) {
	t.Helper()
	if len(got) == 0 || got[0].ID != root {
		t.Fatalf("Reachable() = %v, want root %s first", ids(got), root)
	}
	gotIDs := ids(got)
	sort.Strings(gotIDs)
	sort.Strings(want)
	if strings.Join(gotIDs, ",") != strings.Join(want, ",") {
		t.Errorf("Reachable() = %v, want set %v", gotIDs, want)
	}
}

func TestReachable_Cycle(t *testing.T) {
	all := []Board{link("a", "b"), link("b", "c"), link("c", "a"), link("unrelated")}
	assertReachable(t, Reachable(all, "a"), "a", "a", "b", "c")
}

func TestReachable_Tree(t *testing.T) {
	all := []Board{link("a", "b", "c"), link("b"), link("c", "d", "e"), link("d"), link("e")}
	assertReachable(t, Reachable(all, "a"), "a", "a", "b", "c", "d", "e")
}

func TestReachable_SelfAndDangling(t *testing.T) {
	all := []Board{link("a", "a", "ghost", "b"), link("b", "ghost")}
	assertReachable(t, Reachable(all, "a"), "a", "a", "b")
}

func TestReachable_RootNotFirstInInput(t *testing.T) {
	all := []Board{link("b"), link("a", "b")}
	assertReachable(t, Reachable(all, "a"), "a", "a", "b")
}

func TestReachable_MissingRoot(t *testing.T) {
	if got := Reachable([]Board{link("a")}, "nope"); len(got) != 0 {
		t.Errorf("Reachable() = %v, want empty", ids(got))
	}
}

func TestLinks(t *testing.T) {
	adj := Links([]Board{link("a", "b", "b", "c"), link("b")})
	if strings.Join(adj["a"], ",") != "b,c" {
		t.Errorf("Links()[a] = %v, want [b c]", adj["a"])
	}
	if len(adj["b"]) != 0 {
		t.Errorf("Links()[b] = %v, want empty", adj["b"])
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT([]Board{link("a", "b", "ghost"), link("b", "a")})

	for _, want := range []string{
		`"a" [label="A"];`,
		`"a" -> "b";`,
		`"b" -> "a";`,
		`"a" -> "ghost";`,
		`"ghost" [label="ghost", style="rounded,filled,dashed"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}
