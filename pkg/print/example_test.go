package print_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/boardexport/pkg/board"
	"github.com/matzehuels/boardexport/pkg/print"
)

func ExampleLayout() {
	tiles := make([]board.Tile, 10)
	for i := range tiles {
		tiles[i] = board.Tile{ID: fmt.Sprintf("t%d", i), Label: fmt.Sprint(i)}
	}
	b := board.Board{
		ID:      "home",
		Name:    "Home",
		IsFixed: true,
		Grid:    &board.Grid{Rows: 3, Columns: 3},
		Tiles:   tiles,
	}

	doc, err := print.Layout(context.Background(), []board.Board{b}, print.Options{})
	if err != nil {
		panic(err)
	}
	for r, row := range doc.Tables()[0].Body {
		if row[0].PageBreak != "" {
			fmt.Println("page break before body row", r)
		}
	}
	// Output: page break before body row 6
}

func ExampleFillColor() {
	fmt.Println(print.FillColor("rgb(76, 175, 80)"))
	fmt.Println(print.FillColor("#d9d9d9"))
	// Output:
	// #4caf50
	// #FFFFFF
}
