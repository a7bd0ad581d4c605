package grid_test

import (
	"fmt"

	"github.com/matzehuels/boardexport/pkg/grid"
)

func ExampleReconcile() {
	order := [][]string{{"", "drink"}}
	items := []string{"eat", "drink", "more"}

	dense, err := grid.Reconcile(3, 2, order, items)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, row := range dense {
		fmt.Printf("%q\n", row)
	}
	// Output:
	// ["eat" "drink" "more"]
	// ["" "" ""]
}
