package resource_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/boardexport/pkg/resource"
)

func ExampleResolver_Resolve() {
	r := resource.NewResolver(resource.Options{
		NewID: func() string { return "img1" },
	})

	rec := r.Resolve(context.Background(), "data:image/png;base64,iVBORw0KGgo=", resource.Hint{
		BoardName: "Home",
		Label:     "Eat",
	})
	fmt.Println(rec.MIME)
	fmt.Println(rec.ArchiveName())
	// Output:
	// image/png
	// images/custom/Home/Eat.png
}
