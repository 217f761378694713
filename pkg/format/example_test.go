package format_test

import (
	"fmt"

	"github.com/matzehuels/bundlesize/pkg/format"
)

func ExampleBytes() {
	fmt.Println(format.Bytes(-1))
	fmt.Println(format.Bytes(999))
	fmt.Println(format.Bytes(1024))
	fmt.Println(format.Bytes(1048576))
	// Output:
	// n/e
	// 999B
	// 1.0kB
	// 1.0MB
}

func ExampleSizeLabel() {
	fmt.Println(format.SizeLabel(73_400, 21_200))
	// Output:
	// 71.7kB (gzip 20.7kB)
}
