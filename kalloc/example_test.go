package kalloc_test

import (
	"fmt"

	"github.com/djdv/go-kcore/kalloc"
)

func ExampleAllocator() {
	pages, err := kalloc.New(kalloc.Config{
		CPUs:     2,
		Size:     8 * kalloc.PageSize,
		Reserved: kalloc.PageSize,
	})
	if err != nil {
		panic(err)
	}
	defer pages.Close()

	f, err := pages.Alloc(1) // Seeded onto cpu 0, so this steals.
	if err != nil {
		panic(err)
	}
	fmt.Printf("%s holds %d\n", f, pages.Bytes(f)[0])
	pages.Free(f, 1)
	fmt.Println("free on cpu 0:", pages.FreeCount(0))
	fmt.Println("free on cpu 1:", pages.FreeCount(1))
	// Output:
	// 0x80007000 holds 5
	// free on cpu 0: 6
	// free on cpu 1: 1
}
