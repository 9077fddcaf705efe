package collatz_test

import (
	"fmt"

	"github.com/ardanlabs/collatz/collatz"
)

func ExampleGenerate() {
	seq, err := collatz.Generate(52)
	if err != nil {
		fmt.Println("ERROR:", err)
		return
	}
	fmt.Println(seq)
	// Output:
	// [52 26 13 40 20 10 5 16 8 4 2 1]
}

func ExampleNewStats() {
	seq, err := collatz.Generate(13)
	if err != nil {
		fmt.Println("ERROR:", err)
		return
	}
	stats := collatz.NewStats(seq)
	fmt.Printf("length=%d max=%d bits=%d binary=%s\n", stats.Length, stats.Max, stats.BitWidth, stats.Binary)
	// Output:
	// length=10 max=40 bits=6 binary=1101
}

func ExampleNewTrace() {
	seq, err := collatz.Generate(6)
	if err != nil {
		fmt.Println("ERROR:", err)
		return
	}
	trace := collatz.NewTrace(seq)
	fmt.Print(trace)
	fmt.Println(trace.Verify())
	// Output:
	// 00110
	// 00011
	// 01010
	// 00101
	// 10000
	// 01000
	// 00100
	// 00010
	// 00001
	// <nil>
}
