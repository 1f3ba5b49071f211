package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ysh86/a2cmt/cmt"
)

func main() {
	inFile := flag.String("infile", "", "tokenized program image to disassemble")
	flag.Parse()
	if len(os.Args) == 2 {
		inFile = &os.Args[1]
	}

	image, err := os.ReadFile(*inFile)
	if err != nil {
		panic(err)
	}

	lines, err := cmt.Disassemble(image)
	if err != nil {
		panic(err)
	}

	outFile := *inFile + ".bas"
	fw, err := os.Create(outFile)
	if err != nil {
		panic(err)
	}
	defer fw.Close()

	for _, l := range lines {
		fmt.Fprintln(fw, l.FullText)
	}
	fmt.Fprintf(os.Stderr, "wrote %d lines to %s\n", len(lines), outFile)
}
