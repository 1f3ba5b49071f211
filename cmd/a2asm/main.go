package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/ysh86/a2cmt/cmt"
)

func main() {
	inFile := flag.String("infile", "", "BASIC source listing to assemble")
	flag.Parse()
	if len(os.Args) == 2 {
		inFile = &os.Args[1]
	}

	f, err := os.Open(*inFile)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		panic(err)
	}

	image, err := cmt.Assemble(lines)
	if err != nil {
		panic(err)
	}

	outFile := *inFile + ".bin"
	fw, err := os.Create(outFile)
	if err != nil {
		panic(err)
	}
	defer fw.Close()

	if _, err := fw.Write(image); err != nil {
		panic(err)
	}
	fmt.Fprintf(os.Stderr, "wrote %d bytes to %s\n", len(image), outFile)
}
