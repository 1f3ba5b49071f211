package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ysh86/a2cmt/cmt"
)

func main() {
	inFile := flag.String("infile", "", "WAVE file to demodulate")
	flag.Parse()
	if len(os.Args) == 2 {
		inFile = &os.Args[1]
	}

	wav, err := os.ReadFile(*inFile)
	if err != nil {
		panic(err)
	}

	blocks, err := cmt.DecodeWave(wav)
	if err != nil {
		panic(err)
	}

	outFile := *inFile + ".bin"
	fw, err := os.Create(outFile)
	if err != nil {
		panic(err)
	}
	defer fw.Close()
	if _, err := fw.Write(blocks.Program); err != nil {
		panic(err)
	}
	fmt.Fprintf(os.Stderr, "wrote %d bytes to %s (autoRun=%v)\n", len(blocks.Program), outFile, blocks.AutoRun)

	if len(blocks.Data) > 0 {
		dataFile := *inFile + ".data.bin"
		fd, err := os.Create(dataFile)
		if err != nil {
			panic(err)
		}
		defer fd.Close()
		if _, err := fd.Write(blocks.Data); err != nil {
			panic(err)
		}
		fmt.Fprintf(os.Stderr, "wrote %d bytes to %s\n", len(blocks.Data), dataFile)
	}

	lines, err := cmt.Disassemble(blocks.Program)
	if err != nil {
		panic(err)
	}
	for _, l := range lines {
		fmt.Println(l.FullText)
	}
}
