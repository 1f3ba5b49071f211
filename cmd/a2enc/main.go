package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/ysh86/a2cmt/cmt"
)

func main() {
	inFile := flag.String("infile", "", "BASIC source listing to encode")
	autoRun := flag.Bool("run", false, "set the auto-run flag in the tape header")
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

	wav, err := cmt.EncodeWave(lines, *autoRun)
	if err != nil {
		panic(err)
	}

	outFile := *inFile + ".wav"
	fw, err := os.Create(outFile)
	if err != nil {
		panic(err)
	}
	defer fw.Close()

	if _, err := fw.Write(wav); err != nil {
		panic(err)
	}
	fmt.Fprintf(os.Stderr, "wrote %d bytes to %s (autoRun=%v)\n", len(wav), outFile, *autoRun)
}
