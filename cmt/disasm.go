package cmt

import (
	"fmt"
	"log"
	"strings"
)

// Line is a reconstructed BASIC source line (spec.md §6).
type Line struct {
	Number          int
	TextAfterNumber string
	FullText        string
}

// Disassemble recovers the source lines from a tokenized program image,
// undoing the assembler's off-by-one next-line address (spec.md §4.3,
// §9). UnknownOpcode bytes are the sole soft error: they pass through
// as ASCII rather than failing the whole disassembly.
func Disassemble(image []byte) ([]Line, error) {
	var lines []Line
	currentAddress := LoadAddress

	for {
		idx := currentAddress - LoadAddress
		if idx >= len(image) {
			break
		}

		nextAddress, err := ReadU16LE(image, idx)
		if err != nil {
			return nil, &TruncatedInputError{Index: idx, Len: len(image)}
		}
		if nextAddress == 0 {
			break
		}
		if int(nextAddress) < currentAddress {
			log.Printf("disassemble: next-line address %#04x precedes current address %#04x, stopping", nextAddress, currentAddress)
			break
		}

		instructionLength := int(nextAddress) - currentAddress
		if idx+instructionLength > len(image) {
			return nil, &TruncatedInputError{Index: idx + instructionLength, Len: len(image)}
		}
		lineBytes := image[idx : idx+instructionLength]

		if len(lineBytes) < 6 {
			return nil, &TruncatedInputError{Index: idx + 4, Len: len(image)}
		}
		lineNumber, err := ReadU16LE(lineBytes, 2)
		if err != nil {
			return nil, &TruncatedInputError{Index: idx + 2, Len: len(image)}
		}
		body := lineBytes[4 : len(lineBytes)-2]

		text := decodeBody(body)
		lines = append(lines, Line{
			Number:          int(lineNumber),
			TextAfterNumber: text,
			FullText:        fmt.Sprintf("%d %s", lineNumber, text),
		})

		currentAddress = int(nextAddress) - 1
	}

	return lines, nil
}

func decodeBody(body []byte) string {
	var sb strings.Builder
	for _, b := range body {
		if mnemonic, ok := LookupMnemonic(b); ok {
			sb.WriteByte(' ')
			sb.WriteString(mnemonic)
			sb.WriteByte(' ')
		} else {
			sb.WriteByte(b)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
