package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadSequences decodes the pre-tokenized corpus format produced by the
// vocabulary collaborator: one sequence per line, whitespace-separated
// nonnegative integer token indices. Blank lines are skipped.
func ReadSequences(r io.Reader) ([][]int, error) {
	var seqs [][]int
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		seq := make([]int, len(fields))
		for i, f := range fields {
			tok, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid token index %q: %w", line, f, err)
			}
			if tok < 0 {
				return nil, fmt.Errorf("line %d: negative token index %d", line, tok)
			}
			seq[i] = tok
		}
		seqs = append(seqs, seq)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	return seqs, nil
}
