package builder

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LoadCorpus streams a JSON-lines corpus file into the builder, one
// document per line. Blank lines are skipped.
func (b *Builder) LoadCorpus(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening corpus %s: %w", path, err)
	}
	defer f.Close()
	return b.readCorpus(f)
}

func (b *Builder) readCorpus(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1<<20), 16<<20)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Bytes()
		if len(raw) == 0 {
			continue
		}
		var doc Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("corpus line %d: %w", line, err)
		}
		b.Add(doc)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("reading corpus: %w", err)
	}
	b.logger.Info("corpus loaded", "docs", b.DocCount())
	return nil
}
