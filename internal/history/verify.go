package history

import "fmt"

// ChainError reports the first broken link found while verifying a log.
type ChainError struct {
	Line   int
	Reason string
}

func (e *ChainError) Error() string {
	return fmt.Sprintf("history chain broken at line %d: %s", e.Line, e.Reason)
}

// Verify walks the log and checks every entry's seal: the content digest
// must match Sum, and Prev must equal the previous entry's Sum (Genesis for
// the first). Returns the number of verified entries; on a broken chain the
// error is a *ChainError naming the offending line.
func Verify(path string) (int, error) {
	entries, err := readEntries(path)
	if err != nil {
		return 0, err
	}

	prev := Genesis
	for i, e := range entries {
		if e.Prev != prev {
			return i, &ChainError{
				Line:   i + 1,
				Reason: fmt.Sprintf("prev is %s, want %s", e.Prev, prev),
			}
		}
		if want := digest(e); e.Sum != want {
			return i, &ChainError{
				Line:   i + 1,
				Reason: fmt.Sprintf("content does not match its seal (sum %s, recomputed %s)", e.Sum, want),
			}
		}
		prev = e.Sum
	}
	return len(entries), nil
}
