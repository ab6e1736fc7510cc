package docpipe

import "fmt"

// Window is one chunk of a text, Start counted in runes.
type Window struct {
	Index int
	Start int
	Text  string
}

// Splitter cuts text into fixed windows of Size runes, each starting Size-Overlap
// after the previous one. The final partial window is kept.
type Splitter struct {
	Size    int
	Overlap int
}

func (s Splitter) validate() error {
	if s.Size <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", s.Size)
	}
	if s.Overlap < 0 || s.Overlap >= s.Size {
		return fmt.Errorf("chunk overlap must be in [0, %d), got %d", s.Size, s.Overlap)
	}
	return nil
}

// Split returns no windows for empty text.
func (s Splitter) Split(text string) ([]Window, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}
	runes := []rune(text)
	n := len(runes)
	var out []Window
	for start := 0; start < n; start += s.Size - s.Overlap {
		end := start + s.Size
		if end > n {
			end = n
		}
		out = append(out, Window{Index: len(out), Start: start, Text: string(runes[start:end])})
		if end == n {
			break
		}
	}
	return out, nil
}
