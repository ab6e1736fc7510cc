package docpipe

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func starts(ws []Window) []int {
	out := make([]int, len(ws))
	for i, w := range ws {
		out[i] = w.Start
	}
	return out
}

func TestSplit_Windows(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		size, over int
		want       []int
	}{
		{"3000 chars default window", 3000, 1000, 200, []int{0, 800, 1600, 2400}},
		{"shorter than one chunk", 10, 1000, 200, []int{0}},
		{"exactly one chunk", 1000, 1000, 200, []int{0}},
		{"one past a chunk", 1001, 1000, 200, []int{0, 800}},
		{"no overlap", 25, 10, 0, []int{0, 10, 20}},
		{"empty", 0, 10, 2, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws, err := Splitter{Size: tt.size, Overlap: tt.over}.Split(strings.Repeat("a", tt.n))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, starts(ws)); diff != "" {
				t.Errorf("window starts mismatch (-want +got):\n%s", diff)
			}
			if len(ws) > 0 {
				last := ws[len(ws)-1]
				assert.Equal(t, tt.n, last.Start+len([]rune(last.Text)), "last window reaches the end")
			}
		})
	}
}

func TestSplit_OverlapContent(t *testing.T) {
	ws, err := Splitter{Size: 4, Overlap: 2}.Split("abcdefgh")
	require.NoError(t, err)

	want := []Window{
		{Index: 0, Start: 0, Text: "abcd"},
		{Index: 1, Start: 2, Text: "cdef"},
		{Index: 2, Start: 4, Text: "efgh"},
	}
	if diff := cmp.Diff(want, ws); diff != "" {
		t.Errorf("windows mismatch (-want +got):\n%s", diff)
	}
}

func TestSplit_CountsRunes(t *testing.T) {
	ws, err := Splitter{Size: 3, Overlap: 0}.Split("ééééé")
	require.NoError(t, err)
	require.Len(t, ws, 2)
	assert.Equal(t, "ééé", ws[0].Text)
	assert.Equal(t, "éé", ws[1].Text)
}

func TestSplit_RejectsBadSettings(t *testing.T) {
	_, err := Splitter{Size: 0}.Split("x")
	assert.Error(t, err)
	_, err = Splitter{Size: 10, Overlap: 10}.Split("x")
	assert.Error(t, err)
}
