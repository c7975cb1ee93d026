package textutil

import (
	"math"
	"reflect"
	"testing"
)

func TestSentences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "blank", in: "   ", want: []string{}},
		{name: "no punctuation", in: " just words ", want: []string{"just words"}},
		{name: "two sentences", in: "One here. Two there!", want: []string{"One here.", "Two there!"}},
		{name: "trailing fragment", in: "Done. and more", want: []string{"Done.", "and more"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sentences(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sentences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTermsDropStopwords(t *testing.T) {
	got := Terms("The Quick fox and the 3 dogs")
	want := []string{"quick", "fox", "3", "dogs"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Terms = %q, want %q", got, want)
	}
}

func TestOchiai(t *testing.T) {
	q := TermSet("vector database")
	if got := Ochiai(q, "a vector database stores vectors"); math.Abs(got-2/math.Sqrt(2*4)) > 1e-9 {
		t.Errorf("unexpected score %v", got)
	}
	if got := Ochiai(q, "nothing related"); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
	if got := Ochiai(map[string]struct{}{}, "vector"); got != 0 {
		t.Errorf("expected 0 for empty query, got %v", got)
	}
}
