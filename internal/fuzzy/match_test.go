package fuzzy

import "testing"

func TestLocate_Exact(t *testing.T) {
	errs, spans, ok := locate([]rune("go"), []rune("go and go"), 0)
	if !ok {
		t.Fatal("expected match")
	}
	if errs != 0 {
		t.Errorf("errs = %d, want 0", errs)
	}
	want := []Span{{0, 1}, {7, 8}}
	if len(spans) != len(want) {
		t.Fatalf("spans = %+v, want %+v", spans, want)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d = %+v, want %+v", i, spans[i], want[i])
		}
	}
}

func TestLocate_Approximate(t *testing.T) {
	tests := []struct {
		name      string
		pattern   string
		text      string
		maxErrors int
		wantOK    bool
		wantErrs  int
		wantSpan  Span
	}{
		{"substitution", "concurent", "react concurrent mode", 2, true, 1, Span{6, 15}},
		{"deletion in text", "pattern", "patern matching", 2, true, 1, Span{0, 5}},
		{"too many edits", "typescript", "javascript", 3, false, 0, Span{}},
		{"no budget", "typscript", "typescript", 0, false, 0, Span{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, spans, ok := locate([]rune(tt.pattern), []rune(tt.text), tt.maxErrors)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if errs != tt.wantErrs {
				t.Errorf("errs = %d, want %d", errs, tt.wantErrs)
			}
			if len(spans) != 1 || spans[0] != tt.wantSpan {
				t.Errorf("spans = %+v, want [%+v]", spans, tt.wantSpan)
			}
		})
	}
}

func TestLocate_Empty(t *testing.T) {
	if _, _, ok := locate(nil, []rune("abc"), 1); ok {
		t.Error("empty pattern should not match")
	}
	if _, _, ok := locate([]rune("abc"), nil, 1); ok {
		t.Error("empty text should not match")
	}
}

func TestPickNonOverlapping(t *testing.T) {
	cands := []candidate{
		{span: Span{0, 4}, errs: 2},
		{span: Span{0, 5}, errs: 1},
		{span: Span{1, 6}, errs: 2},
		{span: Span{10, 14}, errs: 1},
	}

	spans, minErrs := pickNonOverlapping(cands)
	if minErrs != 1 {
		t.Errorf("minErrs = %d, want 1", minErrs)
	}
	want := []Span{{0, 5}, {10, 14}}
	if len(spans) != len(want) {
		t.Fatalf("spans = %+v, want %+v", spans, want)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d = %+v, want %+v", i, spans[i], want[i])
		}
	}
}
