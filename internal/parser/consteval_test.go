package parser

import "testing"

func TestParseInteger(t *testing.T) {
	tests := []struct {
		lit  string
		want int64
		ok   bool
	}{
		{"0", 0, true},
		{"42", 42, true},
		{"42u", 42, true},
		{"42UL", 42, true},
		{"0x1F", 31, true},
		{"0XffLL", 255, true},
		{"017", 15, true},
		{"0b101", 5, true},
		{"1'000", 1000, true},
		{"0xFFFFFFFFFFFFFFFFull", -1, true},
		{"1.5", 0, false},
		{"u", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseInteger(tt.lit)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseInteger(%q) = %d, %v; want %d, %v", tt.lit, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseChar(t *testing.T) {
	tests := []struct {
		lit  string
		want int64
		ok   bool
	}{
		{"'a'", 'a', true},
		{`'\n'`, '\n', true},
		{`'\0'`, 0, true},
		{`'\101'`, 'A', true},
		{`'\x41'`, 'A', true},
		{"L'b'", 'b', true},
		{"''", 0, false},
		{"'ab'", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseChar(tt.lit)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseChar(%q) = %d, %v; want %d, %v", tt.lit, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBinary(t *testing.T) {
	tests := []struct {
		op   string
		l, r int64
		want int64
		ok   bool
	}{
		{"+", 2, 3, 5, true},
		{"-", 2, 3, -1, true},
		{"*", 4, 3, 12, true},
		{"/", 7, 2, 3, true},
		{"/", 7, 0, 0, false},
		{"%", 7, 0, 0, false},
		{"<<", 1, 4, 16, true},
		{"<<", 1, 64, 0, false},
		{">>", 16, 2, 4, true},
		{"&", 6, 3, 2, true},
		{"|", 6, 3, 7, true},
		{"^", 6, 3, 5, true},
		{"&&", 1, 0, 0, true},
		{"||", 1, 0, 1, true},
		{"==", 2, 2, 1, true},
		{"<", 2, 1, 0, true},
		{">=", 2, 2, 1, true},
		{",", 1, 2, 0, false},
	}
	for _, tt := range tests {
		got, ok := binary(tt.op, tt.l, tt.r)
		if ok != tt.ok || got != tt.want {
			t.Errorf("binary(%q, %d, %d) = %d, %v; want %d, %v", tt.op, tt.l, tt.r, got, ok, tt.want, tt.ok)
		}
	}
}
