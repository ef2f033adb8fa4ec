package css

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		input string
		want  Color
		ok    bool
	}{
		{"red", Color{R: 255, A: 255}, true},
		{" RebeccaPurple ", Color{R: 102, G: 51, B: 153, A: 255}, true},
		{"#112233", Color{R: 17, G: 34, B: 51, A: 255}, true},
		{"#fff", Color{R: 255, G: 255, B: 255, A: 255}, true},
		{"#0000", Color{}, true},
		{"rgb(100%, 0%, 50%)", Color{R: 255, B: 128, A: 255}, true},
		{"rgb(300, -2, 7)", Color{R: 255, G: 0, B: 7, A: 255}, true},
		{"#12345", Color{}, false},
		{"#ggg", Color{}, false},
		{"rgb(1, 2)", Color{}, false},
		{"rgb(nan, 0, 0)", Color{}, false},
		{"rgb(0, +Inf, 0)", Color{}, false},
		{"rgba(0, 0, 0, NaN)", Color{}, false},
		{"notacolor", Color{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseColor(%q): got (%v, %v), expected (%v, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestColorString(t *testing.T) {
	if got := (Color{R: 17, G: 34, B: 51, A: 255}).String(); got != "#112233" {
		t.Errorf("got %q, expected #112233", got)
	}
	if got := (Color{R: 1, G: 2, B: 3, A: 4}).String(); got != "#01020304" {
		t.Errorf("got %q, expected #01020304", got)
	}
}
