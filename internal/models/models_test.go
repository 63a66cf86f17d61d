package models

import "testing"

func TestMessageImage(t *testing.T) {
	msg := Message{Text: "[IMAGE]:selfie.jpg"}
	if !msg.IsImage() {
		t.Error("tagged text should be an image message")
	}
	if msg.ImageFile() != "selfie.jpg" {
		t.Errorf("ImageFile = %q", msg.ImageFile())
	}

	plain := Message{Text: "just text with [IMAGE]: in the middle"}
	if plain.IsImage() {
		t.Error("tag must be a prefix")
	}
	if plain.ImageFile() != "" {
		t.Errorf("ImageFile on plain text = %q", plain.ImageFile())
	}
}

func TestFiltersAllows(t *testing.T) {
	p := Profile{Gender: "female", Age: 27}

	tests := []struct {
		name    string
		filters Filters
		want    bool
	}{
		{"zero filters", Filters{}, true},
		{"inside bounds", Filters{MinAge: 25, MaxAge: 30, Gender: "female"}, true},
		{"at min", Filters{MinAge: 27}, true},
		{"at max", Filters{MaxAge: 27}, true},
		{"below min", Filters{MinAge: 28}, false},
		{"above max", Filters{MaxAge: 26}, false},
		{"wrong gender", Filters{Gender: "male"}, false},
		{"all genders", Filters{Gender: GenderAll}, true},
	}

	for _, tt := range tests {
		if got := tt.filters.Allows(p); got != tt.want {
			t.Errorf("%s: Allows = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFirstPhoto(t *testing.T) {
	if got := (Profile{}).FirstPhoto(); got != "" {
		t.Errorf("FirstPhoto on empty = %q", got)
	}
	p := Profile{Photos: []string{"a.jpg", "b.jpg"}}
	if got := p.FirstPhoto(); got != "a.jpg" {
		t.Errorf("FirstPhoto = %q", got)
	}
}
