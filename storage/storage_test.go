package storage

import "testing"

func TestPublicURLRoundTrip(t *testing.T) {
	c := &Client{bucket: "radcase", public: "https://cdn.example.com"}

	url := c.PublicURL("profile-pictures/user-1/1700000000000.png")
	want := "https://cdn.example.com/radcase/profile-pictures/user-1/1700000000000.png"
	if url != want {
		t.Fatalf("PublicURL() = %q, want %q", url, want)
	}

	key, ok := c.KeyFromPublicURL(url)
	if !ok {
		t.Fatal("expected KeyFromPublicURL to recognise its own URL")
	}
	if key != "profile-pictures/user-1/1700000000000.png" {
		t.Errorf("KeyFromPublicURL() = %q", key)
	}
}

func TestKeyFromPublicURLForeign(t *testing.T) {
	c := &Client{bucket: "radcase", public: "https://cdn.example.com"}

	tests := []struct {
		name string
		url  string
	}{
		{"different host", "https://other.example.com/radcase/pic.png"},
		{"different bucket", "https://cdn.example.com/otherbucket/pic.png"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := c.KeyFromPublicURL(tt.url); ok {
				t.Errorf("expected %q to be rejected", tt.url)
			}
		})
	}
}
