package format

import "testing"

func TestValid(t *testing.T) {
	cases := []struct {
		format string
		in     string
		want   bool
	}{
		{"uuid", "123e4567-e89b-12d3-a456-426614174000", true},
		{"uuid", "not-a-uuid", false},
		{"email", "someone@example.com", true},
		{"email", "someone@", false},
		{"ip", "10.0.0.1", true},
		{"ip", "::1", true},
		{"ip", "300.0.0.1", false},
		{"ipv4", "192.168.1.1", true},
		{"ipv4", "::1", false},
		{"ipv6", "2001:db8::1", true},
		{"ipv6", "192.168.1.1", false},
		{"url", "https://example.com/path?q=1", true},
		{"url", "example", false},
		{"base64", "aGVsbG8=", true},
		{"base64", "hello!", false},
		{"time", "13:45:00", true},
		{"time", "13:45", true},
		{"time", "13:45:00.250", true},
		{"time", "25:00:00", false},
		{"date", "anything", true},
		{"", "anything", true},
	}
	for _, tc := range cases {
		if got := Valid(tc.format, tc.in); got != tc.want {
			t.Fatalf("Valid(%q, %q) = %v, want %v", tc.format, tc.in, got, tc.want)
		}
	}
}

func TestKnown(t *testing.T) {
	if !Known("email") || Known("date") || Known("") {
		t.Fatalf("unexpected Known results")
	}
}
