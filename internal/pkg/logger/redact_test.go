package logger

import "testing"

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"normal address", "john.doe@example.com", "jo***@example.com"},
		{"short local part", "ab@example.com", "***@example.com"},
		{"single char local part", "a@example.com", "***@example.com"},
		{"not an email", "not-an-email", "***@***"},
		{"empty", "", "***@***"},
		{"double at", "a@b@example.com", "***@***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactEmail(tt.email); got != tt.want {
				t.Errorf("RedactEmail(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestRedactValueKeys(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"email key", "email", "cook@example.com", "co***@example.com"},
		{"recipient key", "recipient_email", "cook@example.com", "co***@example.com"},
		{"embedded email in generic field", "error", "delivery to cook@example.com refused", "delivery to co***@example.com refused"},
		{"plain value untouched", "run_id", "abc-123", "abc-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactValue(tt.key, tt.val); got != tt.want {
				t.Errorf("redactValue(%q, %q) = %q, want %q", tt.key, tt.val, got, tt.want)
			}
		})
	}
}
