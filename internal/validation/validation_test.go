package validation

import "testing"

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "etc_passwd"},
		{"Café menu.pdf", "Cafe_menu.pdf"},
		{`C:\Windows\system32`, "C_Windows_system32"},
		{"  notice  (final).html ", "notice_final.html"},
		{"CR-2024-001_notice.html", "CR-2024-001_notice.html"},
		{"...", ""},
		{"日本語", ""},
	}

	for _, tt := range tests {
		if got := SecureFilename(tt.name); got != tt.want {
			t.Errorf("SecureFilename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestValidateSlug(t *testing.T) {
	valid := []string{"date_of_arrest", "bond-amount", "a1"}
	for _, s := range valid {
		if err := ValidateSlug(s); err != nil {
			t.Errorf("ValidateSlug(%q) = %v", s, err)
		}
	}

	invalid := []string{"", "Date", "_leading", "has space", "a/b"}
	for _, s := range invalid {
		if err := ValidateSlug(s); err == nil {
			t.Errorf("ValidateSlug(%q) = nil, want error", s)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("client@example.com"); err != nil {
		t.Errorf("ValidateEmail(valid) = %v", err)
	}
	for _, email := range []string{"", "not-an-email", "a@", "Jane <jane@example.com>"} {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", email)
		}
	}
}

func TestValidateRequired(t *testing.T) {
	if err := ValidateRequired("style", "  ", 10); err == nil {
		t.Error("ValidateRequired(blank) = nil")
	}
	if err := ValidateRequired("style", "State v. Doe", 5); err == nil {
		t.Error("ValidateRequired(too long) = nil")
	}
	if err := ValidateRequired("style", "State v. Doe", 200); err != nil {
		t.Errorf("ValidateRequired(valid) = %v", err)
	}
}
