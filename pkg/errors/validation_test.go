package errors

import "testing"

func TestValidateRepositoryURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://repo1.maven.org/maven2/", false},
		{"http with port", "http://localhost:8081/repository/", false},

		{"empty", "", true},
		{"ftp", "ftp://repo.example.org/", true},
		{"relative", "/maven2/", true},
		{"no host", "https:///maven2", true},
		{"bad escape", "https://repo/%zz", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepositoryURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRepositoryURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidInput) {
				t.Errorf("ValidateRepositoryURL(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidInput)
			}
		})
	}
}

func TestValidatePathSegment(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2.3.4", false},
		{"1.0-SNAPSHOT", false},
		{"ktor-client_2.13", false},
		{"ERROR", false},

		{"", true},
		{".", true},
		{"..", true},
		{"../../etc", true},
		{"a/b", true},
		{`a\b`, true},
		{"1.0?x=1", true},
		{"1.0#frag", true},
		{"1.0 beta", true},
		{"1.0\n", true},
		{string(make([]byte, 300)), true},
	}
	for _, tt := range tests {
		err := ValidatePathSegment("version", tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePathSegment(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
	}
}
