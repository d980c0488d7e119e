package handler

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  John Doe  ", "John Doe"},
		{"<script>alert(1)</script>Jane", "Jane"},
		{"<b>Tom</b> & Jerry", "Tom & Jerry"},
		{"O'Brien", "O'Brien"},
	}
	for _, tt := range tests {
		if got := cleanText(tt.in); got != tt.want {
			t.Errorf("cleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormProblem(t *testing.T) {
	tests := []struct {
		name string
		form registerForm
		want string
	}{
		{"missing name", registerForm{Email: "a@b.co", Password: "x"}, msgFillAllFields},
		{"bad email", registerForm{Name: "A", Email: "nope", Password: "x"}, msgInvalidEmail},
		{"long password", registerForm{Name: "A", Email: "a@b.co", Password: string(make([]byte, 73))}, msgTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.form)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if got := formProblem(err); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                   "/",
		"/brands":            "/brands",
		"/my-profile?tab=x":  "/my-profile?tab=x",
		"//evil.example":     "/",
		"/\\evil.example":    "/",
		"https://evil.test/": "/",
	}
	for in, want := range tests {
		if got := safeNext(in); got != want {
			t.Errorf("safeNext(%q) = %q, want %q", in, got, want)
		}
	}
}
