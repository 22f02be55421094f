package inputval

import "testing"

func TestValidate_Credentials(t *testing.T) {
	tests := []struct {
		name  string
		in    Credentials
		field string
		want  string
	}{
		{"valid", Credentials{"admin@example.com", "secret-pass"}, "", ""},
		{"missing email", Credentials{"", "secret-pass"}, "email", "Email is required."},
		{"bad email", Credentials{"admin", "secret-pass"}, "email", "A valid email address is required."},
		{"missing password", Credentials{"admin@example.com", ""}, "password", "Password is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.in)
			if tt.want == "" {
				if res.HasErrors() {
					t.Fatalf("Validate() = %q, want no errors", res.First())
				}
				return
			}
			if got := res.First(); got != tt.want {
				t.Errorf("First() = %q, want %q", got, tt.want)
			}
			if got := res.Field(tt.field); got != tt.want {
				t.Errorf("Field(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestValidate_LabelFallback(t *testing.T) {
	type noLabel struct {
		Name string `validate:"required"`
	}
	if got := Validate(noLabel{}).First(); got != "Name is required." {
		t.Errorf("First() without label = %q", got)
	}
	if got := Validate(&noLabel{}).First(); got != "Name is required." {
		t.Errorf("First() via pointer = %q", got)
	}
}

func TestValidate_MinMax(t *testing.T) {
	type in struct {
		Password string `json:"password" validate:"required,min=8,max=12" label:"Password"`
	}
	if got := Validate(in{"short"}).First(); got != "Password must be at least 8 characters." {
		t.Errorf("min message = %q", got)
	}
	if got := Validate(in{"much-too-long-password"}).First(); got != "Password must be at most 12 characters." {
		t.Errorf("max message = %q", got)
	}
}

func TestValidate_CustomRules(t *testing.T) {
	type prefs struct {
		Lang     string `json:"lang" validate:"required,locale" label:"Language"`
		Category string `json:"category" validate:"required,objectid" label:"Category"`
	}
	ok := prefs{Lang: "ar", Category: "507f1f77bcf86cd799439011"}
	if res := Validate(ok); res.HasErrors() {
		t.Fatalf("valid input rejected: %s", res.First())
	}

	bad := ok
	bad.Lang = "fr"
	if got := Validate(bad).Field("lang"); got != "Language must be one of: en, ar." {
		t.Errorf("locale message = %q", got)
	}

	bad = ok
	bad.Category = "not-an-id"
	if got := Validate(bad).Field("category"); got != "Category is not a valid ID." {
		t.Errorf("objectid message = %q", got)
	}
}

func TestResult_Empty(t *testing.T) {
	r := &Result{}
	if r.HasErrors() || r.First() != "" || r.Field("email") != "" {
		t.Error("empty result should report nothing")
	}
}
