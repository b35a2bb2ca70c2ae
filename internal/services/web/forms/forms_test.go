package forms

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/murmur/internal/platform/errors"
)

func postRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func assertCodes(t *testing.T, errs Errors, want map[string]apperrors.Code) {
	t.Helper()
	if len(errs) != len(want) {
		t.Fatalf("errors = %v, want %v", errs, want)
	}
	for field, code := range want {
		if got := apperrors.GetCode(errs[field]); got != code {
			t.Fatalf("errors[%q] = %v, want %s", field, errs[field], code)
		}
	}
}

func TestParseLogin(t *testing.T) {
	t.Parallel()

	form, errs := ParseLogin(postRequest(url.Values{
		"username":    {"  alice "},
		"password":    {" secret "},
		"remember_me": {"y"},
	}))
	assertCodes(t, errs, nil)
	if form.Username != "alice" || form.Password != " secret " || !form.Remember {
		t.Fatalf("form = %+v", form)
	}

	_, errs = ParseLogin(postRequest(url.Values{"username": {"   "}}))
	assertCodes(t, errs, map[string]apperrors.Code{
		"username": apperrors.CodeFieldRequired,
		"password": apperrors.CodeFieldRequired,
	})
}

func TestParseRegistration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values url.Values
		want   map[string]apperrors.Code
	}{
		{
			name: "valid",
			values: url.Values{
				"username": {"alice"}, "email": {"alice@example.com"},
				"password": {"pw"}, "password2": {"pw"},
			},
		},
		{
			name: "bad email and mismatch",
			values: url.Values{
				"username": {"alice"}, "email": {"not-an-email"},
				"password": {"pw"}, "password2": {"other"},
			},
			want: map[string]apperrors.Code{
				"email":     apperrors.CodeEmailInvalid,
				"password2": apperrors.CodePasswordMismatch,
			},
		},
		{
			name:   "all blank",
			values: url.Values{},
			want: map[string]apperrors.Code{
				"username":  apperrors.CodeFieldRequired,
				"email":     apperrors.CodeFieldRequired,
				"password":  apperrors.CodeFieldRequired,
				"password2": apperrors.CodeFieldRequired,
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := ParseRegistration(postRequest(tc.values))
			assertCodes(t, errs, tc.want)
		})
	}
}

func TestParseEditProfileLimitsAboutMe(t *testing.T) {
	t.Parallel()

	_, errs := ParseEditProfile(postRequest(url.Values{
		"username": {"alice"},
		"about_me": {strings.Repeat("ж", 140)},
	}))
	assertCodes(t, errs, nil)

	_, errs = ParseEditProfile(postRequest(url.Values{
		"username": {"alice"},
		"about_me": {strings.Repeat("ж", 141)},
	}))
	assertCodes(t, errs, map[string]apperrors.Code{"about_me": apperrors.CodeAboutMeTooLong})
	if got := apperrors.Metadata(errs["about_me"])["Max"]; got != "140" {
		t.Fatalf("Max = %q, want 140", got)
	}
}

func TestParsePost(t *testing.T) {
	t.Parallel()

	form, errs := ParsePost(postRequest(url.Values{"post": {"  hello  "}}))
	assertCodes(t, errs, nil)
	if form.Body != "hello" {
		t.Fatalf("Body = %q, want hello", form.Body)
	}

	_, errs = ParsePost(postRequest(url.Values{"post": {strings.Repeat("a", 141)}}))
	assertCodes(t, errs, map[string]apperrors.Code{"post": apperrors.CodePostBodyTooLong})

	_, errs = ParsePost(postRequest(url.Values{"post": {" " + strings.Repeat("a", 140)}}))
	assertCodes(t, errs, map[string]apperrors.Code{"post": apperrors.CodePostBodyTooLong})

	_, errs = ParsePost(postRequest(url.Values{"post": {" \t "}}))
	assertCodes(t, errs, map[string]apperrors.Code{"post": apperrors.CodeFieldRequired})
}

func TestParseResetForms(t *testing.T) {
	t.Parallel()

	_, errs := ParseResetRequest(postRequest(url.Values{"email": {"bob@"}}))
	assertCodes(t, errs, map[string]apperrors.Code{"email": apperrors.CodeEmailInvalid})

	_, errs = ParseResetPassword(postRequest(url.Values{"password": {"a"}, "password2": {"b"}}))
	assertCodes(t, errs, map[string]apperrors.Code{"password2": apperrors.CodePasswordMismatch})
}

func TestErrorsAddDomain(t *testing.T) {
	t.Parallel()

	errs := Errors{}
	if !errs.AddDomain(apperrors.New(apperrors.CodeUsernameTaken, "taken")) {
		t.Fatal("expected username taken to attach to a field")
	}
	if errs.AddDomain(apperrors.New(apperrors.CodeUserNotFound, "missing")) {
		t.Fatal("expected user not found to stay off the form")
	}
	if errs.AddDomain(errors.New("boom")) {
		t.Fatal("expected plain errors to stay off the form")
	}
	errs.Add("username", apperrors.New(apperrors.CodeUsernameInvalid, "second"))
	if got := apperrors.GetCode(errs["username"]); got != apperrors.CodeUsernameTaken {
		t.Fatalf("username = %s, want first error kept", got)
	}
	if errs.Empty() {
		t.Fatal("expected errors")
	}
}
