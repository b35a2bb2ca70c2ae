// Package forms decodes and validates the HTML forms posted to the web app.
//
// Validation here is syntactic: required fields, matching passwords and
// length limits. Services re-check the domain rules and their coded errors
// are attached to the same fields through Errors.AddDomain.
package forms

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/louisbranch/murmur/internal/platform/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Errors maps form field names to the domain error shown beside them.
type Errors map[string]error

// Empty reports whether no field failed.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Add records err for field unless the field already has an error.
func (e Errors) Add(field string, err error) {
	if e == nil || err == nil {
		return
	}
	if _, ok := e[field]; ok {
		return
	}
	e[field] = err
}

// AddDomain attaches a coded service error to the field it concerns. It
// returns false when err does not belong to any form field.
func (e Errors) AddDomain(err error) bool {
	field, ok := fieldByCode[apperrors.GetCode(err)]
	if !ok {
		return false
	}
	e.Add(field, err)
	return true
}

var fieldByCode = map[apperrors.Code]string{
	apperrors.CodeUsernameInvalid:  "username",
	apperrors.CodeUsernameTaken:    "username",
	apperrors.CodeEmailInvalid:     "email",
	apperrors.CodeEmailTaken:       "email",
	apperrors.CodePasswordRequired: "password",
	apperrors.CodePasswordTooLong:  "password",
	apperrors.CodePasswordMismatch: "password2",
	apperrors.CodeAboutMeTooLong:   "about_me",
	apperrors.CodePostBodyRequired: "post",
	apperrors.CodePostBodyTooLong:  "post",
}

// ruleCodes maps "field.tag" validation failures to domain codes. Any
// unlisted failure is reported as a required field.
var ruleCodes = map[string]apperrors.Code{
	"email.email":       apperrors.CodeEmailInvalid,
	"email.max":         apperrors.CodeEmailInvalid,
	"password2.eqfield": apperrors.CodePasswordMismatch,
	"about_me.max":      apperrors.CodeAboutMeTooLong,
	"post.max":          apperrors.CodePostBodyTooLong,
}

func check(form any) Errors {
	errs := Errors{}
	err := validate.Struct(form)
	if err == nil {
		return errs
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs.Add("", err)
		return errs
	}
	for _, fe := range fieldErrs {
		code, ok := ruleCodes[fe.Field()+"."+fe.Tag()]
		if !ok {
			errs.Add(fe.Field(), apperrors.New(apperrors.CodeFieldRequired, fe.Field()+" is required"))
			continue
		}
		if fe.Tag() == "max" {
			errs.Add(fe.Field(), apperrors.WithMetadata(code, fe.Field()+" is too long", map[string]string{"Max": fe.Param()}))
			continue
		}
		errs.Add(fe.Field(), apperrors.New(code, fe.Field()+" failed "+fe.Tag()))
	}
	return errs
}

func value(r *http.Request, name string) string {
	if r == nil {
		return ""
	}
	return r.PostFormValue(name)
}

func checked(r *http.Request, name string) bool {
	switch strings.ToLower(strings.TrimSpace(value(r, name))) {
	case "1", "on", "true", "y", "yes":
		return true
	}
	return false
}

// Login is the sign-in form.
type Login struct {
	Username string `form:"username" validate:"notblank"`
	Password string `form:"password" validate:"notblank"`
	Remember bool   `form:"remember_me"`
}

// ParseLogin decodes and validates the sign-in form.
func ParseLogin(r *http.Request) (Login, Errors) {
	form := Login{
		Username: strings.TrimSpace(value(r, "username")),
		Password: value(r, "password"),
		Remember: checked(r, "remember_me"),
	}
	return form, check(form)
}

// Registration is the sign-up form.
type Registration struct {
	Username       string `form:"username" validate:"notblank"`
	Email          string `form:"email" validate:"notblank,email,max=120"`
	Password       string `form:"password" validate:"notblank"`
	PasswordRepeat string `form:"password2" validate:"notblank,eqfield=Password"`
}

// ParseRegistration decodes and validates the sign-up form.
func ParseRegistration(r *http.Request) (Registration, Errors) {
	form := Registration{
		Username:       strings.TrimSpace(value(r, "username")),
		Email:          strings.TrimSpace(value(r, "email")),
		Password:       value(r, "password"),
		PasswordRepeat: value(r, "password2"),
	}
	return form, check(form)
}

// EditProfile is the profile editing form.
type EditProfile struct {
	Username string `form:"username" validate:"notblank"`
	AboutMe  string `form:"about_me" validate:"max=140"`
}

// ParseEditProfile decodes and validates the profile editing form.
func ParseEditProfile(r *http.Request) (EditProfile, Errors) {
	form := EditProfile{
		Username: strings.TrimSpace(value(r, "username")),
		AboutMe:  strings.TrimSpace(value(r, "about_me")),
	}
	return form, check(form)
}

// Post is the status update form on the news page.
type Post struct {
	Body string `form:"post" validate:"notblank,max=140"`
}

// ParsePost decodes and validates the status update form. The length limit
// applies to the body as submitted; the returned body is trimmed.
func ParsePost(r *http.Request) (Post, Errors) {
	form := Post{Body: value(r, "post")}
	errs := check(form)
	form.Body = strings.TrimSpace(form.Body)
	return form, errs
}

// ResetRequest asks for a password reset email.
type ResetRequest struct {
	Email string `form:"email" validate:"notblank,email,max=120"`
}

// ParseResetRequest decodes and validates the reset request form.
func ParseResetRequest(r *http.Request) (ResetRequest, Errors) {
	form := ResetRequest{Email: strings.TrimSpace(value(r, "email"))}
	return form, check(form)
}

// ResetPassword sets a new password from a reset link.
type ResetPassword struct {
	Password       string `form:"password" validate:"notblank"`
	PasswordRepeat string `form:"password2" validate:"notblank,eqfield=Password"`
}

// ParseResetPassword decodes and validates the new password form.
func ParseResetPassword(r *http.Request) (ResetPassword, Errors) {
	form := ResetPassword{
		Password:       value(r, "password"),
		PasswordRepeat: value(r, "password2"),
	}
	return form, check(form)
}
