package web

import (
	"net/http"
	"time"

	"github.com/a-h/templ"

	apperrors "github.com/louisbranch/murmur/internal/platform/errors"
	"github.com/louisbranch/murmur/internal/services/social/account"
	"github.com/louisbranch/murmur/internal/services/social/storage"
	"github.com/louisbranch/murmur/internal/services/web/forms"
	"github.com/louisbranch/murmur/internal/services/web/nav"
	"github.com/louisbranch/murmur/internal/services/web/platform/flash"
	"github.com/louisbranch/murmur/internal/services/web/platform/httpx"
	"github.com/louisbranch/murmur/internal/services/web/platform/pagerender"
	"github.com/louisbranch/murmur/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/murmur/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/murmur/internal/services/web/templates"
)

func (h *handler) handleAbout(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, nav.About, "title.about", webtemplates.AboutPage)
}

func (h *handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get(routepath.NextQueryKey)
	if viewer, ok := viewerFromRequest(r); ok {
		httpx.WriteRedirect(w, r, routepath.UserProfile(viewer.Username))
		return
	}
	view := webtemplates.LoginView{Next: next}
	if r.Method != http.MethodPost {
		h.renderLogin(w, r, http.StatusOK, view)
		return
	}

	form, errs := forms.ParseLogin(r)
	view.Username = form.Username
	view.Remember = form.Remember
	if !errs.Empty() {
		view.Errors = fieldErrors(pagerender.Localizer(r), errs)
		h.renderLogin(w, r, http.StatusBadRequest, view)
		return
	}

	login, err := h.accounts.Login(r.Context(), form.Username, form.Password, form.Remember)
	if err != nil {
		if apperrors.GetCode(err) == apperrors.CodeInvalidCredentials {
			flash.Write(w, r, flash.Error("flash.invalid_credentials"))
			httpx.WriteRedirect(w, r, routepath.LoginWithNext(next))
			return
		}
		h.serverError(w, r, err)
		return
	}
	var expires time.Time
	if login.Session.Remember {
		expires = login.Session.ExpiresAt
	}
	sessioncookie.Write(w, r, login.Session.ID, expires)
	httpx.WriteRedirect(w, r, routepath.SafeNext(next, routepath.Index))
}

func (h *handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, view webtemplates.LoginView) {
	h.render(w, r, status, nav.Profile, "title.login", func(page webtemplates.PageContext) templ.Component {
		return webtemplates.LoginPage(page, view)
	})
}

func (h *handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sessionID, ok := sessioncookie.Read(r); ok {
		if err := h.accounts.Logout(r.Context(), sessionID); err != nil {
			h.serverError(w, r, err)
			return
		}
	}
	sessioncookie.Clear(w, r)
	httpx.WriteRedirect(w, r, routepath.Index)
}

func (h *handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if _, ok := viewerFromRequest(r); ok {
		httpx.WriteRedirect(w, r, routepath.Index)
		return
	}
	if r.Method != http.MethodPost {
		h.renderRegister(w, r, http.StatusOK, webtemplates.RegisterView{})
		return
	}

	form, errs := forms.ParseRegistration(r)
	view := webtemplates.RegisterView{Username: form.Username, Email: form.Email}
	if errs.Empty() {
		_, err := h.accounts.Register(r.Context(), account.RegisterInput{
			Username: form.Username,
			Email:    form.Email,
			Password: form.Password,
		})
		if err != nil && !errs.AddDomain(err) {
			h.serverError(w, r, err)
			return
		}
	}
	if !errs.Empty() {
		view.Errors = fieldErrors(pagerender.Localizer(r), errs)
		h.renderRegister(w, r, http.StatusBadRequest, view)
		return
	}
	flash.Write(w, r, flash.Success("flash.registered"))
	httpx.WriteRedirect(w, r, routepath.Login)
}

func (h *handler) renderRegister(w http.ResponseWriter, r *http.Request, status int, view webtemplates.RegisterView) {
	h.render(w, r, status, nav.Profile, "title.register", func(page webtemplates.PageContext) templ.Component {
		return webtemplates.RegisterPage(page, view)
	})
}

func (h *handler) handleEditProfile(w http.ResponseWriter, r *http.Request, viewer storage.User) {
	if r.Method != http.MethodPost {
		h.renderEditProfile(w, r, http.StatusOK, webtemplates.EditProfileView{
			Username: viewer.Username,
			AboutMe:  viewer.AboutMe,
		})
		return
	}

	form, errs := forms.ParseEditProfile(r)
	view := webtemplates.EditProfileView{Username: form.Username, AboutMe: form.AboutMe}
	var updated storage.User
	if errs.Empty() {
		var err error
		updated, err = h.accounts.UpdateProfile(r.Context(), viewer.ID, form.Username, form.AboutMe)
		if err != nil && !errs.AddDomain(err) {
			h.serverError(w, r, err)
			return
		}
	}
	if !errs.Empty() {
		view.Errors = fieldErrors(pagerender.Localizer(r), errs)
		h.renderEditProfile(w, r, http.StatusBadRequest, view)
		return
	}
	flash.Write(w, r, flash.Success("flash.profile_saved"))
	httpx.WriteRedirect(w, r, routepath.UserProfile(updated.Username))
}

func (h *handler) renderEditProfile(w http.ResponseWriter, r *http.Request, status int, view webtemplates.EditProfileView) {
	h.render(w, r, status, nav.Profile, "title.edit_profile", func(page webtemplates.PageContext) templ.Component {
		return webtemplates.EditProfilePage(page, view)
	})
}

func (h *handler) handleResetRequest(w http.ResponseWriter, r *http.Request) {
	if _, ok := viewerFromRequest(r); ok {
		httpx.WriteRedirect(w, r, routepath.Index)
		return
	}
	if r.Method != http.MethodPost {
		h.renderResetRequest(w, r, http.StatusOK, webtemplates.ResetRequestView{})
		return
	}

	form, errs := forms.ParseResetRequest(r)
	if errs.Empty() {
		err := h.accounts.RequestPasswordReset(r.Context(), form.Email, pagerender.Localizer(r))
		if err != nil && !errs.AddDomain(err) {
			h.serverError(w, r, err)
			return
		}
	}
	if !errs.Empty() {
		h.renderResetRequest(w, r, http.StatusBadRequest, webtemplates.ResetRequestView{
			Email:  form.Email,
			Errors: fieldErrors(pagerender.Localizer(r), errs),
		})
		return
	}
	flash.Write(w, r, flash.Info("flash.reset_sent"))
	httpx.WriteRedirect(w, r, routepath.Login)
}

func (h *handler) renderResetRequest(w http.ResponseWriter, r *http.Request, status int, view webtemplates.ResetRequestView) {
	h.render(w, r, status, nav.Profile, "title.reset_request", func(page webtemplates.PageContext) templ.Component {
		return webtemplates.ResetRequestPage(page, view)
	})
}

func (h *handler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	if _, ok := viewerFromRequest(r); ok {
		httpx.WriteRedirect(w, r, routepath.Index)
		return
	}
	token := r.PathValue("token")
	if r.Method != http.MethodPost {
		if _, err := h.accounts.VerifyResetToken(r.Context(), token); err != nil {
			h.rejectResetToken(w, r, err)
			return
		}
		h.renderResetPassword(w, r, http.StatusOK, webtemplates.ResetPasswordView{Token: token})
		return
	}

	form, errs := forms.ParseResetPassword(r)
	if errs.Empty() {
		_, err := h.accounts.ResetPassword(r.Context(), token, form.Password)
		if apperrors.GetCode(err) == apperrors.CodeResetTokenInvalid {
			h.rejectResetToken(w, r, err)
			return
		}
		if err != nil && !errs.AddDomain(err) {
			h.serverError(w, r, err)
			return
		}
	}
	if !errs.Empty() {
		h.renderResetPassword(w, r, http.StatusBadRequest, webtemplates.ResetPasswordView{
			Token:  token,
			Errors: fieldErrors(pagerender.Localizer(r), errs),
		})
		return
	}
	flash.Write(w, r, flash.Success("flash.password_reset"))
	httpx.WriteRedirect(w, r, routepath.Login)
}

func (h *handler) rejectResetToken(w http.ResponseWriter, r *http.Request, err error) {
	if apperrors.GetCode(err) != apperrors.CodeResetTokenInvalid {
		h.serverError(w, r, err)
		return
	}
	flash.Write(w, r, flash.Error("error.reset_token_invalid"))
	httpx.WriteRedirect(w, r, routepath.Index)
}

func (h *handler) renderResetPassword(w http.ResponseWriter, r *http.Request, status int, view webtemplates.ResetPasswordView) {
	h.render(w, r, status, nav.Profile, "title.reset_password", func(page webtemplates.PageContext) templ.Component {
		return webtemplates.ResetPasswordPage(page, view)
	})
}
