// Package web serves the browser-facing microblog: sign-in and account
// pages, the user directory, profiles, follow actions and the followed feed.
//
// Handlers stay thin. They decode forms, call the social services and map
// coded domain errors onto inline form errors, flash notices, redirects or
// error pages.
package web
