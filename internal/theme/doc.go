// Package theme resolves the CSS used to draw notification cards.
// Bundled themes are embedded; a file of the same name under
// ~/.config/aurora-notify/themes/ overrides them.
package theme
