package i18n

// Message keys are the English text.
const (
	MsgInvalidCredentials = "Invalid username or password"
	MsgRegistered         = "Congratulations, you are now a registered user!"
	MsgResetEmailSent     = "Check your email for the instructions to reset your password"
	MsgPasswordReset      = "Your password has been reset."
	MsgInvalidToken       = "Invalid or expired token"
	MsgPostLive           = "Your post is now live!"
	MsgPostNotFound       = "Post not found"
	MsgNotPostAuthor      = "You can only delete your own posts"
	MsgChangesSaved       = "Your changes have been saved."
	MsgUserNotFound       = "User %s not found."
	MsgCannotFollowSelf   = "You cannot follow yourself!"
	MsgCannotUnfollowSelf = "You cannot unfollow yourself!"
	MsgFollowing          = "You are following %s!"
	MsgAlreadyFollowing   = "You are already following %s."
	MsgNotFollowing       = "You are not following %s."
	MsgMessageSent        = "Your message has been sent."
	MsgExportRunning      = "An export task is currently in progress"
	MsgExporting          = "Exporting posts..."
	MsgTasksDisabled      = "Background tasks are disabled"
	MsgEmptySearch        = "Please enter a search query"
	MsgUsernameTaken      = "Please use a different username."
	MsgEmailTaken         = "Please use a different email address."
	MsgInvalidRequest     = "Invalid request body"
	MsgEmailNotVerified   = "Verify your email address before signing in with this account."
)

var serbian = map[string]string{
	MsgInvalidCredentials: "Pogrešno korisničko ime ili lozinka",
	MsgRegistered:         "Čestitamo, sada ste registrovani korisnik!",
	MsgResetEmailSent:     "Proverite e-poštu za uputstva za promenu lozinke",
	MsgPasswordReset:      "Vaša lozinka je promenjena.",
	MsgInvalidToken:       "Neispravan ili istekao token",
	MsgPostLive:           "Vaša objava je sada vidljiva!",
	MsgPostNotFound:       "Objava nije pronađena",
	MsgNotPostAuthor:      "Možete brisati samo svoje objave",
	MsgChangesSaved:       "Vaše izmene su sačuvane.",
	MsgUserNotFound:       "Korisnik %s nije pronađen.",
	MsgCannotFollowSelf:   "Ne možete pratiti sami sebe!",
	MsgCannotUnfollowSelf: "Ne možete otpratiti sami sebe!",
	MsgFollowing:          "Pratite korisnika %s!",
	MsgAlreadyFollowing:   "Već pratite korisnika %s.",
	MsgNotFollowing:       "Ne pratite korisnika %s.",
	MsgMessageSent:        "Vaša poruka je poslata.",
	MsgExportRunning:      "Izvoz je već u toku",
	MsgExporting:          "Izvoz objava...",
	MsgTasksDisabled:      "Pozadinski zadaci su isključeni",
	MsgEmptySearch:        "Unesite pojam za pretragu",
	MsgUsernameTaken:      "Izaberite drugo korisničko ime.",
	MsgEmailTaken:         "Koristite drugu adresu e-pošte.",
	MsgInvalidRequest:     "Neispravan zahtev",
	MsgEmailNotVerified:   "Potvrdite adresu e-pošte pre prijave ovim nalogom.",
}
