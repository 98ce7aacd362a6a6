package assembly

import (
	"fmt"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Locale is the language every announcement is rendered in, regardless of
// the caller's environment.
var Locale = language.German

// Message ids. The ids are the English texts; the catalog maps them to
// German.
const (
	msgSomeone = "Someone"
	msgBye     = "bye"
	msgUnnamed = "<unnamed>"

	msgInBoard = ` in board "%[1]s"`

	msgTopicCreated   = `%[1]s created%[2]s the topic "%[3]s": %[4]s`
	msgTopicHidden    = `%[1]s hid%[2]s the topic "%[3]s" by %[4]s: %[5]s`
	msgTopicUnhidden  = `%[1]s made%[2]s the topic "%[3]s" by %[4]s visible again: %[5]s`
	msgTopicLocked    = `%[1]s closed%[2]s the topic "%[3]s" by %[4]s: %[5]s`
	msgTopicUnlocked  = `%[1]s reopened%[2]s the topic "%[3]s" by %[4]s: %[5]s`
	msgTopicPinned    = `%[1]s pinned%[2]s the topic "%[3]s" by %[4]s: %[5]s`
	msgTopicUnpinned  = `%[1]s unpinned%[2]s the topic "%[3]s" by %[4]s: %[5]s`
	msgTopicMoved     = `%[1]s moved%[2]s the topic "%[3]s" by %[4]s from "%[5]s" to "%[6]s": %[7]s`
	msgPostingCreated = `%[1]s replied%[2]s to the topic "%[3]s": %[4]s`
	msgPostingHidden  = `%[1]s hid%[2]s a reply by %[3]s in the topic "%[4]s": %[5]s`
	msgPostingShown   = `%[1]s made%[2]s a reply by %[3]s in the topic "%[4]s" visible again: %[5]s`

	msgOrderPlaced   = `%[1]s placed order %[2]s.`
	msgOrderCanceled = `%[1]s canceled order %[2]s by %[3]s.`
	msgOrderPaid     = `%[1]s marked order %[2]s by %[3]s as paid via %[4]s.`

	msgPaymentBankTransfer = "bank transfer"
	msgPaymentCash         = "cash"
	msgPaymentDirectDebit  = "direct debit"
	msgPaymentFree         = "free of charge"

	msgTicketCheckedIn = `%[1]s checked in ticket "%[2]s", used by %[3]s.`
	msgTicketsSold     = `%[1]s paid %[2]d ticket(s).`
	msgTicketsTotal    = ` Currently sold: %[1]d`

	msgTourneyStarted  = `The tourney %[1]s has been started.`
	msgTourneyPaused   = `The tourney %[1]s has been paused.`
	msgTourneyCanceled = `The tourney %[1]s has been canceled.`
	msgTourneyFinished = `The tourney %[1]s has been finished.`

	msgMatchReady           = `The match %[1]s in tourney %[2]s can be played.`
	msgMatchReset           = `The match %[1]s in tourney %[2]s has been reset.`
	msgMatchScoreSubmitted  = `A result has been entered for the match %[1]s in tourney %[2]s.`
	msgMatchScoreConfirmed  = `The entered result for the match %[1]s in tourney %[2]s has been confirmed.`
	msgMatchScoreRandomized = `A random result has been entered for the match %[1]s in tourney %[2]s.`

	msgParticipantReady        = `"%[1]s" in tourney %[2]s is ready to play.`
	msgParticipantEliminated   = `"%[1]s" has been eliminated from tourney %[2]s.`
	msgParticipantWarned       = `"%[1]s" in tourney %[2]s has received a yellow card.`
	msgParticipantDisqualified = `"%[1]s" in tourney %[2]s has been disqualified.`

	msgAccountCreated       = `%[1]s created the user account "%[2]s".`
	msgAccountDeleted       = `%[1]s deleted the user account with ID "%[2]s".`
	msgAccountSuspended     = `%[1]s suspended the user account "%[2]s".`
	msgAccountUnsuspended   = `%[1]s unsuspended the user account "%[2]s".`
	msgDetailsUpdated       = `%[1]s changed the personal details of the user account "%[2]s".`
	msgEmailChanged         = `%[1]s changed the email address of the user account "%[2]s".`
	msgEmailInvalidated     = `%[1]s invalidated the email address of the user account "%[2]s".`
	msgScreenNameChanged    = `%[1]s renamed the user account "%[2]s" to "%[3]s".`
	msgBadgeAwarded         = `%[1]s awarded the badge "%[2]s" to %[3]s.`
	msgPasswordUpdated      = `%[1]s updated the password of %[2]s.`
	msgLoggedIn             = `%[1]s logged in.`
	msgLoggedInOnSite       = `%[1]s logged in on site "%[2]s".`
	msgRoleAssigned         = `%[1]s assigned the role "%[2]s" to %[3]s.`
	msgRoleDeassigned       = `%[1]s removed the role "%[2]s" from %[3]s.`
	msgExternalConnected    = `%[1]s connected a %[2]s account.`
	msgExternalDisconnected = `%[1]s disconnected a %[2]s account.`

	msgOrgaGranted          = `%[1]s granted %[2]s orga status for %[3]s.`
	msgOrgaRevoked          = `%[1]s revoked the orga status for %[3]s from %[2]s.`
	msgNewsletterSubscribed = `%[1]s subscribed to the newsletter "%[2]s".`
	msgNewsletterLeft       = `%[1]s unsubscribed from the newsletter "%[2]s".`

	msgGuestServerRegistered = `%[1]s registered a guest server for party "%[2]s".`
	msgGuestServerApproved   = `%[1]s approved a guest server of %[2]s for party "%[3]s".`
	msgGuestServerCheckedIn  = `%[1]s checked in a guest server of %[2]s for party "%[3]s".`
	msgGuestServerCheckedOut = `%[1]s checked out a guest server of %[2]s for party "%[3]s".`

	msgNewsPublished = `The news "%[1]s" has been published. %[2]s`

	msgPageCreated = `%[1]s created the page "%[2]s" on site "%[3]s".`
	msgPageUpdated = `%[1]s updated the page "%[2]s" on site "%[3]s".`
	msgPageDeleted = `%[1]s deleted the page "%[2]s" on site "%[3]s".`

	msgSnippetDocument = "the snippet document"
	msgSnippetFragment = "the snippet fragment"
	msgSnippetCreated  = `%[1]s created %[2]s "%[3]s" in scope "%[4]s".`
	msgSnippetUpdated  = `%[1]s updated %[2]s "%[3]s" in scope "%[4]s".`
	msgSnippetDeleted  = `%[1]s deleted %[2]s "%[3]s" in scope "%[4]s".`
)

var german = map[string]string{
	msgSomeone: "Jemand",
	msgBye:     "freilos",
	msgUnnamed: "<unnamed>",

	msgInBoard: ` im "%[1]s"-Forum`,

	msgTopicCreated:   `%[1]s hat%[2]s das Thema "%[3]s" erstellt: %[4]s`,
	msgTopicHidden:    `%[1]s hat%[2]s das Thema "%[3]s" von %[4]s versteckt: %[5]s`,
	msgTopicUnhidden:  `%[1]s hat%[2]s das Thema "%[3]s" von %[4]s wieder sichtbar gemacht: %[5]s`,
	msgTopicLocked:    `%[1]s hat%[2]s das Thema "%[3]s" von %[4]s geschlossen: %[5]s`,
	msgTopicUnlocked:  `%[1]s hat%[2]s das Thema "%[3]s" von %[4]s wieder geöffnet: %[5]s`,
	msgTopicPinned:    `%[1]s hat%[2]s das Thema "%[3]s" von %[4]s angepinnt: %[5]s`,
	msgTopicUnpinned:  `%[1]s hat%[2]s das Thema "%[3]s" von %[4]s wieder gelöst: %[5]s`,
	msgTopicMoved:     `%[1]s hat%[2]s das Thema "%[3]s" von %[4]s aus "%[5]s" in "%[6]s" verschoben: %[7]s`,
	msgPostingCreated: `%[1]s hat%[2]s auf das Thema "%[3]s" geantwortet: %[4]s`,
	msgPostingHidden:  `%[1]s hat%[2]s eine Antwort von %[3]s im Thema "%[4]s" versteckt: %[5]s`,
	msgPostingShown:   `%[1]s hat%[2]s eine Antwort von %[3]s im Thema "%[4]s" wieder sichtbar gemacht: %[5]s`,

	msgOrderPlaced:   `%[1]s hat Bestellung %[2]s aufgegeben.`,
	msgOrderCanceled: `%[1]s hat Bestellung %[2]s von %[3]s storniert.`,
	msgOrderPaid:     `%[1]s hat Bestellung %[2]s von %[3]s als per %[4]s bezahlt markiert.`,

	msgPaymentBankTransfer: "Überweisung",
	msgPaymentCash:         "Barzahlung",
	msgPaymentDirectDebit:  "Lastschrift",
	msgPaymentFree:         "kostenlos",

	msgTicketCheckedIn: `%[1]s hat Ticket "%[2]s", genutzt von %[3]s, eingecheckt.`,
	msgTicketsTotal:    ` Aktuell verkauft: %[1]d`,

	msgTourneyStarted:  `Das Turnier %[1]s wurde gestartet.`,
	msgTourneyPaused:   `Das Turnier %[1]s wurde unterbrochen.`,
	msgTourneyCanceled: `Das Turnier %[1]s wurde abgesagt.`,
	msgTourneyFinished: `Das Turnier %[1]s wurde beendet.`,

	msgMatchReady:           `Das Match %[1]s im Turnier %[2]s kann gespielt werden.`,
	msgMatchReset:           `Das Match %[1]s im Turnier %[2]s wurde zurückgesetzt.`,
	msgMatchScoreSubmitted:  `Für das Match %[1]s im Turnier %[2]s wurde ein Ergebnis eingetragen.`,
	msgMatchScoreConfirmed:  `Für das Match %[1]s im Turnier %[2]s wurde das eingetragene Ergebnis bestätigt.`,
	msgMatchScoreRandomized: `Für das Match %[1]s im Turnier %[2]s wurde ein zufälliges Ergebnis eingetragen.`,

	msgParticipantReady:        `"%[1]s" im Turnier %[2]s ist spielbereit.`,
	msgParticipantEliminated:   `"%[1]s" ist aus dem Turnier %[2]s ausgeschieden.`,
	msgParticipantWarned:       `"%[1]s" im Turnier %[2]s wurde verwarnt.`,
	msgParticipantDisqualified: `"%[1]s" im Turnier %[2]s wurde disqualifiziert.`,

	msgAccountCreated:       `%[1]s hat das Benutzerkonto "%[2]s" angelegt.`,
	msgAccountDeleted:       `%[1]s hat das Benutzerkonto mit der ID "%[2]s" gelöscht.`,
	msgAccountSuspended:     `%[1]s hat das Benutzerkonto "%[2]s" gesperrt.`,
	msgAccountUnsuspended:   `%[1]s hat das Benutzerkonto "%[2]s" entsperrt.`,
	msgDetailsUpdated:       `%[1]s hat die persönlichen Daten des Benutzerkontos "%[2]s" geändert.`,
	msgEmailChanged:         `%[1]s hat die E-Mail-Adresse des Benutzerkontos "%[2]s" geändert.`,
	msgEmailInvalidated:     `%[1]s hat die E-Mail-Adresse des Benutzerkontos "%[2]s" invalidiert.`,
	msgScreenNameChanged:    `%[1]s hat das Benutzerkonto "%[2]s" in "%[3]s" umbenannt.`,
	msgBadgeAwarded:         `%[1]s hat %[3]s das Abzeichen "%[2]s" verliehen.`,
	msgPasswordUpdated:      `%[1]s hat das Passwort von %[2]s aktualisiert.`,
	msgLoggedIn:             `%[1]s hat sich eingeloggt.`,
	msgLoggedInOnSite:       `%[1]s hat sich auf Site "%[2]s" eingeloggt.`,
	msgRoleAssigned:         `%[1]s hat %[3]s die Rolle "%[2]s" zugewiesen.`,
	msgRoleDeassigned:       `%[1]s hat %[3]s die Rolle "%[2]s" genommen.`,
	msgExternalConnected:    `%[1]s hat ein %[2]s-Konto verbunden.`,
	msgExternalDisconnected: `%[1]s hat die Verbindung zu einem %[2]s-Konto getrennt.`,

	msgOrgaGranted:          `%[1]s hat %[2]s den Orgastatus für %[3]s gegeben.`,
	msgOrgaRevoked:          `%[1]s hat %[2]s den Orgastatus für %[3]s genommen.`,
	msgNewsletterSubscribed: `%[1]s hat den Newsletter "%[2]s" abonniert.`,
	msgNewsletterLeft:       `%[1]s hat den Newsletter "%[2]s" abbestellt.`,

	msgGuestServerRegistered: `%[1]s hat einen Gastserver für die Party "%[2]s" registriert.`,
	msgGuestServerApproved:   `%[1]s hat einen Gastserver von %[2]s für die Party "%[3]s" freigegeben.`,
	msgGuestServerCheckedIn:  `%[1]s hat einen Gastserver von %[2]s für die Party "%[3]s" eingecheckt.`,
	msgGuestServerCheckedOut: `%[1]s hat einen Gastserver von %[2]s für die Party "%[3]s" ausgecheckt.`,

	msgNewsPublished: `Die News "%[1]s" wurde veröffentlicht. %[2]s`,

	msgPageCreated: `%[1]s hat die Seite "%[2]s" in Site "%[3]s" erstellt.`,
	msgPageUpdated: `%[1]s hat die Seite "%[2]s" in Site "%[3]s" aktualisiert.`,
	msgPageDeleted: `%[1]s hat die Seite "%[2]s" in Site "%[3]s" gelöscht.`,

	msgSnippetDocument: "das Snippet-Dokument",
	msgSnippetFragment: "das Snippet-Fragment",
	msgSnippetCreated:  `%[1]s hat %[2]s "%[3]s" im Scope "%[4]s" angelegt.`,
	msgSnippetUpdated:  `%[1]s hat %[2]s "%[3]s" im Scope "%[4]s" aktualisiert.`,
	msgSnippetDeleted:  `%[1]s hat %[2]s "%[3]s" im Scope "%[4]s" gelöscht.`,
}

// printer is the only way handlers format text.
var printer = newPrinter()

func newPrinter() *message.Printer {
	b := catalog.NewBuilder(catalog.Fallback(Locale))

	for key, msg := range german {
		if err := b.SetString(Locale, key, msg); err != nil {
			panic(fmt.Sprintf("assembly: catalog entry %q: %v", key, err))
		}
	}

	err := b.Set(Locale, msgTicketsSold, plural.Selectf(2, "%d",
		plural.One, `%[1]s hat %[2]d Ticket bezahlt.`,
		plural.Other, `%[1]s hat %[2]d Tickets bezahlt.`,
	))
	if err != nil {
		panic(fmt.Sprintf("assembly: catalog entry %q: %v", msgTicketsSold, err))
	}

	return message.NewPrinter(Locale, message.Catalog(b))
}

func tr(key string, args ...any) string {
	return printer.Sprintf(key, args...)
}
