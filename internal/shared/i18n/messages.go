// Package i18n holds the localized user-facing texts of the reservation flow.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LangParam is the query/form parameter used to select a language.
const LangParam = "lang"

// Message keys. The English text doubles as the key so an unknown locale still
// renders readable output.
const (
	MsgFieldsRequired       = "All fields are required."
	MsgNoTableForParty      = "Sorry, we have no tables for that number of guests."
	MsgNoTableAtTime        = "Sorry, there are no tables available at that time."
	MsgNoCapacityAtTime     = "Sorry, there is no capacity available at that time."
	MsgPartyExceedsCapacity = "Sorry, that party is larger than our total capacity."
	MsgCouldNotVerify       = "Could not verify availability. Please try again."
	MsgNotSaved             = "There was an error processing your reservation. Please try again."
	MsgRequestReceived      = "Request received. You will receive a confirmation soon."
	MsgReservationConfirmed = "Reservation confirmed!"
	MsgAvailable            = "Available."
)

var (
	spanish = language.Spanish
	english = language.English

	supported = []language.Tag{spanish, english}
	matcher   = language.NewMatcher(supported)
)

var spanishTexts = map[string]string{
	MsgFieldsRequired:       "Todos los campos son obligatorios.",
	MsgNoTableForParty:      "Lo sentimos, no tenemos mesas con capacidad para ese número de personas.",
	MsgNoTableAtTime:        "Lo sentimos, no hay mesas disponibles a esa hora.",
	MsgNoCapacityAtTime:     "Lo sentimos, no hay aforo disponible para esa hora.",
	MsgPartyExceedsCapacity: "Lo sentimos, el grupo supera el aforo total del local.",
	MsgCouldNotVerify:       "Error al verificar disponibilidad.",
	MsgNotSaved:             "Hubo un error al procesar tu reserva. Inténtalo de nuevo.",
	MsgRequestReceived:      "Solicitud recibida. Recibirás una confirmación pronto.",
	MsgReservationConfirmed: "¡Reserva confirmada correctamente!",
	MsgAvailable:            "Disponible.",
}

func init() {
	for key, text := range spanishTexts {
		_ = message.SetString(spanish, key, text)
		_ = message.SetString(english, key, key)
	}
}

// Default returns the venue language.
func Default() language.Tag {
	return spanish
}

// ParseTag matches a raw language value against the supported set.
func ParseTag(raw string) (language.Tag, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Default(), false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return Default(), false
	}
	return MatchTags([]language.Tag{tag}), true
}

// MatchTags picks the best supported tag for the preferred list.
func MatchTags(preferred []language.Tag) language.Tag {
	_, index, confidence := matcher.Match(preferred...)
	if confidence == language.No {
		return Default()
	}
	return supported[index]
}

// ResolveTag determines the language for a request: explicit lang parameter
// first, then Accept-Language, then the default.
func ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return Default()
	}
	if r.URL != nil {
		if tag, ok := ParseTag(r.URL.Query().Get(LangParam)); ok {
			return tag
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return MatchTags(tags)
		}
	}
	return Default()
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// Text renders a message key in the given language.
func Text(tag language.Tag, key string) string {
	return Printer(tag).Sprintf(key)
}
