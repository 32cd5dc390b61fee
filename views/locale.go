package views

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Messages are the user-facing strings of one locale.
type Messages struct {
	LoadMore     string
	Loading      string
	LoadFailed   string
	ServerError  string
	BackHome     string
	EditedOn     string // "%s" date, "%s" time
	ReadingTime  string // "%d"
	PreviousPost string
	NextPost     string
	ExitPreview  string
	Months       [12]string
	// LowerMonths lower-cases month abbreviations, as Portuguese dates do.
	LowerMonths bool
}

var (
	supported = []language.Tag{language.BrazilianPortuguese, language.English}
	matcher   = language.NewMatcher(supported)

	catalog = map[language.Tag]Messages{
		language.BrazilianPortuguese: {
			LoadMore:     "Carregar mais posts",
			Loading:      "Carregando...",
			LoadFailed:   "Erro de carregamento",
			ServerError:  "Algo deu errado",
			BackHome:     "Voltar para o início",
			EditedOn:     "* editado em %s, às %s",
			ReadingTime:  "%d min",
			PreviousPost: "Post anterior",
			NextPost:     "Próximo post",
			ExitPreview:  "Sair do modo Preview",
			Months: [12]string{"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
				"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro"},
			LowerMonths: true,
		},
		language.English: {
			LoadMore:     "Load more posts",
			Loading:      "Loading...",
			LoadFailed:   "Failed to load",
			ServerError:  "Something went wrong",
			BackHome:     "Back to home",
			EditedOn:     "* edited on %s, at %s",
			ReadingTime:  "%d min",
			PreviousPost: "Previous post",
			NextPost:     "Next post",
			ExitPreview:  "Exit preview mode",
			Months: [12]string{"January", "February", "March", "April", "May", "June",
				"July", "August", "September", "October", "November", "December"},
		},
	}
)

// matchLocale returns the closest supported tag for locale. Unknown or
// empty locales fall back to Brazilian Portuguese.
func matchLocale(locale string) language.Tag {
	tag, err := language.Parse(locale)
	if err != nil {
		return supported[0]
	}
	_, idx, _ := matcher.Match(tag)
	return supported[idx]
}

// T returns the messages for locale.
func T(locale string) Messages {
	return catalog[matchLocale(locale)]
}

// FormatDate renders t as "dd MMM yyyy" in locale, e.g. "15 mar 2021".
// A nil time renders as an empty string.
func FormatDate(t *time.Time, locale string) string {
	if t == nil {
		return ""
	}
	tag := matchLocale(locale)
	m := catalog[tag]
	month := []rune(m.Months[t.Month()-1])[:3]
	abbr := string(month)
	if m.LowerMonths {
		abbr = cases.Lower(tag).String(abbr)
	}
	return fmt.Sprintf("%02d %s %d", t.Day(), abbr, t.Year())
}

// FormatEdited renders the "edited on" line for t in locale.
func FormatEdited(t *time.Time, locale string) string {
	if t == nil {
		return ""
	}
	return fmt.Sprintf(T(locale).EditedOn, FormatDate(t, locale), t.Format("15:04"))
}
