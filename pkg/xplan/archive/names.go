package archive

import (
	"path"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var umlauts = strings.NewReplacer(
	"ä", "ae", "ö", "oe", "ü", "ue", "Ä", "Ae", "Ö", "Oe", "Ü", "Ue", "ß", "ss",
)

// FoldName turns a reference name into an ASCII file name usable as a path
// segment inside an archive. Umlauts are transliterated, other diacritics are
// dropped and anything else outside [A-Za-z0-9._-] becomes an underscore.
func FoldName(name string) string {
	name = umlauts.Replace(strings.TrimSpace(name))

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	b := strings.Builder{}
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	return strings.Trim(b.String(), "._")
}

// names hands out unique archive paths below a prefix
type names struct {
	prefix string
	taken  map[string]int
}

func newNames(prefix string) *names {
	return &names{
		prefix: strings.Trim(prefix, "/"),
		taken:  map[string]int{},
	}
}

func (n *names) next(name, fallback string) string {
	folded := FoldName(name)
	if folded == "" {
		folded = FoldName(fallback)
	}

	candidate := path.Join(n.prefix, folded)

	count, exists := n.taken[candidate]
	n.taken[candidate] = count + 1
	if !exists {
		return candidate
	}

	ext := path.Ext(folded)
	base := strings.TrimSuffix(folded, ext)
	for {
		count++
		numbered := path.Join(n.prefix, base+"_"+strconv.Itoa(count)+ext)
		if _, clash := n.taken[numbered]; !clash {
			n.taken[numbered] = 1
			return numbered
		}
	}
}
