package classifier

import (
	"regexp"

	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/robalyx/warden/internal/perspective"
)

// termGroup is a named set of zero-tolerance terms. Terms are stored normalized.
type termGroup struct {
	name  string
	terms []string
}

var religiousGroups = []termGroup{
	{name: "christianity", terms: []string{
		"jesus", "christ", "bible", "christian", "church", "god", "lord", "savior", "salvation",
		"heaven", "hell", "sin", "holy spirit",
	}},
	{name: "islam", terms: []string{
		"muhammad", "prophet muhammad", "allah", "islam", "muslim", "quran", "mosque", "prayer",
		"hajj", "ramadan", "sharia", "jihad", "imam", "mecca", "medina",
	}},
	{name: "judaism", terms: []string{
		"jew", "jewish", "torah", "synagogue", "rabbi", "kosher", "shabbat", "yom kippur",
		"hanukkah", "passover",
	}},
	{name: "hinduism", terms: []string{
		"hindu", "brahma", "vishnu", "shiva", "krishna", "ganesha", "karma", "dharma", "yoga",
		"mantra", "vedas",
	}},
	{name: "buddhism", terms: []string{
		"buddha", "buddhist", "nirvana", "meditation", "zen", "sangha",
	}},
	{name: "general", terms: []string{
		"religion", "religious", "worship", "faith", "belief", "deity", "divine", "sacred", "holy",
		"scripture", "temple",
	}},
}

// hatePatterns are matched against normalized text.
var hatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(nigger|n[i1]gg[ae]r|kaffir|k[a4]ff[i1]r)\b`),
	regexp.MustCompile(`\b(faggot|f[a4]gg[o0]t|dyke|tranny)\b`),
	regexp.MustCompile(`\b(kill all|death to|exterminate|genocide)\b`),
}

var (
	spamPhrases  = regexp.MustCompile(`(?i)\b(click here|buy now|limited time|act now|free money|make money fast)\b`)
	pharmaTerms  = regexp.MustCompile(`(?i)\b(viagra|cialis|pharmacy|pills)\b`)
	urlPattern   = regexp.MustCompile(`https?://\S+`)
	urlIndicator = regexp.MustCompile(`https?://\S{3,}`)
)

// Markers for detections that do not come from a regex. The feedback loop never
// whitelists these.
const (
	OraclePatternPrefix    = "oracle:"
	HeuristicPatternPrefix = "heuristic:"
)

// oracleGroup maps a category to the analyzer attributes whose maximum is its score.
type oracleGroup struct {
	category   enum.ViolationType
	attributes []string
}

var oracleGroups = []oracleGroup{
	{category: enum.ViolationTypeHateSpeech, attributes: []string{
		perspective.AttributeToxicity, perspective.AttributeSevereToxicity, perspective.AttributeIdentityAttack,
	}},
	{category: enum.ViolationTypeHarassment, attributes: []string{
		perspective.AttributeInsult, perspective.AttributeThreat, perspective.AttributeProfanity,
	}},
	{category: enum.ViolationTypeSexual, attributes: []string{
		perspective.AttributeSexuallyExplicit,
	}},
}
