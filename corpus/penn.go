package corpus

import "strings"

// MapPennToUniversal collapses a Penn Treebank tag to its universal
// part-of-speech tag. Named-entity suffixed proper nouns ("NNP-PERSON")
// keep their suffix on the NOUN tag; unknown tags map to the catch-all "X".
func MapPennToUniversal(tag string) string {
	if strings.HasPrefix(tag, "NNP-") || strings.HasPrefix(tag, "NNPS-") {
		parts := strings.Split(tag, "-")
		return "NOUN-" + parts[len(parts)-1]
	}
	switch tag {
	case "NN", "NNS", "NP":
		return "NOUN"
	case "NNP", "NNPS":
		return "PROPN"
	case "MD", "VB", "VBD", "VBG", "VBN", "VBP", "VBZ":
		return "VERB"
	case "JJ", "JJR", "JJS":
		return "ADJ"
	case "RB", "RBR", "RBS", "WRB":
		return "ADV"
	case "PRP", "PRP$", "WP", "WP$":
		return "PRON"
	case "DT", "PDT", "WDT", "EX":
		return "DET"
	case "IN":
		return "PREP"
	case "CD":
		return "NUM"
	case "CC":
		return "CONJ"
	case "UH":
		return "INTJ"
	case "POS", "RP", "TO":
		return "PART"
	case "SYM", "LS", ".", "!", "?", ",", ":", "(", ")", "\"", "#", "$":
		return "PUNCT"
	}
	return "X"
}
