package utils

// ExpandTerms returns every term together with its plural and past tense forms,
// without duplicates and in input order.
func ExpandTerms(terms []string) []string {
	var out []string
	for _, term := range terms {
		out = append(out, variations(term)...)
	}
	return RemoveDuplicates(out)
}

// variations generates the -s and -ed forms of a term. Multi-word phrases are kept as-is.
func variations(term string) []string {
	if len(term) < 3 {
		return []string{term}
	}
	for _, r := range term {
		if r == ' ' {
			return []string{term}
		}
	}

	forms := []string{term, term + "s"}
	if term[len(term)-1] == 'e' {
		forms = append(forms, term+"d")
	} else {
		forms = append(forms, term+"ed")
	}
	return forms
}

// RemoveDuplicates removes duplicate strings from a slice.
func RemoveDuplicates(strs []string) []string {
	seen := make(map[string]struct{}, len(strs))

	var result []string
	for _, str := range strs {
		if _, exists := seen[str]; !exists {
			result = append(result, str)
			seen[str] = struct{}{}
		}
	}

	return result
}
