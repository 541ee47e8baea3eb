package quiz

// Grade reports whether selected and correct hold the same set of ids.
// An empty correct set never grades as correct.
func Grade(selected, correct []string) bool {
	if len(correct) == 0 {
		return false
	}
	selSet := make(map[string]struct{}, len(selected))
	for _, k := range selected {
		selSet[NormalizeID(k)] = struct{}{}
	}
	corSet := make(map[string]struct{}, len(correct))
	for _, k := range correct {
		corSet[NormalizeID(k)] = struct{}{}
	}
	if len(selSet) != len(corSet) {
		return false
	}
	for k := range selSet {
		if _, ok := corSet[k]; !ok {
			return false
		}
	}
	return true
}
