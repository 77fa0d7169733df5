package grading

// defaultEntries is the key of the deployed placement test form.
var defaultEntries = []KeyEntry{
	{"q1", "b"}, {"q2", "a"}, {"q3", "b"}, {"q4", "c"}, {"q5", "d"},
	{"q6", "c"}, {"q7", "a"}, {"q8", "d"}, {"q9", "a"}, {"q10", "d"},
	{"q11", "a"}, {"q12", "c"}, {"q13", "b"}, {"q14", "c"}, {"q15", "c"},
	{"q16", "a"}, {"q17", "c"}, {"q18", "a"}, {"q19", "b"}, {"q20", "b"},
	{"q21", "a"}, {"q22", "c"}, {"q23", "a"}, {"q24", "a"}, {"q25", "b"},
	{"q26", "d"}, {"q27", "b"}, {"q28", "b"}, {"q29", "a"}, {"q30", "b"},
	{"q31", "a"}, {"q31b", "a"}, {"q32", "a"}, {"q33", "c"}, {"q34", "a"},
	{"q35", "a"}, {"q36", "a"}, {"q37", "a"}, {"q38", "d"}, {"q39", "c"},
	{"q40", "c"}, {"q41", "a"}, {"q42", "c"}, {"q43", "c"}, {"q44", "a"},
	{"q45", "d"}, {"q46", "c"}, {"q47", "a"}, {"q48", "a"}, {"q49", "b"},
	{"q50", "d"}, {"q51", "d"}, {"q52", "b"}, {"q53", "d"}, {"q54", "c"},
	{"q55", "d"}, {"q56", "b"}, {"q57", "d"}, {"q58", "b"}, {"q59", "c"},
	{"q60", "b"}, {"q61", "a"}, {"q62", "a"}, {"q63", "a"}, {"q64", "a"},
	{"q65", "b"}, {"q66", "d"}, {"q67", "b"}, {"q68", "c"}, {"q69", "a"},
	{"q70", "d"}, {"q71", "a"}, {"q72", "b"}, {"q73", "a"}, {"q74", "b"},
	{"q75", "a"}, {"q76", "d"}, {"q77", "b"}, {"q78", "a"}, {"q79", "b"},
	{"q80", "a"}, {"q81", "b"}, {"q82", "b"}, {"q83", "a"}, {"q84", "a"},
	{"q85", "c"}, {"q86", "a"}, {"q87", "c"}, {"q88", "a"}, {"q89", "a"},
	{"q90", "b"},
}

var defaultKey = MustAnswerKey(defaultEntries)

// DefaultAnswerKey returns the built-in placement test key.
func DefaultAnswerKey() *AnswerKey {
	return defaultKey
}
