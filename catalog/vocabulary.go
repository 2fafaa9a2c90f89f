package catalog

// Vocabulary is a closed, ordered set of tokens. Membership is exact and
// case-sensitive. The order in which tokens were declared is the order used
// for every selection built from the vocabulary.
type Vocabulary struct {
	values  []string
	index   map[string]int
	lenient bool
}

// NewVocabulary creates a vocabulary from values. Duplicates keep their first
// position.
func NewVocabulary(values ...string) *Vocabulary {
	v := &Vocabulary{
		index: make(map[string]int, len(values)),
	}

	for _, value := range values {
		if _, ok := v.index[value]; ok {
			continue
		}
		v.index[value] = len(v.values)
		v.values = append(v.values, value)
	}

	return v
}

// Lenient returns a copy of the vocabulary that skips unknown tokens during
// Parse instead of failing.
func (v *Vocabulary) Lenient() *Vocabulary {
	return &Vocabulary{
		values:  v.values,
		index:   v.index,
		lenient: true,
	}
}

// IsLenient reports whether Parse skips unknown tokens.
func (v *Vocabulary) IsLenient() bool {
	return v.lenient
}

// Contains reports whether token is a member of the vocabulary.
func (v *Vocabulary) Contains(token string) bool {
	_, ok := v.index[token]
	return ok
}

// Len returns the number of tokens.
func (v *Vocabulary) Len() int {
	return len(v.values)
}

// Values returns a copy of the tokens in declaration order.
func (v *Vocabulary) Values() []string {
	out := make([]string, len(v.values))
	copy(out, v.values)
	return out
}

// Parse validates every candidate and returns the distinct members in
// declaration order. A strict vocabulary stops at the first unknown token and
// hands it to reject, whose error is returned. A lenient vocabulary reports
// unknown tokens to skip and keeps going.
func (v *Vocabulary) Parse(
	candidates []string,
	reject func(token string) error,
	skip func(token string),
) ([]string, error) {
	seen := make([]bool, len(v.values))

	for _, c := range candidates {
		i, ok := v.index[c]
		if !ok {
			if v.lenient {
				if skip != nil {
					skip(c)
				}
				continue
			}
			return nil, reject(c)
		}
		seen[i] = true
	}

	out := make([]string, 0, len(candidates))
	for i, value := range v.values {
		if seen[i] {
			out = append(out, value)
		}
	}

	return out, nil
}
