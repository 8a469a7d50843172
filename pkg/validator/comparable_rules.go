package validator

func init() {
	register("equal_to", siblingFactory(true))
	register("not_equal_to", siblingFactory(false))
}

// siblingFactory compares the element value with another control named by params["field"].
func siblingFactory(equal bool) Factory {
	return func(p Params) (Predicate, error) {
		other, err := p.String("field")
		if err != nil {
			return nil, err
		}
		return func(el Element) bool {
			if _, ok := el.Sibling(other); !ok {
				return false
			}
			return (el.Value() == el.SiblingValue(other)) == equal
		}, nil
	}
}
