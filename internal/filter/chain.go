package filter

// Chain threads content through an ordered list of filters
type Chain struct {
	filters []Filter
}

// NewChain creates a chain over filters, applied in order
func NewChain(filters ...Filter) *Chain {
	return &Chain{filters: append([]Filter(nil), filters...)}
}

// Input runs every filter's input step on one source file
func (c *Chain) Input(filename, content string) (string, error) {
	var err error
	for _, f := range c.filters {
		if content, err = f.Input(filename, content); err != nil {
			return "", err
		}
	}

	return content, nil
}

// Output runs every filter's output step on the concatenated target content
func (c *Chain) Output(target, content string) (string, error) {
	var err error
	for _, f := range c.filters {
		if content, err = f.Output(target, content); err != nil {
			return "", err
		}
	}

	return content, nil
}

// Filters returns the filters of the chain
func (c *Chain) Filters() []Filter {
	return append([]Filter(nil), c.filters...)
}

// Len returns the number of filters in the chain
func (c *Chain) Len() int {
	return len(c.filters)
}
