package filter

// Chain dispatches every commit to a list of independent filters in
// registration order. A filter that answers Stop is retired for the rest
// of the run; the others keep receiving commits.
type Chain struct {
	filters []Filter
	stopped []bool
	live    int
}

// NewChain creates a chain of the given filters.
func NewChain(filters ...Filter) *Chain {
	c := &Chain{}
	c.Set(filters...)
	return c
}

// Set replaces the chain contents. The new filters are not reset.
func (c *Chain) Set(filters ...Filter) {
	c.filters = append([]Filter(nil), filters...)
	c.Begin()
}

// Filters returns the registered filters in order.
func (c *Chain) Filters() []Filter {
	return append([]Filter(nil), c.filters...)
}

// Len returns the number of registered filters.
func (c *Chain) Len() int {
	return len(c.filters)
}

// Live returns the number of filters that have not stopped this run.
func (c *Chain) Live() int {
	return c.live
}

// Begin clears stop flags for a new run, including those of nested composites.
func (c *Chain) Begin() {
	c.stopped = make([]bool, len(c.filters))
	c.live = len(c.filters)
	for _, f := range c.filters {
		Begin(f)
	}
}

// Reset clears every member's accumulator and the stop flags.
func (c *Chain) Reset() {
	for _, f := range c.filters {
		f.Reset()
	}
	c.Begin()
}

// Dispatch offers commit to each live filter. It reports done once no live
// filter remains. The first error aborts dispatch.
func (c *Chain) Dispatch(commit *Commit) (done bool, err error) {
	for i, f := range c.filters {
		if c.stopped[i] {
			continue
		}
		v, err := f.Include(commit)
		if err != nil {
			return false, err
		}
		switch v {
		case Continue:
			if err := f.Consume(commit); err != nil {
				return false, err
			}
		case Stop:
			c.stopped[i] = true
			c.live--
		}
	}
	return c.live == 0, nil
}

// Include lets a chain nest inside another chain or composite.
func (c *Chain) Include(*Commit) (Verdict, error) {
	if c.live == 0 {
		return Stop, nil
	}
	return Continue, nil
}

// Consume dispatches the commit to the members.
func (c *Chain) Consume(commit *Commit) error {
	_, err := c.Dispatch(commit)
	return err
}

// allOf is a pipeline: every member must accept a commit.
type allOf struct {
	filters []Filter
}

// All accepts a commit only when every member returns Continue. Members are
// asked in order and the first Skip or Stop wins. Accepted commits are
// consumed by every member, so predicates can sit in front of aggregators.
func All(filters ...Filter) Filter {
	return &allOf{filters: append([]Filter(nil), filters...)}
}

func (a *allOf) Begin() {
	for _, f := range a.filters {
		Begin(f)
	}
}

func (a *allOf) Reset() {
	for _, f := range a.filters {
		f.Reset()
	}
}

func (a *allOf) Include(c *Commit) (Verdict, error) {
	for _, f := range a.filters {
		v, err := f.Include(c)
		if err != nil || v != Continue {
			return v, err
		}
	}
	return Continue, nil
}

func (a *allOf) Consume(c *Commit) error {
	for _, f := range a.filters {
		if err := f.Consume(c); err != nil {
			return err
		}
	}
	return nil
}

// anyOf accepts a commit when at least one member does.
type anyOf struct {
	filters  []Filter
	stopped  []bool
	accepted []bool
}

// Any accepts a commit when at least one live member returns Continue and
// consumes it only with those members. It stops once every member stopped.
func Any(filters ...Filter) Filter {
	a := &anyOf{filters: append([]Filter(nil), filters...)}
	a.Begin()
	return a
}

func (a *anyOf) Begin() {
	a.stopped = make([]bool, len(a.filters))
	a.accepted = make([]bool, len(a.filters))
	for _, f := range a.filters {
		Begin(f)
	}
}

func (a *anyOf) Reset() {
	for _, f := range a.filters {
		f.Reset()
	}
	a.Begin()
}

func (a *anyOf) Include(c *Commit) (Verdict, error) {
	verdict := Stop
	for i, f := range a.filters {
		a.accepted[i] = false
		if a.stopped[i] {
			continue
		}
		v, err := f.Include(c)
		if err != nil {
			return Skip, err
		}
		switch v {
		case Continue:
			a.accepted[i] = true
			verdict = Continue
		case Stop:
			a.stopped[i] = true
		default:
			if verdict == Stop {
				verdict = Skip
			}
		}
	}
	return verdict, nil
}

func (a *anyOf) Consume(c *Commit) error {
	for i, f := range a.filters {
		if !a.accepted[i] {
			continue
		}
		if err := f.Consume(c); err != nil {
			return err
		}
	}
	return nil
}
