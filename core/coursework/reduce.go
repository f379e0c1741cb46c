package coursework

type (
	// itemResult is the outcome of reading one upstream item.
	itemResult struct {
		assignment Assignment
		excluded   bool  // not due in the window, or no due date
		err        error // the item could not be read and is skipped
		lookupErr  error // the record is kept with its date-derived status
	}

	reduction struct {
		assignments []Assignment
		skipped     int
		errs        []error
		lookupErrs  []error
	}
)

// reduce keeps the readable records in order and accounts for the rest.
func reduce(results []itemResult) reduction {
	red := reduction{assignments: make([]Assignment, 0, len(results))}
	for _, res := range results {
		switch {
		case res.err != nil:
			red.skipped++
			red.errs = append(red.errs, res.err)
		case res.excluded:
		default:
			red.assignments = append(red.assignments, res.assignment)
			if res.lookupErr != nil {
				red.lookupErrs = append(red.lookupErrs, res.lookupErr)
			}
		}
	}
	return red
}
