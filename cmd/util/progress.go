package util

// Progress tracks a batch of structures processed concurrently, reporting
// completion to stderr when -verbose is set. Each worker calls JobDone once
// per structure; the owner calls Close after every structure is accounted
// for.
type Progress struct {
	results chan error
	done    chan struct{}
}

func NewProgress(total int) Progress {
	p := Progress{make(chan error), make(chan struct{})}
	go func() {
		completed, failed := 0, 0
		for err := range p.results {
			if err != nil {
				failed++
				if FlagVerbose {
					// The padding overwrites the status line.
					Warnf("\r%s                                    \n", err)
				} else {
					Warnf("%s", err)
				}
			} else {
				completed++
			}
			Verbosef("\r%d of %d structures done (%0.2f%%, %d failed)",
				completed, total,
				100*float64(completed)/float64(total), failed)
		}
		Verbosef("\n")
		p.done <- struct{}{}
	}()
	return p
}

func (p Progress) JobDone(err error) {
	p.results <- err
}

func (p Progress) Close() {
	close(p.results)
	<-p.done
}
