package pathfinder

import (
	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/concurrent"
	"github.com/DrunkOnJava/CityGame-arm64-sub014/pkg/grid"
)

// PathRequest one shortest-path query.
type PathRequest struct {
	StartID        int32
	GoalID         int32
	UseDynamicCost bool
}

// PathResult outcome of one query. Nodes is a copy owned by the caller
// (pooled contexts reuse their internal buffers between searches).
type PathResult struct {
	Status     Status
	Nodes      []int32
	TotalCost  uint32
	Iterations uint64
	Err        error
}

// Pool fixed number of independent search contexts sharing one read-mostly
// grid, the concurrency model for high call volume: each context owns its
// open-set/closed-set/node-store backing storage, so searches run in
// parallel without shared mutable state. Contexts are handed out through a
// buffered channel; Acquire blocks when all are busy.
type Pool struct {
	grid     *grid.Grid
	cfg      Config
	contexts chan *SearchContext
	size     int
	stats    *Statistics
}

func NewPool(g *grid.Grid, cfg Config, size int) (*Pool, error) {
	if size <= 0 {
		size = 1
	}
	stats := NewStatistics()
	contexts := make(chan *SearchContext, size)
	for i := 0; i < size; i++ {
		sc, err := NewSearchContext(g, cfg, stats)
		if err != nil {
			return nil, err
		}
		contexts <- sc
	}
	return &Pool{
		grid:     g,
		cfg:      cfg,
		contexts: contexts,
		size:     size,
		stats:    stats,
	}, nil
}

func (p *Pool) Acquire() *SearchContext {
	return <-p.contexts
}

func (p *Pool) Release(sc *SearchContext) {
	p.contexts <- sc
}

func (p *Pool) Grid() *grid.Grid {
	return p.grid
}

func (p *Pool) Statistics() *Statistics {
	return p.stats
}

func (p *Pool) Size() int {
	return p.size
}

// Reconfigure swap every pooled context for one built with the new config.
// Blocks until all in-flight searches finish; the grid and the statistics
// counters carry over. Invalid configs leave the pool untouched.
func (p *Pool) Reconfigure(cfg Config) error {
	if err := cfg.validate(p.grid.NumNodes()); err != nil {
		return err
	}

	replacements := make([]*SearchContext, 0, p.size)
	for i := 0; i < p.size; i++ {
		sc, err := NewSearchContext(p.grid, cfg, p.stats)
		if err != nil {
			return err
		}
		replacements = append(replacements, sc)
	}

	// drain the old contexts, waiting out in-flight searches
	for i := 0; i < p.size; i++ {
		p.Acquire()
	}
	for _, sc := range replacements {
		p.Release(sc)
	}
	p.cfg = cfg
	return nil
}

// Search run one query on a pooled context and copy the path out.
func (p *Pool) Search(req PathRequest) PathResult {
	sc := p.Acquire()
	defer p.Release(sc)

	status, err := sc.FindPath(req.StartID, req.GoalID, req.UseDynamicCost)
	res := PathResult{
		Status:     status,
		Iterations: sc.Iterations(),
		Err:        err,
	}
	if err == nil && status == StatusPathFound {
		res.TotalCost = sc.TotalCost()
		res.Nodes = make([]int32, sc.PathLength())
		copy(res.Nodes, sc.PathNodes())
	}
	return res
}

// BatchSearch fan a request list across the pool through a worker pool, one
// worker per context. Results come back in request order.
func (p *Pool) BatchSearch(requests []PathRequest) []PathResult {
	type indexed struct {
		idx int
		res PathResult
	}

	workers := concurrent.NewWorkerPool[PathRequest, indexed](p.size, len(requests))
	for i, req := range requests {
		workers.AddJob(concurrent.Job[PathRequest]{ID: i, JobItem: req})
	}
	workers.Close()
	workers.Start(func(job concurrent.Job[PathRequest]) indexed {
		return indexed{idx: job.ID, res: p.Search(job.JobItem)}
	})
	workers.Wait()

	results := make([]PathResult, len(requests))
	for r := range workers.CollectResults() {
		results[r.idx] = r.res
	}
	return results
}
