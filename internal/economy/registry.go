// Package economy provides the market entity model: goods, jobs, agents,
// prices, and the shared market state every tick stage mutates.
package economy

import (
	"errors"
	"fmt"
)

// Good is an interned identifier for a tradeable good.
type Good uint8

// Job is an interned identifier for a profession's job.
type Job uint8

var (
	ErrUnknownGood = errors.New("unknown good")
	ErrUnknownJob  = errors.New("unknown job")
	ErrDuplicate   = errors.New("duplicate name")
)

// JobOutput pairs a job with the good it produces.
type JobOutput struct {
	Job  string `yaml:"job" json:"job"`
	Good string `yaml:"good" json:"good"`
}

// Registry is the closed set of goods and jobs for a market, with the
// job→good production map and its reverse index built once at setup.
type Registry struct {
	goods     []string
	goodIndex map[string]Good
	jobs      []string
	jobIndex  map[string]Job
	jobGood   []Good  // Job → produced good
	goodJobs  [][]Job // Good → producing jobs
}

// NewRegistry validates and interns the goods and job outputs.
// Every job output must name a registered good.
func NewRegistry(goods []string, outputs []JobOutput) (*Registry, error) {
	if len(goods) == 0 {
		return nil, fmt.Errorf("registry: no goods")
	}
	if len(goods) > 255 || len(outputs) > 255 {
		return nil, fmt.Errorf("registry: too many goods or jobs")
	}

	r := &Registry{
		goodIndex: make(map[string]Good, len(goods)),
		jobIndex:  make(map[string]Job, len(outputs)),
		goodJobs:  make([][]Job, len(goods)),
	}
	for _, name := range goods {
		if _, ok := r.goodIndex[name]; ok {
			return nil, fmt.Errorf("registry: good %q: %w", name, ErrDuplicate)
		}
		r.goodIndex[name] = Good(len(r.goods))
		r.goods = append(r.goods, name)
	}
	for _, out := range outputs {
		if _, ok := r.jobIndex[out.Job]; ok {
			return nil, fmt.Errorf("registry: job %q: %w", out.Job, ErrDuplicate)
		}
		g, ok := r.goodIndex[out.Good]
		if !ok {
			return nil, fmt.Errorf("registry: job %q produces %q: %w", out.Job, out.Good, ErrUnknownGood)
		}
		j := Job(len(r.jobs))
		r.jobIndex[out.Job] = j
		r.jobs = append(r.jobs, out.Job)
		r.jobGood = append(r.jobGood, g)
		r.goodJobs[g] = append(r.goodJobs[g], j)
	}
	return r, nil
}

// NumGoods returns the number of registered goods.
func (r *Registry) NumGoods() int { return len(r.goods) }

// NumJobs returns the number of registered jobs.
func (r *Registry) NumJobs() int { return len(r.jobs) }

// Goods returns every good in registration order.
func (r *Registry) Goods() []Good {
	out := make([]Good, len(r.goods))
	for i := range out {
		out[i] = Good(i)
	}
	return out
}

// GoodName returns the display name of a good.
func (r *Registry) GoodName(g Good) string { return r.goods[g] }

// JobName returns the display name of a job.
func (r *Registry) JobName(j Job) string { return r.jobs[j] }

// LookupGood resolves a good by name.
func (r *Registry) LookupGood(name string) (Good, error) {
	g, ok := r.goodIndex[name]
	if !ok {
		return 0, fmt.Errorf("good %q: %w", name, ErrUnknownGood)
	}
	return g, nil
}

// LookupJob resolves a job by name.
func (r *Registry) LookupJob(name string) (Job, error) {
	j, ok := r.jobIndex[name]
	if !ok {
		return 0, fmt.Errorf("job %q: %w", name, ErrUnknownJob)
	}
	return j, nil
}

// Output returns the good a job produces. The index is total over
// registered jobs, so a Job obtained from LookupJob always resolves.
func (r *Registry) Output(j Job) Good { return r.jobGood[j] }

// Producers returns the jobs producing g, in registration order.
func (r *Registry) Producers(g Good) []Job { return r.goodJobs[g] }

// ProducerJob returns the first job producing g.
func (r *Registry) ProducerJob(g Good) (Job, bool) {
	if len(r.goodJobs[g]) == 0 {
		return 0, false
	}
	return r.goodJobs[g][0], true
}
