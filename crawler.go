package docmcp

import (
	"context"
	"time"
)

// JobStatus is the lifecycle state of a crawl job.
type JobStatus string

// JobStatus constants.
const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
	JobTimedOut  JobStatus = "timed-out"
)

// IsTerminal reports whether the status can no longer change.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobCompleted, JobFailed, JobTimedOut:
		return true
	default:
		return false
	}
}

// CrawlJob is an asynchronous crawl tracked by the crawling service.
type CrawlJob struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// CrawlStatus is a single polling read of a crawl job.
type CrawlStatus struct {
	Status    JobStatus
	Completed int
	Total     int
	Pages     []*CrawledPage

	// Error holds the service's failure description for failed jobs.
	Error string
}

// CrawlService is the external crawling service.
type CrawlService interface {
	// StartCrawl submits a crawl job for rootURL and returns its identifier.
	StartCrawl(ctx context.Context, rootURL string) (id string, err error)

	// CrawlStatus returns the current state of the job.
	// Pages are only populated once the job has completed.
	CrawlStatus(ctx context.Context, id string) (*CrawlStatus, error)
}

// Crawler submits crawl jobs and waits for their pages.
type Crawler interface {
	// Submit validates rootURL and starts a crawl job.
	// Returns EVALIDATION for non-HTTP(S) URLs without contacting the service.
	Submit(ctx context.Context, rootURL string) (*CrawlJob, error)

	// AwaitCompletion polls the job until it is terminal or timeout elapses.
	// Returns ETIMEOUT on elapse and ENOCONTENT when the crawl found no pages.
	AwaitCompletion(ctx context.Context, job *CrawlJob, timeout time.Duration) ([]*CrawledPage, error)
}
