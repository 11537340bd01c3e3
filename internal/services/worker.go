package services

import (
	"context"
	"log"
	"strings"
	"sync"

	"careerlens/resume-assistant/internal/models"
	"careerlens/resume-assistant/internal/repositories"
)

// excerptLimit bounds how much extracted text is kept with a history record
// and sent to the embedding model.
const excerptLimit = 2000

// RecordJob carries the outcome of one completed analysis to the background
// worker for history persistence and similarity indexing.
type RecordJob struct {
	Record  *models.Analysis
	Excerpt string
}

// Worker persists and indexes completed analyses off the request path so
// responses never wait on Postgres or Qdrant. Both sinks are optional; a
// full queue drops the job rather than blocking a request. Failures here are
// logged, never surfaced to callers.
type Worker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(job RecordJob)
}

type worker struct {
	analysisRepo repositories.AnalysisRepository
	indexService IndexService
	jobQueue     chan RecordJob
	concurrency  int
	wg           sync.WaitGroup
	stopChan     chan struct{}
}

func NewWorker(
	analysisRepo repositories.AnalysisRepository,
	indexService IndexService,
	concurrency int,
) Worker {
	return &worker{
		analysisRepo: analysisRepo,
		indexService: indexService,
		jobQueue:     make(chan RecordJob, 100),
		concurrency:  concurrency,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Worker.
func (w *worker) Start(ctx context.Context) {
	log.Printf("🚀 Starting record worker with %d goroutines\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.processJobs(ctx, i+1)
	}
}

// Stop implements Worker.
func (w *worker) Stop() {
	log.Println("🛑 Stopping record worker...")
	close(w.stopChan)
	w.wg.Wait()
	log.Println("✅ Record worker stopped")
}

// Enqueue implements Worker.
func (w *worker) Enqueue(job RecordJob) {
	if job.Record == nil {
		return
	}

	job.Excerpt = trimExcerpt(job.Excerpt)

	select {
	case w.jobQueue <- job:
	case <-w.stopChan:
		log.Printf("⚠️  Worker stopped, dropping record for analysis %s\n", job.Record.ID)
	default:
		log.Printf("⚠️  Record queue full, dropping record for analysis %s\n", job.Record.ID)
	}
}

func (w *worker) processJobs(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			log.Printf("👷 Record worker #%d stopped\n", workerID)
			return
		case job := <-w.jobQueue:
			w.processJob(ctx, workerID, job)
		}
	}
}

func (w *worker) processJob(ctx context.Context, workerID int, job RecordJob) {
	job.Record.SourceExcerpt = job.Excerpt

	if w.analysisRepo != nil {
		if err := w.analysisRepo.Create(job.Record); err != nil {
			log.Printf("⚠️  Worker #%d failed to record analysis %s: %v\n", workerID, job.Record.ID, err)
		}
	}

	if w.indexService != nil && job.Excerpt != "" {
		if err := w.indexService.IndexAnalysis(ctx, job.Record.ID.String(), job.Record.Kind, job.Excerpt); err != nil {
			log.Printf("⚠️  Worker #%d failed to index analysis %s: %v\n", workerID, job.Record.ID, err)
		}
	}
}

func trimExcerpt(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= excerptLimit {
		return text
	}
	return text[:excerptLimit]
}
