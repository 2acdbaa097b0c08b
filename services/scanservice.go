package services

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"nocturne/types"
	"nocturne/websocket"
)

// progressBroadcastEvery throttles scan progress pushes to subscribers
const progressBroadcastEvery = 25

// ScanService interface defines the methods for managing library scan jobs.
// Completed scans publish a library snapshot which the frame loop takes
// with TakeSnapshot; queuing a second scan before the first snapshot is
// consumed simply replaces it.
type ScanService interface {
	Start()
	QueueScan(root string) *types.ScanJob
	GetJob(id string) (*types.ScanJob, bool)
	GetAllJobs() []*types.ScanJob
	Scanning() bool
	Progress() (scanned, total int)
	TakeSnapshot() (types.Library, bool)
}

// scanService manages library scan jobs
type scanService struct {
	scanner LibraryScanner
	hub     websocket.Hub

	jobs  map[string]*types.ScanJob
	queue chan *types.ScanJob
	mu    sync.RWMutex

	scanning atomic.Bool
	scanned  atomic.Int64
	total    atomic.Int64

	snapMu  sync.Mutex
	pending types.Library
	ready   atomic.Bool
}

// NewScanService creates a new scan service. hub may be nil in CLI mode.
func NewScanService(scanner LibraryScanner, hub websocket.Hub) ScanService {
	return &scanService{
		scanner: scanner,
		hub:     hub,
		jobs:    make(map[string]*types.ScanJob),
		queue:   make(chan *types.ScanJob, 16),
	}
}

// QueueScan adds a new scan job for the given library root
func (ss *scanService) QueueScan(root string) *types.ScanJob {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	job := &types.ScanJob{
		ID:        uuid.New().String(),
		Root:      root,
		Status:    types.ScanStatusQueued,
		Total:     1,
		CreatedAt: time.Now(),
	}

	ss.jobs[job.ID] = job
	ss.queue <- job

	return job
}

// GetJob retrieves a job by ID
func (ss *scanService) GetJob(id string) (*types.ScanJob, bool) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	job, exists := ss.jobs[id]
	return job, exists
}

// GetAllJobs returns all jobs
func (ss *scanService) GetAllJobs() []*types.ScanJob {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	jobs := make([]*types.ScanJob, 0, len(ss.jobs))
	for _, job := range ss.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// Scanning reports whether a scan is currently running
func (ss *scanService) Scanning() bool {
	return ss.scanning.Load()
}

// Progress returns the running scan's file counters
func (ss *scanService) Progress() (int, int) {
	return int(ss.scanned.Load()), int(ss.total.Load())
}

// TakeSnapshot consumes the most recently published library snapshot.
// Returns false when no new snapshot has been published since the last call.
func (ss *scanService) TakeSnapshot() (types.Library, bool) {
	if !ss.ready.Swap(false) {
		return types.Library{}, false
	}
	ss.snapMu.Lock()
	defer ss.snapMu.Unlock()
	return ss.pending, true
}

// publishSnapshot stores a snapshot for the frame loop, replacing any
// snapshot not yet taken
func (ss *scanService) publishSnapshot(lib types.Library) {
	ss.snapMu.Lock()
	ss.pending = lib
	ss.snapMu.Unlock()
	ss.ready.Store(true)
}

// Start begins processing scans on a background worker. Scans run one at
// a time so a re-scan queued mid-scan waits for the running one.
func (ss *scanService) Start() {
	go ss.worker()
}

// worker processes scan jobs from the queue
func (ss *scanService) worker() {
	for job := range ss.queue {
		ss.runScan(job)
	}
}

// runScan executes one scan job end to end
func (ss *scanService) runScan(job *types.ScanJob) {
	ss.setJobStatus(job.ID, types.ScanStatusScanning, "")
	ss.scanning.Store(true)
	ss.scanned.Store(0)
	ss.total.Store(0)

	lib, err := ss.scanner.Scan(job.Root, func(scanned, total int) {
		ss.scanned.Store(int64(scanned))
		ss.total.Store(int64(total))
		ss.updateJobProgress(job.ID, scanned, total)
	})

	ss.scanning.Store(false)

	if err != nil {
		log.Printf("Scan %s failed: %v", job.ID, err)
		ss.setJobStatus(job.ID, types.ScanStatusFailed, err.Error())
		// A failed scan still publishes, so the scene empties out instead
		// of showing a stale library.
		ss.publishSnapshot(types.Library{})
		return
	}

	ss.publishSnapshot(lib)
	ss.setJobStatus(job.ID, types.ScanStatusCompleted, "")
	log.Printf("Scan %s completed: %d artists, %d albums, %d tracks",
		job.ID, len(lib.Artists), lib.TotalAlbums, lib.TotalTracks)
}

// updateJobProgress updates job counters and pushes a throttled progress
// message to scan subscribers
func (ss *scanService) updateJobProgress(id string, scanned, total int) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	job, exists := ss.jobs[id]
	if !exists {
		return
	}
	job.Scanned = scanned
	job.Total = total

	if ss.hub == nil || total == 0 {
		return
	}
	if scanned%progressBroadcastEvery != 0 && scanned != total {
		return
	}
	ss.hub.BroadcastScanProgress(types.ScanProgressMessage{
		Type:      "progress",
		JobID:     id,
		Status:    job.Status,
		Scanned:   scanned,
		Total:     total,
		Message:   fmt.Sprintf("Scanned %d of %d files", scanned, total),
		Timestamp: time.Now(),
	})
}

// setJobStatus updates job status and broadcasts the transition
func (ss *scanService) setJobStatus(id string, status types.ScanStatus, errorMsg string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	job, exists := ss.jobs[id]
	if !exists {
		return
	}

	job.Status = status
	if errorMsg != "" {
		job.Error = errorMsg
	}

	now := time.Now()
	switch status {
	case types.ScanStatusScanning:
		if job.StartedAt == nil {
			job.StartedAt = &now
		}
	case types.ScanStatusCompleted, types.ScanStatusFailed:
		job.CompletedAt = &now
	}

	if ss.hub == nil {
		return
	}

	msgType := "status"
	message := string(status)
	switch status {
	case types.ScanStatusCompleted:
		msgType = "complete"
		message = fmt.Sprintf("Scan of %s completed", job.Root)
	case types.ScanStatusFailed:
		msgType = "error"
		message = errorMsg
	case types.ScanStatusScanning:
		message = fmt.Sprintf("Scanning %s", job.Root)
	}

	ss.hub.BroadcastScanProgress(types.ScanProgressMessage{
		Type:      msgType,
		JobID:     id,
		Status:    status,
		Scanned:   job.Scanned,
		Total:     job.Total,
		Message:   message,
		Timestamp: time.Now(),
	})
}
