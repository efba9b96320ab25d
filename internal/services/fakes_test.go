package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/youtools/youtools-backend/internal/models"
	"github.com/youtools/youtools-backend/internal/transcript"
)

type fakeVideoRepo struct {
	mu      sync.Mutex
	byExtID map[string]*models.Video
	getErr  error
}

func newFakeVideoRepo() *fakeVideoRepo {
	return &fakeVideoRepo{byExtID: make(map[string]*models.Video)}
}

func (r *fakeVideoRepo) GetByExternalID(ctx context.Context, videoID string) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	v, ok := r.byExtID[videoID]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVideoRepo) Create(ctx context.Context, video *models.Video) (*models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byExtID[video.VideoID]; ok {
		cp := *existing
		return &cp, nil
	}
	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	video.CreatedAt = time.Now()
	cp := *video
	r.byExtID[video.VideoID] = &cp
	return video, nil
}

func (r *fakeVideoRepo) List(ctx context.Context) ([]models.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Video{}
	for _, v := range r.byExtID {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VideoID < out[j].VideoID })
	return out, nil
}

func (r *fakeVideoRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byExtID)
}

type fakeSummaryRepo struct {
	mu        sync.Mutex
	rows      []models.Summary
	getErr    error
	createErr error
}

func (r *fakeSummaryRepo) GetLatestByVideo(ctx context.Context, videoID uuid.UUID) (*models.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	var latest *models.Summary
	for i := range r.rows {
		if r.rows[i].VideoID == videoID && (latest == nil || r.rows[i].CreatedAt.After(latest.CreatedAt)) {
			cp := r.rows[i]
			latest = &cp
		}
	}
	return latest, nil
}

func (r *fakeSummaryRepo) Create(ctx context.Context, summary *models.Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if summary.ID == uuid.Nil {
		summary.ID = uuid.New()
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now()
	}
	r.rows = append(r.rows, *summary)
	return nil
}

func (r *fakeSummaryRepo) ListByVideos(ctx context.Context, videoIDs []uuid.UUID) ([]models.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[uuid.UUID]bool, len(videoIDs))
	for _, id := range videoIDs {
		want[id] = true
	}
	out := []models.Summary{}
	for _, s := range r.rows {
		if want[s.VideoID] {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeSummaryRepo) DeleteByVideo(ctx context.Context, videoID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	var n int64
	for _, s := range r.rows {
		if s.VideoID == videoID {
			n++
			continue
		}
		kept = append(kept, s)
	}
	r.rows = kept
	return n, nil
}

func (r *fakeSummaryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

type fakeProvider struct {
	calls atomic.Int32
	title string
	segs  []transcript.CaptionSegment
	err   error
}

func (p *fakeProvider) Fetch(ctx context.Context, videoID string) (*transcript.Transcript, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return &transcript.Transcript{VideoID: videoID, Title: p.title, Segments: p.segs}, nil
}

type fakeGenerator struct {
	calls   atomic.Int32
	text    string
	err     error
	delay   time.Duration
	prompts chan string
	onCall  func()
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls.Add(1)
	if g.prompts != nil {
		g.prompts <- prompt
	}
	if g.onCall != nil {
		g.onCall()
	}
	if g.delay > 0 {
		time.Sleep(g.delay)
	}
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

var errStore = errors.New("store unavailable")
