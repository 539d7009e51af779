package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher processes invoices as they are dropped into json_files/invoices,
// the long-running counterpart to Run's one-shot directory sweep. It
// conforms to the teacher's worker.Worker shape (Start/Stop/Name) so it can
// be registered the same way any other background worker is.
type Watcher struct {
	pipeline    *Pipeline
	invoicesDir string
	log         *zap.Logger

	fsw    *fsnotify.Watcher
	wg     sync.WaitGroup
	sem    chan struct{}
	cancel context.CancelFunc
}

// NewWatcher builds a Watcher over invoicesDir, bounding concurrent
// ProcessOne calls to p's configured worker count.
func NewWatcher(p *Pipeline, invoicesDir string, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	workers := p.cfg.WorkerCount
	if workers <= 0 {
		workers = 1
	}
	return &Watcher{
		pipeline:    p,
		invoicesDir: invoicesDir,
		log:         log,
		sem:         make(chan struct{}, workers),
	}
}

func (w *Watcher) Name() string { return "invoice-watcher" }

// Start begins watching invoicesDir for new *.json files and processes each
// one through the pipeline. It returns once the watcher is set up; new
// files are handled asynchronously until Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(w.invoicesDir); err != nil {
		fsw.Close()
		return err
	}
	w.fsw = fsw

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.wg.Add(1)
	go w.loop(runCtx)

	w.log.Info("invoice watcher started", zap.String("dir", w.invoicesDir))
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if strings.ToLower(filepath.Ext(event.Name)) != ".json" {
				continue
			}
			w.dispatch(ctx, filepath.Base(event.Name))
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("invoice watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) dispatch(ctx context.Context, filename string) {
	select {
	case w.sem <- struct{}{}:
	case <-ctx.Done():
		return
	}
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() { <-w.sem }()
		if _, err := w.pipeline.ProcessOne(ctx, filename); err != nil {
			w.log.Error("failed to process watched invoice", zap.String("filename", filename), zap.Error(err))
		}
	}()
}

// Stop stops watching and waits for in-flight processing to finish.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	if w.fsw != nil {
		w.fsw.Close()
	}
	w.wg.Wait()
}
