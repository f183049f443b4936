package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"time"

	"github.com/graminsta/storysync/internal/api"
	"github.com/graminsta/storysync/internal/config"
	"github.com/graminsta/storysync/internal/logging"
	"github.com/graminsta/storysync/internal/models"
	"github.com/graminsta/storysync/internal/notify"
	"github.com/graminsta/storysync/internal/relay"
	"github.com/graminsta/storysync/internal/repositories/pending"
	"github.com/graminsta/storysync/internal/repositories/stories"
	"github.com/graminsta/storysync/internal/session"
	"github.com/graminsta/storysync/internal/storage"
	"github.com/graminsta/storysync/internal/submit"
	"github.com/graminsta/storysync/internal/syncer"
)

// Submitter hands a story to the connectivity-aware submission pipeline.
type Submitter interface {
	Submit(ctx context.Context, req submit.Request) (*submit.Result, error)
}

// StoryAPI covers the remote endpoints the interactive commands call
// directly; queued submissions go through the Submitter instead.
type StoryAPI interface {
	Login(ctx context.Context, email, password string) (*api.LoginResult, error)
	GetStories(ctx context.Context, token string) ([]models.Story, error)
	GetStory(ctx context.Context, token, id string) (*models.Story, error)
}

// SyncControl is the part of the connectivity monitor the REPL touches.
type SyncControl interface {
	Online() bool
	RegisterSync() error
}

// App wires the interactive client together: the offline queue, the remote
// API, the in-memory session, the credential relay and the background sync
// machinery all hang off one App instance.
type App struct {
	config    *config.Config
	log       logging.Logger
	session   *session.Session
	api       StoryAPI
	submitter Submitter
	queue     pending.Repository
	saved     stories.Repository
	syncCtl   SyncControl

	db      *sql.DB
	monitor *syncer.Monitor
	worker  *syncer.Worker
	relay   *relay.Server

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {

	ctx := context.Background()

	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	queue := pending.NewSQLiteRepository(db)
	saved := stories.NewSQLiteRepository(db)

	apiClient := api.New(c.APIBaseURL, c.RequestTimeout)
	sess := session.New()

	monitor := syncer.NewMonitor(apiClient, c.OnlineCheckInterval, log)

	relaySrv := relay.NewServer(sess, log)
	relayClient := relay.NewClient("ws://"+c.RelayAddr+"/relay", c.RequestTimeout)

	notifier := notify.NewWriterNotifier(os.Stdout, log)
	worker := syncer.NewWorker(queue, apiClient, relayClient, notifier, log, c.SyncConcurrency)

	submitter := submit.NewSubmitter(queue, apiClient, monitor, monitor, sess, log)

	return &App{
		config:    c,
		log:       log,
		session:   sess,
		api:       apiClient,
		submitter: submitter,
		queue:     queue,
		saved:     saved,
		syncCtl:   monitor,
		db:        db,
		monitor:   monitor,
		worker:    worker,
		relay:     relaySrv,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

// Run starts the background pieces (relay, connectivity monitor, sync
// worker), re-arms the sync trigger for anything left over from a previous
// run, and hands control to the REPL. Everything stops when the REPL exits.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.db.Close()

	go func() {
		if err := a.relay.ListenAndServe(ctx, a.config.RelayAddr); err != nil {
			a.log.Error(ctx, "credential relay stopped", "error", err)
		}
	}()
	go a.monitor.Run(ctx)
	go a.worker.Run(ctx, a.monitor.Restored())

	a.kickLeftoverSync(ctx)

	a.Root(ctx)
}

// kickLeftoverSync re-arms the sync trigger when the queue still holds
// pending entries from an earlier run. The monitor goroutine has just been
// started, so registration is retried briefly until it is accepting.
func (a *App) kickLeftoverSync(ctx context.Context) {
	entries, err := a.queue.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		a.log.Warn(ctx, "could not inspect pending queue on startup", "error", err)
		return
	}
	if len(entries) == 0 {
		return
	}

	a.log.Info(ctx, "found pending stories from a previous run", "count", len(entries))

	for i := 0; i < 10; i++ {
		err = a.syncCtl.RegisterSync()
		if !errors.Is(err, syncer.ErrMonitorNotRunning) {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if err != nil {
		a.log.Warn(ctx, "could not arm sync on startup", "error", err)
	}
}
