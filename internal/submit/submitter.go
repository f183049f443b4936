// Package submit decides, per submission, between sending a story straight
// to the remote API and parking it in the durable queue for the background
// worker. Callers always get a definite outcome; whether delivery was
// immediate or deferred only shows in the result's Offline flag.
package submit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/graminsta/storysync/internal/api"
	"github.com/graminsta/storysync/internal/encodex"
	"github.com/graminsta/storysync/internal/logging"
	"github.com/graminsta/storysync/internal/models"
	"github.com/graminsta/storysync/internal/repositories/pending"
)

// ConnectivitySource reports the current best-effort online hint.
type ConnectivitySource interface {
	Online() bool
}

// SyncRegistrar arms the background reconciliation trigger.
type SyncRegistrar interface {
	RegisterSync() error
}

// StoryPoster sends a submission to the remote API.
type StoryPoster interface {
	PostStory(ctx context.Context, token string, sub api.Submission) (string, error)
}

// TokenSource provides the in-memory session credential.
type TokenSource interface {
	Token() (string, bool)
}

// ErrInvalidSubmission marks locally rejected input (missing description or
// photo); nothing is sent or queued.
var ErrInvalidSubmission = errors.New("invalid submission")

// Request is one story submission from the UI layer.
type Request struct {
	Description string
	Photo       []byte
	PhotoMime   string
	Lat         *float64
	Lon         *float64
}

// Result reports the caller-visible outcome. Offline means the story went
// into the queue and will be delivered by the sync worker.
type Result struct {
	Offline bool
	TempID  int64
	Message string
}

type Submitter struct {
	queue     pending.Repository
	client    StoryPoster
	conn      ConnectivitySource
	registrar SyncRegistrar
	tokens    TokenSource
	log       logging.Logger
}

func NewSubmitter(queue pending.Repository, client StoryPoster, conn ConnectivitySource,
	registrar SyncRegistrar, tokens TokenSource, log logging.Logger) *Submitter {
	return &Submitter{
		queue:     queue,
		client:    client,
		conn:      conn,
		registrar: registrar,
		tokens:    tokens,
		log:       log,
	}
}

// Submit runs the submission state machine:
//
//	online hint set   -> direct POST; network-class failure falls back to
//	                     the queue, application-class failure is surfaced
//	                     with the server's message verbatim
//	online hint unset -> straight to the queue, the API is never contacted
//
// Every queued submission gets a fresh client ref (stable across replays)
// and arms the sync trigger best-effort; a failed registration is logged
// and does not change the outcome.
func (s *Submitter) Submit(ctx context.Context, req Request) (*Result, error) {
	if req.Description == "" {
		return nil, fmt.Errorf("%w: description must not be empty", ErrInvalidSubmission)
	}
	if len(req.Photo) == 0 {
		return nil, fmt.Errorf("%w: photo is required", ErrInvalidSubmission)
	}

	clientRef := uuid.NewString()

	if s.conn.Online() {
		token, _ := s.tokens.Token()
		msg, err := s.client.PostStory(ctx, token, api.Submission{
			Description: req.Description,
			Photo:       req.Photo,
			PhotoMime:   req.PhotoMime,
			Lat:         req.Lat,
			Lon:         req.Lon,
			ClientRef:   clientRef,
		})
		if err == nil {
			return &Result{Offline: false, Message: msg}, nil
		}
		if _, rejected := api.IsRejection(err); rejected {
			return nil, err
		}
		s.log.Warn(ctx, "direct submission failed, falling back to queue", "error", err)
	}

	return s.enqueue(ctx, clientRef, req)
}

func (s *Submitter) enqueue(ctx context.Context, clientRef string, req Request) (*Result, error) {
	story := &models.PendingStory{
		ClientRef:   clientRef,
		Description: req.Description,
		Photo:       encodex.Encode(req.Photo, req.PhotoMime),
		Lat:         req.Lat,
		Lon:         req.Lon,
	}

	tempID, err := s.queue.Enqueue(ctx, story)
	if err != nil {
		return nil, fmt.Errorf("queueing story: %w", err)
	}

	if err := s.registrar.RegisterSync(); err != nil {
		s.log.Warn(ctx, "background sync registration failed", "error", err)
	}

	s.log.Info(ctx, "story queued for sync", "temp_id", tempID)
	return &Result{
		Offline: true,
		TempID:  tempID,
		Message: "You are offline. Story saved and will be synced when you are back online.",
	}, nil
}
