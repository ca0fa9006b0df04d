package tripview

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Is0meone/TransitTracker/pkg/apiclient"
	"github.com/Is0meone/TransitTracker/pkg/events"
	"github.com/Is0meone/TransitTracker/pkg/scene"
	"github.com/Is0meone/TransitTracker/pkg/tracker"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	ErrAlreadyVoted = errors.New("a vote for this report was already cast")
	ErrSuperseded   = errors.New("trip was superseded by a newer request")
	ErrClosed       = errors.New("session is closed")
)

type State string

const (
	StateIdle            State = "idle"
	StateLoading         State = "loading"
	StateLoadedEmpty     State = "loaded-empty"
	StateLoadedWithSteps State = "loaded-with-steps"
)

// LineState tracks a report lookup for one line. A line with no state has not
// been requested yet, or its last lookup failed.
type LineState string

const (
	LinePending   LineState = "pending"
	LineAvailable LineState = "available"
)

type TripPlanner interface {
	PlanTrip(ctx context.Context, origin string, destination string) (*tracker.TripPlan, error)
}

type ReportFetcher interface {
	ReportsForRoute(ctx context.Context, line string) ([]tracker.Report, error)
}

type VoteSubmitter interface {
	Vote(ctx context.Context, reportID int64, action tracker.VoteAction) error
}

// Session is the server side state of one trip view: the current trip, the
// reports known for its lines and the votes cast from it. It is safe for
// concurrent use.
type Session struct {
	ID string

	trips     TripPlanner
	reports   ReportFetcher
	voter     VoteSubmitter
	publisher events.Publisher

	maxConcurrentFetches int

	ctx    context.Context
	cancel context.CancelFunc

	// fetches is only grown while the session is open, so Close can wait on it.
	// Wait uses the inFlight counter instead.
	fetches conc.WaitGroup
	changes chan struct{}

	lastActive atomic.Int64

	mutex         sync.Mutex
	drained       *sync.Cond
	inFlight      int
	closed        bool
	state         State
	origin        string
	destination   string
	plan          *tracker.TripPlan
	tripError     string
	generation    uint64
	cancelTrip    context.CancelFunc
	reportsByLine map[string][]tracker.Report
	lineStates    map[string]LineState
	voteRecord    tracker.VoteRecord
	votesInFlight map[int64]struct{}
}

func New(trips TripPlanner, reports ReportFetcher, voter VoteSubmitter, opts ...Option) *Session {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	ctx, cancel := context.WithCancel(context.Background())

	session := &Session{
		ID: options.ID,

		trips:     trips,
		reports:   reports,
		voter:     voter,
		publisher: options.Publisher,

		maxConcurrentFetches: options.MaxConcurrentFetches,

		ctx:    ctx,
		cancel: cancel,

		changes: make(chan struct{}, 1),

		state:         StateIdle,
		reportsByLine: map[string][]tracker.Report{},
		lineStates:    map[string]LineState{},
		voteRecord:    tracker.VoteRecord{},
		votesInFlight: map[int64]struct{}{},
	}
	session.drained = sync.NewCond(&session.mutex)
	session.Touch()

	return session
}

func (s *Session) logger() *zerolog.Logger {
	logger := log.With().Str("session", s.ID).Logger()
	return &logger
}

// Plan requests a trip and, once it resolves, fetches reports for every transit
// line on it that is not already known or on its way. Only the most recent call
// is applied: an older trip that resolves late returns ErrSuperseded and leaves
// the session untouched. Plan does not wait for the report lookups, use Wait.
func (s *Session) Plan(ctx context.Context, origin string, destination string) error {
	if origin == "" || destination == "" {
		return apiclient.ErrMissingTripEndpoints
	}

	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return ErrClosed
	}

	if s.cancelTrip != nil {
		s.cancelTrip()
	}

	s.generation++
	generation := s.generation

	tripCtx, cancelTrip := context.WithCancel(s.ctx)
	s.cancelTrip = cancelTrip

	s.state = StateLoading
	s.origin = origin
	s.destination = destination
	s.mutex.Unlock()

	s.Touch()
	s.notify()

	stop := context.AfterFunc(ctx, cancelTrip)
	plan, err := s.trips.PlanTrip(tripCtx, origin, destination)
	stop()

	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		cancelTrip()
		return ErrClosed
	}
	if generation != s.generation {
		s.mutex.Unlock()
		cancelTrip()

		s.logger().Debug().Str("origin", origin).Str("destination", destination).Msg("Discarding superseded trip")
		return ErrSuperseded
	}

	cancelTrip()
	s.cancelTrip = nil

	s.tripError = ""
	if err != nil {
		s.tripError = err.Error()
		s.logger().Warn().Err(err).Str("origin", origin).Str("destination", destination).Msg("Trip planning failed")
	}
	if plan == nil {
		plan = &tracker.TripPlan{}
	}

	s.plan = plan
	if plan.Empty() {
		s.state = StateLoadedEmpty
	} else {
		s.state = StateLoadedWithSteps
	}

	lines := s.claimLines(plan.TransitLineKeys())
	s.dispatch(lines)
	s.mutex.Unlock()

	s.notify()

	s.logger().Info().
		Str("origin", origin).
		Str("destination", destination).
		Int("steps", len(plan.Steps)).
		Strs("lines", lines).
		Msg("Trip planned")

	s.publisher.Publish(events.Event{
		Type:        events.EventTypeTripPlanned,
		SessionID:   s.ID,
		Origin:      origin,
		Destination: destination,
		Success:     err == nil,
		FailReason:  errorText(err),
		Count:       len(plan.Steps),
	})

	return nil
}

func errorText(err error) string {
	if err == nil {
		return ""
	}

	return err.Error()
}

// FetchReports looks up the reports for one line and waits for the answer. It
// does nothing when the line is already known or being fetched.
func (s *Session) FetchReports(ctx context.Context, line string) error {
	if line == "" {
		return apiclient.ErrMissingLineName
	}

	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return ErrClosed
	}

	if len(s.claimLines([]string{line})) == 0 {
		s.mutex.Unlock()
		return nil
	}

	fetchCtx, cancel := context.WithCancel(s.ctx)
	stop := context.AfterFunc(ctx, cancel)

	var fetchErr error
	done := make(chan struct{})
	s.track(func() {
		defer close(done)
		defer stop()
		defer cancel()

		fetchErr = s.fetch(fetchCtx, line)
	})
	s.mutex.Unlock()

	s.Touch()
	s.notify()

	<-done

	return fetchErr
}

// claimLines marks every line without a state as pending and returns those
// lines. Callers hold the mutex.
func (s *Session) claimLines(lines []string) []string {
	var claimed []string

	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, known := s.lineStates[line]; known {
			continue
		}

		s.lineStates[line] = LinePending
		claimed = append(claimed, line)
	}

	return claimed
}

// dispatch fans the lookups out on a bounded pool. Callers hold the mutex so a
// concurrent Close always waits for what was dispatched.
func (s *Session) dispatch(lines []string) {
	if len(lines) == 0 {
		return
	}

	s.track(func() {
		fetchPool := pool.New().WithMaxGoroutines(s.maxConcurrentFetches)

		for _, line := range lines {
			fetchPool.Go(func() {
				_ = s.fetch(s.ctx, line)
			})
		}

		fetchPool.Wait()
	})
}

// track runs work in the background and counts it until it returns. Callers
// hold the mutex and have checked the session is still open.
func (s *Session) track(work func()) {
	s.inFlight++

	s.fetches.Go(func() {
		defer func() {
			s.mutex.Lock()
			s.inFlight--
			if s.inFlight == 0 {
				s.drained.Broadcast()
			}
			s.mutex.Unlock()
		}()

		work()
	})
}

func (s *Session) fetch(ctx context.Context, line string) error {
	reports, err := s.reports.ReportsForRoute(ctx, line)

	s.mutex.Lock()
	if err != nil {
		delete(s.lineStates, line)
	} else {
		s.reportsByLine[line] = slices.Clone(reports)
		s.lineStates[line] = LineAvailable
	}
	s.mutex.Unlock()

	s.notify()

	if err != nil {
		s.logger().Warn().Err(err).Str("line", line).Msg("Failed to fetch line reports")
	} else {
		s.logger().Debug().Str("line", line).Int("reports", len(reports)).Msg("Fetched line reports")
	}

	s.publisher.Publish(events.Event{
		Type:       events.EventTypeReportsFetched,
		SessionID:  s.ID,
		Line:       line,
		Success:    err == nil,
		FailReason: errorText(err),
		Count:      len(reports),
	})

	return err
}

// Vote casts a like or dislike once per report. A second vote, or one raced
// against a vote still in flight, fails with ErrAlreadyVoted without a request.
// On success the local counters of the report move with the vote.
func (s *Session) Vote(ctx context.Context, reportID int64, action tracker.VoteAction) error {
	if !action.Valid() {
		return tracker.ErrInvalidVoteAction
	}

	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return ErrClosed
	}

	_, voted := s.voteRecord[reportID]
	_, inFlight := s.votesInFlight[reportID]
	if voted || inFlight {
		s.mutex.Unlock()
		return ErrAlreadyVoted
	}

	s.votesInFlight[reportID] = struct{}{}
	s.mutex.Unlock()

	s.Touch()

	err := s.voter.Vote(ctx, reportID, action)

	s.mutex.Lock()
	delete(s.votesInFlight, reportID)

	if err == nil {
		s.voteRecord[reportID] = action

		for _, reports := range s.reportsByLine {
			for i := range reports {
				if reports[i].ID == reportID {
					action.Apply(&reports[i])
				}
			}
		}
	}
	s.mutex.Unlock()

	s.publisher.Publish(events.Event{
		Type:       events.EventTypeVoteCast,
		SessionID:  s.ID,
		ReportID:   reportID,
		Action:     string(action),
		Success:    err == nil,
		FailReason: errorText(err),
	})

	if err != nil {
		s.logger().Warn().Err(err).Int64("report", reportID).Str("action", string(action)).Msg("Vote failed")
		return err
	}

	s.notify()

	return nil
}

func (s *Session) Snapshot() Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	reportsByLine := make(map[string][]tracker.Report, len(s.reportsByLine))
	for line, reports := range s.reportsByLine {
		reportsByLine[line] = slices.Clone(reports)
	}

	return Snapshot{
		ID:            s.ID,
		State:         s.state,
		Origin:        s.origin,
		Destination:   s.destination,
		Plan:          s.plan,
		TripError:     s.tripError,
		ReportsByLine: reportsByLine,
		LineStates:    maps.Clone(s.lineStates),
		Votes:         maps.Clone(s.voteRecord),
	}
}

// Scene renders the current trip and reports from scratch.
func (s *Session) Scene() scene.Scene {
	snapshot := s.Snapshot()

	var steps []tracker.Step
	if snapshot.Plan != nil {
		steps = snapshot.Plan.Steps
	}

	return scene.Build(steps, snapshot.ReportsByLine)
}

func (s *Session) Itinerary() scene.Itinerary {
	return scene.NewItinerary(s.Snapshot().Plan)
}

// Changes is signalled after every state change. Signals are coalesced, so a
// reader should take a fresh Snapshot rather than count them.
func (s *Session) Changes() <-chan struct{} {
	return s.changes
}

func (s *Session) notify() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Wait blocks until no report lookup is running, including lookups dispatched
// while it waits. It is safe to call alongside Plan and FetchReports.
func (s *Session) Wait() {
	s.mutex.Lock()
	for s.inFlight > 0 {
		s.drained.Wait()
	}
	s.mutex.Unlock()
}

// Close cancels the in-flight trip and lookups and waits for them to return.
func (s *Session) Close() {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return
	}
	s.closed = true
	s.mutex.Unlock()

	s.cancel()
	s.fetches.Wait()

	s.logger().Debug().Msg("Session closed")
}

func (s *Session) Touch() {
	s.lastActive.Store(time.Now().UnixNano())
}

func (s *Session) IdleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastActive.Load()))
}
