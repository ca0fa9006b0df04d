package tripview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Is0meone/TransitTracker/pkg/apiclient"
	"github.com/Is0meone/TransitTracker/pkg/events"
	"github.com/Is0meone/TransitTracker/pkg/scene"
	"github.com/Is0meone/TransitTracker/pkg/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlanner struct {
	mutex sync.Mutex
	calls []string
	plans map[string]*tracker.TripPlan
	gates map[string]chan struct{}
	err   error
}

func (p *fakePlanner) PlanTrip(ctx context.Context, origin string, destination string) (*tracker.TripPlan, error) {
	p.mutex.Lock()
	p.calls = append(p.calls, origin)
	gate := p.gates[origin]
	plan := p.plans[origin]
	err := p.err
	p.mutex.Unlock()

	// Gated answers ignore cancellation so a late response can be simulated.
	if gate != nil {
		<-gate
	}

	if err != nil {
		return &tracker.TripPlan{}, err
	}
	if plan == nil {
		return &tracker.TripPlan{}, errors.New("no plan")
	}

	return plan, nil
}

func (p *fakePlanner) callCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return len(p.calls)
}

type fakeReports struct {
	mutex   sync.Mutex
	calls   map[string]int
	reports map[string][]tracker.Report
	gates   map[string]chan struct{}
	errs    map[string]error
}

func newFakeReports() *fakeReports {
	return &fakeReports{
		calls:   map[string]int{},
		reports: map[string][]tracker.Report{},
		gates:   map[string]chan struct{}{},
		errs:    map[string]error{},
	}
}

func (r *fakeReports) ReportsForRoute(ctx context.Context, line string) ([]tracker.Report, error) {
	r.mutex.Lock()
	r.calls[line]++
	gate := r.gates[line]
	reports := r.reports[line]
	err := r.errs[line]
	r.mutex.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *fakeReports) callCount(line string) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	return r.calls[line]
}

func (r *fakeReports) totalCalls() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	total := 0
	for _, n := range r.calls {
		total += n
	}
	return total
}

type fakeVoter struct {
	mutex sync.Mutex
	calls int
	gate  chan struct{}
	err   error
}

func (v *fakeVoter) Vote(ctx context.Context, reportID int64, action tracker.VoteAction) error {
	v.mutex.Lock()
	v.calls++
	gate := v.gate
	err := v.err
	v.mutex.Unlock()

	if gate != nil {
		<-gate
	}

	return err
}

func (v *fakeVoter) callCount() int {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	return v.calls
}

type recordingPublisher struct {
	mutex  sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(event events.Event) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.events = append(p.events, event)
}

func (p *recordingPublisher) ofType(eventType events.EventType) []events.Event {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	var matched []events.Event
	for _, event := range p.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func walking(path ...tracker.Location) tracker.Step {
	return tracker.Step{
		TravelMode:   tracker.TravelModeWalking,
		Instructions: "Idź pieszo",
		Path:         path,
	}
}

func transit(line string, path ...tracker.Location) tracker.Step {
	return tracker.Step{
		TravelMode:   tracker.TravelModeTransit,
		Instructions: "Autobus " + line,
		Path:         path,
		Transit: &tracker.TransitInfo{
			LineName:    line,
			VehicleType: tracker.VehicleTypeBus,
		},
	}
}

func planWith(steps ...tracker.Step) *tracker.TripPlan {
	return &tracker.TripPlan{Status: "OK", Steps: steps}
}

func newSession(planner *fakePlanner, reports *fakeReports, voter *fakeVoter, opts ...Option) *Session {
	session := New(planner, reports, voter, opts...)
	return session
}

func TestSession_PlanValidation(t *testing.T) {
	planner := &fakePlanner{}
	session := newSession(planner, newFakeReports(), &fakeVoter{})
	defer session.Close()

	assert.ErrorIs(t, session.Plan(context.Background(), "", "Rynek Główny"), apiclient.ErrMissingTripEndpoints)
	assert.ErrorIs(t, session.Plan(context.Background(), "Nowa Huta Centrum", ""), apiclient.ErrMissingTripEndpoints)

	assert.Equal(t, StateIdle, session.Snapshot().State)
	assert.Zero(t, planner.callCount())
}

func TestSession_NoTransitSteps(t *testing.T) {
	planner := &fakePlanner{plans: map[string]*tracker.TripPlan{
		"A": planWith(walking(tracker.Location{Lat: 1}), walking(tracker.Location{Lat: 2})),
	}}
	reports := newFakeReports()

	session := newSession(planner, reports, &fakeVoter{})
	defer session.Close()

	require.NoError(t, session.Plan(context.Background(), "A", "B"))
	session.Wait()

	snapshot := session.Snapshot()
	assert.Equal(t, StateLoadedWithSteps, snapshot.State)
	assert.Equal(t, 2, snapshot.StepCount())
	assert.Zero(t, reports.totalCalls())
	assert.Empty(t, snapshot.LineStates)
}

func TestSession_SharedLineFetchedOnce(t *testing.T) {
	planner := &fakePlanner{plans: map[string]*tracker.TripPlan{
		"A": planWith(transit("52A"), walking(), transit("52A"), transit("52A")),
	}}
	reports := newFakeReports()

	session := newSession(planner, reports, &fakeVoter{})
	defer session.Close()

	require.NoError(t, session.Plan(context.Background(), "A", "B"))
	session.Wait()

	assert.Equal(t, 1, reports.callCount("52A"))
	assert.Equal(t, LineAvailable, session.Snapshot().LineStates["52A"])

	// Planning again never refetches a known line.
	require.NoError(t, session.Plan(context.Background(), "A", "B"))
	session.Wait()
	assert.Equal(t, 1, reports.callCount("52A"))
}

func TestSession_FetchReportsIdempotent(t *testing.T) {
	reports := newFakeReports()
	reports.reports["4"] = []tracker.Report{{ID: 1, RouteName: "4"}}

	session := newSession(&fakePlanner{}, reports, &fakeVoter{})
	defer session.Close()

	require.NoError(t, session.FetchReports(context.Background(), "4"))
	require.NoError(t, session.FetchReports(context.Background(), "4"))

	assert.Equal(t, 1, reports.callCount("4"))
	assert.Len(t, session.Snapshot().ReportsByLine["4"], 1)

	assert.ErrorIs(t, session.FetchReports(context.Background(), ""), apiclient.ErrMissingLineName)
}

func TestSession_FetchReportsWhilePending(t *testing.T) {
	reports := newFakeReports()
	reports.gates["4"] = make(chan struct{})

	session := newSession(&fakePlanner{}, reports, &fakeVoter{})
	defer session.Close()

	done := make(chan error, 1)
	go func() { done <- session.FetchReports(context.Background(), "4") }()

	require.Eventually(t, func() bool { return reports.callCount("4") == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, LinePending, session.Snapshot().LineStates["4"])

	require.NoError(t, session.FetchReports(context.Background(), "4"))

	close(reports.gates["4"])
	require.NoError(t, <-done)

	assert.Equal(t, 1, reports.callCount("4"))
	assert.Equal(t, LineAvailable, session.Snapshot().LineStates["4"])
}

func TestSession_ConcurrentFetchesAnyOrder(t *testing.T) {
	planner := &fakePlanner{plans: map[string]*tracker.TripPlan{
		"A": planWith(transit("A1"), transit("B2")),
	}}
	reports := newFakeReports()
	reports.reports["A1"] = []tracker.Report{{ID: 1}}
	reports.reports["B2"] = []tracker.Report{{ID: 2}}
	reports.gates["A1"] = make(chan struct{})
	reports.gates["B2"] = make(chan struct{})

	session := newSession(planner, reports, &fakeVoter{})
	defer session.Close()

	require.NoError(t, session.Plan(context.Background(), "A", "B"))
	require.Eventually(t, func() bool { return reports.totalCalls() == 2 }, time.Second, time.Millisecond)

	close(reports.gates["B2"])
	require.Eventually(t, func() bool {
		return session.Snapshot().LineStates["B2"] == LineAvailable
	}, time.Second, time.Millisecond)
	assert.Equal(t, LinePending, session.Snapshot().LineStates["A1"])

	close(reports.gates["A1"])
	session.Wait()

	snapshot := session.Snapshot()
	assert.Len(t, snapshot.ReportsByLine, 2)
	assert.Contains(t, snapshot.ReportsByLine, "A1")
	assert.Contains(t, snapshot.ReportsByLine, "B2")
}

func TestSession_FailedFetch(t *testing.T) {
	planner := &fakePlanner{plans: map[string]*tracker.TripPlan{
		"A": planWith(transit("52A")),
	}}
	reports := newFakeReports()
	reports.errs["52A"] = errors.New("upstream down")

	session := newSession(planner, reports, &fakeVoter{})
	defer session.Close()

	require.NoError(t, session.Plan(context.Background(), "A", "B"))
	session.Wait()

	snapshot := session.Snapshot()
	assert.NotContains(t, snapshot.LineStates, "52A")
	assert.NotContains(t, snapshot.ReportsByLine, "52A")
	assert.Len(t, session.Scene().Segments, 1)

	reports.mutex.Lock()
	delete(reports.errs, "52A")
	reports.reports["52A"] = []tracker.Report{{ID: 3}}
	reports.mutex.Unlock()

	require.NoError(t, session.FetchReports(context.Background(), "52A"))
	assert.Equal(t, 2, reports.callCount("52A"))
	assert.Equal(t, LineAvailable, session.Snapshot().LineStates["52A"])
}

func TestSession_FailedTrip(t *testing.T) {
	planner := &fakePlanner{err: errors.New("planning trip: 502 Bad Gateway")}
	reports := newFakeReports()

	session := newSession(planner, reports, &fakeVoter{})
	defer session.Close()

	require.NoError(t, session.Plan(context.Background(), "A", "B"))
	session.Wait()

	snapshot := session.Snapshot()
	assert.Equal(t, StateLoadedEmpty, snapshot.State)
	assert.Zero(t, snapshot.StepCount())
	assert.NotEmpty(t, snapshot.TripError)
	assert.Zero(t, reports.totalCalls())
	assert.Empty(t, session.Scene().Segments)
}

func TestSession_StaleTripDiscarded(t *testing.T) {
	planner := &fakePlanner{
		plans: map[string]*tracker.TripPlan{
			"old": planWith(transit("OLD")),
			"new": planWith(walking(), transit("NEW")),
		},
		gates: map[string]chan struct{}{"old": make(chan struct{})},
	}
	reports := newFakeReports()

	session := newSession(planner, reports, &fakeVoter{})
	defer session.Close()

	oldResult := make(chan error, 1)
	go func() { oldResult <- session.Plan(context.Background(), "old", "X") }()
	require.Eventually(t, func() bool { return planner.callCount() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, session.Plan(context.Background(), "new", "X"))

	close(planner.gates["old"])
	assert.ErrorIs(t, <-oldResult, ErrSuperseded)
	session.Wait()

	snapshot := session.Snapshot()
	assert.Equal(t, "new", snapshot.Origin)
	require.Equal(t, 2, snapshot.StepCount())
	assert.Equal(t, "NEW", snapshot.Plan.Steps[1].LineKey())
	assert.Zero(t, reports.callCount("OLD"))
	assert.Equal(t, 1, reports.callCount("NEW"))
}

func TestSession_Vote(t *testing.T) {
	reports := newFakeReports()
	reports.reports["52A"] = []tracker.Report{{ID: 7, Likes: 2, Dislikes: 1}}

	t.Run("second vote makes no request", func(t *testing.T) {
		voter := &fakeVoter{}
		session := newSession(&fakePlanner{}, reports, voter)
		defer session.Close()

		require.NoError(t, session.FetchReports(context.Background(), "52A"))

		require.NoError(t, session.Vote(context.Background(), 7, tracker.VoteActionLike))
		assert.ErrorIs(t, session.Vote(context.Background(), 7, tracker.VoteActionDislike), ErrAlreadyVoted)
		assert.Equal(t, 1, voter.callCount())

		snapshot := session.Snapshot()
		assert.Equal(t, tracker.VoteActionLike, snapshot.Votes[7])
		assert.Equal(t, 3, snapshot.ReportsByLine["52A"][0].Likes)
		assert.Equal(t, 1, snapshot.ReportsByLine["52A"][0].Dislikes)

		// The shared source slice is left alone.
		assert.Equal(t, 2, reports.reports["52A"][0].Likes)
	})

	t.Run("vote in flight", func(t *testing.T) {
		voter := &fakeVoter{gate: make(chan struct{})}
		session := newSession(&fakePlanner{}, reports, voter)
		defer session.Close()

		first := make(chan error, 1)
		go func() { first <- session.Vote(context.Background(), 7, tracker.VoteActionDislike) }()
		require.Eventually(t, func() bool { return voter.callCount() == 1 }, time.Second, time.Millisecond)

		assert.ErrorIs(t, session.Vote(context.Background(), 7, tracker.VoteActionDislike), ErrAlreadyVoted)

		close(voter.gate)
		require.NoError(t, <-first)
		assert.Equal(t, 1, voter.callCount())
	})

	t.Run("failed vote can be retried", func(t *testing.T) {
		voter := &fakeVoter{err: errors.New("upstream down")}
		session := newSession(&fakePlanner{}, reports, voter)
		defer session.Close()

		assert.Error(t, session.Vote(context.Background(), 7, tracker.VoteActionLike))
		assert.Empty(t, session.Snapshot().Votes)

		voter.mutex.Lock()
		voter.err = nil
		voter.mutex.Unlock()

		require.NoError(t, session.Vote(context.Background(), 7, tracker.VoteActionLike))
		assert.Equal(t, 2, voter.callCount())
	})

	t.Run("invalid action", func(t *testing.T) {
		voter := &fakeVoter{}
		session := newSession(&fakePlanner{}, reports, voter)
		defer session.Close()

		assert.ErrorIs(t, session.Vote(context.Background(), 7, "love"), tracker.ErrInvalidVoteAction)
		assert.Zero(t, voter.callCount())
	})
}

func TestSession_EndToEnd(t *testing.T) {
	planner := &fakePlanner{plans: map[string]*tracker.TripPlan{
		"Nowa Huta Centrum": planWith(
			walking(tracker.Location{Lat: 50.0721, Lng: 20.0378}, tracker.Location{Lat: 50.0717, Lng: 20.0372}),
			transit("52A",
				tracker.Location{Lat: 50.0717, Lng: 20.0372},
				tracker.Location{Lat: 50.0652, Lng: 19.9901},
				tracker.Location{Lat: 50.0614, Lng: 19.9383},
			),
		),
	}}
	reports := newFakeReports()
	reports.reports["52A"] = []tracker.Report{{
		ID:          11,
		Description: "Awaria tramwaju",
		RouteName:   "52A",
		Lattidude:   50.06465,
		Longidute:   19.94498,
		Verified:    tracker.VerificationUnverified,
	}}
	publisher := &recordingPublisher{}

	session := newSession(planner, reports, &fakeVoter{}, WithID("e2e"), WithPublisher(publisher))
	defer session.Close()

	require.NoError(t, session.Plan(context.Background(), "Nowa Huta Centrum", "Rynek Główny"))
	session.Wait()

	assert.Equal(t, 1, reports.totalCalls())
	assert.Equal(t, 1, reports.callCount("52A"))

	rendered := session.Scene()
	require.Len(t, rendered.Segments, 2)
	assert.Equal(t, scene.ColourGreen, rendered.Segments[0].Colour)
	assert.Empty(t, rendered.Segments[0].Markers)

	transitSegment := rendered.Segments[1]
	assert.Equal(t, scene.ColourBlue, transitSegment.Colour)
	require.NotNil(t, transitSegment.Label)
	assert.Equal(t, "52A", transitSegment.Label.Line)

	require.Len(t, transitSegment.Markers, 1)
	assert.Equal(t, tracker.Location{Lat: 50.06465, Lng: 19.94498}, transitSegment.Markers[0].Position)
	assert.Equal(t, "—", transitSegment.Markers[0].Popup.When)

	itinerary := session.Itinerary()
	require.Len(t, itinerary.Entries, 2)
	assert.Equal(t, "52A", itinerary.Entries[1].Line)

	planned := publisher.ofType(events.EventTypeTripPlanned)
	require.Len(t, planned, 1)
	assert.Equal(t, "e2e", planned[0].SessionID)
	assert.Equal(t, 2, planned[0].Count)
	assert.Len(t, publisher.ofType(events.EventTypeReportsFetched), 1)
}

func TestSession_Changes(t *testing.T) {
	planner := &fakePlanner{plans: map[string]*tracker.TripPlan{"A": planWith(walking())}}
	session := newSession(planner, newFakeReports(), &fakeVoter{})
	defer session.Close()

	require.NoError(t, session.Plan(context.Background(), "A", "B"))

	select {
	case <-session.Changes():
	case <-time.After(time.Second):
		t.Fatal("no change signalled")
	}
}

func TestSession_Close(t *testing.T) {
	planner := &fakePlanner{plans: map[string]*tracker.TripPlan{"A": planWith(transit("52A"))}}
	reports := newFakeReports()
	reports.gates["52A"] = make(chan struct{})

	session := newSession(planner, reports, &fakeVoter{})

	require.NoError(t, session.Plan(context.Background(), "A", "B"))
	require.Eventually(t, func() bool { return reports.callCount("52A") == 1 }, time.Second, time.Millisecond)

	// The gated fetch only returns through cancellation.
	session.Close()

	assert.NotContains(t, session.Snapshot().LineStates, "52A")
	assert.ErrorIs(t, session.Plan(context.Background(), "A", "B"), ErrClosed)
	assert.ErrorIs(t, session.Vote(context.Background(), 1, tracker.VoteActionLike), ErrClosed)
}

func TestSession_WaitAlongsideFetches(t *testing.T) {
	session := newSession(&fakePlanner{}, newFakeReports(), &fakeVoter{})
	defer session.Close()

	stop := make(chan struct{})
	waiterDone := make(chan struct{})
	go func() {
		defer close(waiterDone)
		for {
			select {
			case <-stop:
				return
			default:
				session.Wait()
			}
		}
	}()

	for i := 0; i < 200; i++ {
		require.NoError(t, session.FetchReports(context.Background(), fmt.Sprint(i)))
	}

	close(stop)
	<-waiterDone

	assert.Len(t, session.Snapshot().LineStates, 200)
}

func TestSession_WaitCoversLaterDispatch(t *testing.T) {
	reports := newFakeReports()
	reports.gates["52A"] = make(chan struct{})

	session := newSession(&fakePlanner{}, reports, &fakeVoter{})
	defer session.Close()

	go func() {
		_ = session.FetchReports(context.Background(), "52A")
	}()
	require.Eventually(t, func() bool { return reports.callCount("52A") == 1 }, time.Second, time.Millisecond)

	waited := make(chan struct{})
	go func() {
		session.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		t.Fatal("Wait returned while a lookup was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(reports.gates["52A"])
	<-waited

	assert.Equal(t, LineAvailable, session.Snapshot().LineStates["52A"])
}
