package tracker

import (
	"context"
	"log"
	"sync"
	"time"

	"backend-worktracker/internal/location"
	"backend-worktracker/internal/place"
	"backend-worktracker/internal/project"
	"backend-worktracker/internal/session"
	"backend-worktracker/internal/shared/geo"

	"github.com/google/uuid"
)

// Canonical geofence and sampling constants. The dedup rule bounds storage
// growth; it is not a correctness requirement.
const (
	geofenceRadiusM = 100.0
	minPointGapMs   = 60000
	minPointShiftM  = 50.0
)

type SessionStore interface {
	Append(ctx context.Context, ws session.WorkSession) error
	History(ctx context.Context, userID string) ([]session.WorkSession, error)
}

type PointStore interface {
	Append(ctx context.Context, p location.Point) error
}

type PlaceReader interface {
	Settings(ctx context.Context, userID string) (place.Settings, error)
}

type ProjectReader interface {
	Current(ctx context.Context, userID string) (*project.Project, error)
}

type Notifier interface {
	Notify(userID, title, body string)
}

// Syncer uploads a history snapshot best-effort; the boolean is the whole
// failure contract.
type Syncer interface {
	Upload(ctx context.Context, userID string, sessions []session.WorkSession) bool
}

// Status is the derived view of one user's timer. Elapsed is recomputed on
// every read, so polling it has no effect on tracker state.
type Status struct {
	Working     bool   `json:"working"`
	StartTime   int64  `json:"start_time,omitempty"`
	ElapsedMs   int64  `json:"elapsed_ms"`
	ProjectName string `json:"project_name,omitempty"`
	Task        string `json:"task_description,omitempty"`
	Label       string `json:"label"`
}

// Tracker holds the per-user work-session state machine. All transitions are
// serialized behind one mutex; collaborator failures never roll a local
// transition back.
type Tracker struct {
	sessions SessionStore
	points   PointStore
	places   PlaceReader
	projects ProjectReader
	notifier Notifier
	syncer   Syncer
	timers   TimerStore

	mu     sync.Mutex
	states map[string]*state

	now func() time.Time
}

type state struct {
	working     bool
	sessionID   string
	startTime   int64
	projectName string
	hourlyRate  float64
	task        string
	label       string
	current     *geo.LatLng
	lastPoint   *location.Point
}

func New(sessions SessionStore, points PointStore, places PlaceReader, projects ProjectReader,
	notifier Notifier, syncer Syncer, timers TimerStore) *Tracker {
	return &Tracker{
		sessions: sessions,
		points:   points,
		places:   places,
		projects: projects,
		notifier: notifier,
		syncer:   syncer,
		timers:   timers,
		states:   map[string]*state{},
		now:      time.Now,
	}
}

// StartWork clocks the user in. Already working or no current project means
// a silent no-op.
func (t *Tracker) StartWork(ctx context.Context, userID string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.stateLocked(ctx, userID)
	t.startLocked(ctx, userID, st)
	return t.statusLocked(st)
}

// StopWork clocks the user out, appending the closed session to history and
// kicking off a detached cloud sync. Not working means a silent no-op.
func (t *Tracker) StopWork(ctx context.Context, userID string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.stateLocked(ctx, userID)
	t.stopLocked(ctx, userID, st)
	return t.statusLocked(st)
}

// OnLocationUpdate resolves the user's location label, samples a point under
// the 60 s / 50 m dedup rule, then evaluates geofence auto clock-in/out.
func (t *Tracker) OnLocationUpdate(ctx context.Context, userID string, ll geo.LatLng) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.stateLocked(ctx, userID)

	settings, err := t.places.Settings(ctx, userID)
	if err != nil {
		log.Printf("place settings error: %v", err)
		settings = place.Settings{}
	}

	st.current = &geo.LatLng{Lat: ll.Lat, Lng: ll.Lng}
	st.label = resolveLabel(ll, settings)

	nowMs := t.now().UnixMilli()
	if st.lastPoint == nil ||
		nowMs-st.lastPoint.Timestamp > minPointGapMs ||
		geo.DistanceM(ll, st.lastPoint.LatLng) > minPointShiftM {
		p := location.Point{
			ID:        uuid.NewString(),
			UserID:    userID,
			Timestamp: nowMs,
			LatLng:    ll,
			Label:     st.label,
		}
		if st.working {
			p.SessionID = st.sessionID
		}
		if err := t.points.Append(ctx, p); err != nil {
			log.Printf("point append error: %v", err)
		}
		st.lastPoint = &p
	}

	if settings.TrackingEnabled && settings.WorkLocation != nil {
		if !st.working && geo.DistanceM(ll, *settings.WorkLocation) <= geofenceRadiusM {
			if t.startLocked(ctx, userID, st) {
				t.notifyLocked(userID, "Auto clock-in", "clocked in near your work location")
			}
		} else if st.working && settings.HomeLocation != nil &&
			geo.DistanceM(ll, *settings.HomeLocation) <= geofenceRadiusM {
			if t.stopLocked(ctx, userID, st) {
				t.notifyLocked(userID, "Auto clock-out", "clocked out near your home location")
			}
		}
	}

	return t.statusLocked(st)
}

// SetTask updates the description recorded on the next clock-out.
func (t *Tracker) SetTask(ctx context.Context, userID, task string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := t.stateLocked(ctx, userID)
	st.task = task
	t.saveTimerLocked(ctx, userID, st)
}

// Status reports the current timer view without mutating anything.
func (t *Tracker) Status(ctx context.Context, userID string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.statusLocked(t.stateLocked(ctx, userID))
}

func (t *Tracker) startLocked(ctx context.Context, userID string, st *state) bool {
	if st.working {
		return false
	}
	cur, err := t.projects.Current(ctx, userID)
	if err != nil || cur == nil {
		return false
	}

	st.working = true
	st.sessionID = uuid.NewString()
	st.startTime = t.now().UnixMilli()
	st.projectName = cur.Name
	st.hourlyRate = cur.DefaultHourlyRate
	t.saveTimerLocked(ctx, userID, st)
	return true
}

func (t *Tracker) stopLocked(ctx context.Context, userID string, st *state) bool {
	if !st.working {
		return false
	}

	end := t.now().UnixMilli()
	ws := session.WorkSession{
		ID:              st.sessionID,
		UserID:          userID,
		Date:            time.UnixMilli(st.startTime).Format("2006-01-02"),
		StartTime:       st.startTime,
		EndTime:         end,
		ProjectName:     st.projectName,
		TaskDescription: st.task,
		HourlyRate:      st.hourlyRate,
		Location:        st.label,
		StartLatLng:     copyLatLng(st.current),
		EndLatLng:       copyLatLng(st.current),
	}
	if err := t.sessions.Append(ctx, ws); err != nil {
		log.Printf("session append error: %v", err)
	}

	st.working = false
	st.sessionID = ""
	st.startTime = 0
	st.task = ""
	st.projectName = ""
	st.hourlyRate = 0
	t.saveTimerLocked(ctx, userID, st)

	t.syncAfterStop(userID)
	return true
}

// stateLocked returns the in-memory state for a user, restoring a persisted
// open timer on first access so a restart resumes it.
func (t *Tracker) stateLocked(ctx context.Context, userID string) *state {
	if st, ok := t.states[userID]; ok {
		return st
	}

	st := &state{label: location.LabelOther}
	if t.timers != nil {
		if ts, ok, err := t.timers.Load(ctx, userID); err == nil && ok && ts.Working {
			st.working = true
			st.sessionID = ts.SessionID
			st.startTime = ts.StartTime
			st.projectName = ts.ProjectName
			st.hourlyRate = ts.HourlyRate
			st.task = ts.Task
		}
	}
	t.states[userID] = st
	return st
}

func (t *Tracker) statusLocked(st *state) Status {
	s := Status{
		Working:     st.working,
		StartTime:   st.startTime,
		ProjectName: st.projectName,
		Task:        st.task,
		Label:       st.label,
	}
	if st.working {
		s.ElapsedMs = t.now().UnixMilli() - st.startTime
	}
	return s
}

func (t *Tracker) saveTimerLocked(ctx context.Context, userID string, st *state) {
	if t.timers == nil {
		return
	}
	err := t.timers.Save(ctx, userID, TimerState{
		Working:     st.working,
		SessionID:   st.sessionID,
		StartTime:   st.startTime,
		ProjectName: st.projectName,
		HourlyRate:  st.hourlyRate,
		Task:        st.task,
	})
	if err != nil {
		log.Printf("timer state save error: %v", err)
	}
}

func (t *Tracker) notifyLocked(userID, title, body string) {
	if t.notifier != nil {
		t.notifier.Notify(userID, title, body)
	}
}

func (t *Tracker) syncAfterStop(userID string) {
	if t.syncer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		history, err := t.sessions.History(ctx, userID)
		if err != nil {
			log.Printf("sync history load error: %v", err)
			return
		}
		if t.syncer.Upload(ctx, userID, history) {
			t.notifyLocked(userID, "Cloud sync", "work history uploaded")
		} else {
			t.notifyLocked(userID, "Cloud sync", "upload failed, will retry on next clock-out")
		}
	}()
}

func resolveLabel(ll geo.LatLng, settings place.Settings) string {
	// Work wins when both geofences overlap.
	if settings.WorkLocation != nil && geo.DistanceM(ll, *settings.WorkLocation) <= geofenceRadiusM {
		return location.LabelWork
	}
	if settings.HomeLocation != nil && geo.DistanceM(ll, *settings.HomeLocation) <= geofenceRadiusM {
		return location.LabelHome
	}
	return location.LabelOther
}

func copyLatLng(ll *geo.LatLng) *geo.LatLng {
	if ll == nil {
		return nil
	}
	c := *ll
	return &c
}
