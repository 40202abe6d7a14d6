// Package app ties the per-frame pipeline together and provides session
// events and configuration reload.
package app

import (
	"sync"

	"tabletop-guide/internal/alignment"
	"tabletop-guide/internal/objects"
	"tabletop-guide/internal/task"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gocv.io/x/gocv"
)

// EventType identifies different session events.
type EventType int

const (
	EventTableAcquired EventType = iota // data: *alignment.Calibration
	EventTableLost                      // data: nil; the cached calibration stays in use
	EventStepAdvanced                   // data: task.Target that was just placed
	EventTaskComplete                   // data: [objects.NumClasses]task.Target
	EventProfilesReloaded               // data: objects.ProfileSet
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// FrameResult is what one ProcessFrame call produced.
type FrameResult struct {
	Frame       int
	Calibration *alignment.Calibration // Cached calibration used for detection; nil before the first lock
	Fresh       bool                   // This frame's markers produced the calibration
	Detections  objects.DetectionMap
	Advanced    bool
	State       task.State
}

// Session runs localization, detection and task sequencing for one
// guided placement run. ProcessFrame must be called from a single
// goroutine; QueueProfiles and On may be called from any goroutine.
type Session struct {
	ID string

	localizer *alignment.Localizer
	pipeline  *objects.Pipeline
	machine   *task.Machine
	log       zerolog.Logger

	cache  alignment.Cache
	frames int

	pending chan objects.ProfileSet

	mu        sync.RWMutex
	listeners map[EventType][]EventListener
}

// NewSession creates a session with a fresh id.
func NewSession(localizer *alignment.Localizer, pipeline *objects.Pipeline, machine *task.Machine, log zerolog.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		ID:        id,
		localizer: localizer,
		pipeline:  pipeline,
		machine:   machine,
		log:       log.With().Str("session", id).Logger(),
		pending:   make(chan objects.ProfileSet, 1),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// QueueProfiles hands a new profile set to the frame loop. It never blocks;
// if a set is already waiting, the newer one replaces it. The set takes
// effect at the start of the next ProcessFrame.
func (s *Session) QueueProfiles(p objects.ProfileSet) {
	for {
		select {
		case s.pending <- p:
			return
		default:
			select {
			case <-s.pending:
			default:
			}
		}
	}
}

func (s *Session) applyPendingProfiles() {
	select {
	case p := <-s.pending:
		s.pipeline.SetProfiles(p)
		s.Emit(EventProfilesReloaded, p)
	default:
	}
}

// ProcessFrame runs one frame through the pipeline: locate the table, fold
// the result into the calibration cache, detect objects against the cached
// calibration and advance the task.
func (s *Session) ProcessFrame(frame gocv.Mat) FrameResult {
	s.applyPendingProfiles()
	s.frames++

	fresh := s.localizer.Locate(frame)
	hadTable := s.cache.Misses() == 0 && s.cache.Updates() > 0
	s.cache = s.cache.Fold(fresh)
	cal, _ := s.cache.Current()

	switch {
	case fresh != nil && !hadTable:
		s.log.Info().Int("frame", s.frames).Msg("Session: table acquired")
		s.Emit(EventTableAcquired, fresh)
	case fresh == nil && hadTable:
		s.log.Warn().Int("frame", s.frames).Msg("Session: table markers lost, using last calibration")
		s.Emit(EventTableLost, nil)
	}

	detections := s.pipeline.Detect(frame, cal)

	var placed task.Target
	if obj, ok := s.machine.CurrentObject(); ok {
		placed = targetFor(s.machine.Targets(), obj)
	}
	advanced := s.machine.Update(detections)
	if advanced {
		placed.Placed = true
		s.log.Info().Stringer("object", placed.Class).
			Str("next", s.machine.State().String()).
			Msg("Session: object placed")
		s.Emit(EventStepAdvanced, placed)

		if s.machine.IsComplete() {
			s.log.Info().Int("frame", s.frames).Msg("Session: all tasks complete")
			s.Emit(EventTaskComplete, s.machine.Targets())
		}
	}

	return FrameResult{
		Frame:       s.frames,
		Calibration: cal,
		Fresh:       fresh != nil,
		Detections:  detections,
		Advanced:    advanced,
		State:       s.machine.State(),
	}
}

func targetFor(targets [objects.NumClasses]task.Target, c objects.Class) task.Target {
	for _, t := range targets {
		if t.Class == c {
			return t
		}
	}
	return task.Target{Class: c}
}

// Machine returns the task state machine for read-only queries.
func (s *Session) Machine() *task.Machine { return s.machine }

// Pipeline returns the detection pipeline.
func (s *Session) Pipeline() *objects.Pipeline { return s.pipeline }

// Frames returns the number of frames processed.
func (s *Session) Frames() int { return s.frames }
